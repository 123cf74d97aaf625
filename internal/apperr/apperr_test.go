package apperr

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = &Error{Message: "%s duration must be between %v and %v"}

func TestFmtMatchesSentinel(t *testing.T) {
	err := errSample.Fmt("timer", 0, "1h0m0s")

	assert.Equal(t, "timer duration must be between 0 and 1h0m0s", err.Error())
	assert.ErrorIs(t, err, errSample)
	assert.ErrorIs(t, err.Wrap(fs.ErrNotExist), errSample)
}

func TestWrapUnwraps(t *testing.T) {
	sentinel := &Error{Message: "opening store"}

	err := sentinel.Wrap(fs.ErrPermission)

	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.Equal(t, "opening store: permission denied", err.Error())
}

func TestUnrelatedErrorsDoNotMatch(t *testing.T) {
	a := &Error{Message: "a"}
	b := &Error{Message: "a"}

	assert.False(t, errors.Is(a.Fmt(), b))
}
