package static

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	for _, page := range []string{HowTo, About} {
		md, err := Markdown(page)
		require.NoError(t, err)
		assert.NotEmpty(t, md)
	}

	_, err := Markdown("changelog")
	assert.ErrorIs(t, err, errUnknownPage)
}

func TestRenderPlain(t *testing.T) {
	out, err := Render(HowTo, 60, true, false)
	require.NoError(t, err)

	assert.Contains(t, out, "How to meditate")
	assert.Contains(t, out, "Happy meditating!")
}

func TestRenderUnknownPage(t *testing.T) {
	_, err := Render("changelog", 60, true, true)
	assert.ErrorIs(t, err, errUnknownPage)
}
