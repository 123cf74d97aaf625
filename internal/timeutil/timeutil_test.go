package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jojocoffee/serenity/internal/models"
)

func TestSecsToMinsAndSecs(t *testing.T) {
	cases := []struct {
		secs float64
		mins int
		s    int
	}{
		{secs: 0, mins: 0, s: 0},
		{secs: -3, mins: 0, s: 0},
		{secs: 59.2, mins: 1, s: 0},
		{secs: 61, mins: 1, s: 1},
		{secs: 900, mins: 15, s: 0},
		{secs: 3599.5, mins: 60, s: 0},
	}

	for _, tc := range cases {
		m, s := SecsToMinsAndSecs(tc.secs)
		assert.Equal(t, tc.mins, m, "minutes for %v", tc.secs)
		assert.Equal(t, tc.s, s, "seconds for %v", tc.secs)
	}
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, DaysIn(time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 31, DaysIn(time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFromStrISO(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

	d, err := FromStr(" 2024-06-01 ", now)
	require.NoError(t, err)
	assert.Equal(t, models.Date{Year: 2024, Month: time.June, Day: 1}, d)
}

func TestMonthFromStr(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

	m, err := MonthFromStr("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), m)

	m, err = MonthFromStr("2023-02", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC), m)
}
