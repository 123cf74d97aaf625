package app

import (
	"context"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jojocoffee/serenity/internal/config"
	"github.com/jojocoffee/serenity/internal/models"
	"github.com/jojocoffee/serenity/internal/testutil"
	"github.com/jojocoffee/serenity/session"
	"github.com/jojocoffee/serenity/timer"
)

func TestFirstNonEmptyString(t *testing.T) {
	assert.Equal(t, "vim", firstNonEmptyString("", "vim", "nano"))
	assert.Empty(t, firstNonEmptyString("", ""))
	assert.Empty(t, firstNonEmptyString())
}

func TestStatusLine(t *testing.T) {
	pterm.DisableColor()

	now := time.Date(2024, time.March, 17, 7, 30, 0, 0, time.Local)

	cases := []struct {
		name  string
		state timer.State
		want  string
		hr24  bool
	}{
		{
			name:  "idle",
			state: timer.State{},
			want:  "No session in progress",
		},
		{
			name: "running",
			state: timer.State{
				Status: timer.Running,
				WakeUp: now.Add(10*time.Minute + 30*time.Second),
				Total:  15 * time.Minute,
			},
			want: "10:30 left (until 07:40 AM)",
		},
		{
			name: "running 24hr",
			state: timer.State{
				Status: timer.Running,
				WakeUp: now.Add(12 * time.Hour),
			},
			hr24: true,
			want: "(until 19:30)",
		},
		{
			name: "overdue",
			state: timer.State{
				Status: timer.Running,
				WakeUp: now.Add(-time.Minute),
			},
			want: "00:00 left",
		},
		{
			name: "paused",
			state: timer.State{
				Status:    timer.Paused,
				Remaining: 4*time.Minute + 5*time.Second,
			},
			want: "04:05 left",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{
				Display: config.DisplayConfig{TwentyFourHour: tc.hr24},
			}

			assert.Contains(t, statusLine(cfg, tc.state, now), tc.want)
		})
	}
}

func TestSleepUntilPastInstant(t *testing.T) {
	assert.True(t, sleepUntil(context.Background(), time.Now().Add(-time.Hour)))
}

func TestSleepUntilWakes(t *testing.T) {
	start := time.Now()

	assert.True(t, sleepUntil(context.Background(), start.Add(50*time.Millisecond)))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestSleepUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.False(t, sleepUntil(ctx, time.Now().Add(time.Hour)))
}

func TestFreshRecorderKeepsDaysWrittenElsewhere(t *testing.T) {
	backend := &testutil.Backend{Dates: []string{"2024-03-15"}}
	dates := session.New(backend)

	_, err := dates.Load()
	require.NoError(t, err)

	// another process records a day after this one loaded the list
	backend.Dates = append(backend.Dates, "2024-03-16")

	rec := freshRecorder{dates}
	require.NoError(t, rec.RecordCompletion(models.Date{Year: 2024, Month: time.March, Day: 17}))

	assert.ElementsMatch(
		t,
		[]string{"2024-03-15", "2024-03-16", "2024-03-17"},
		backend.Saved(),
	)
}

func TestGetRegistersCommands(t *testing.T) {
	a := Get()

	for _, name := range []string{
		"pause", "resume", "reset", "status", "calendar", "delete",
		"sounds", "howto", "about", "edit-config", "fire",
	} {
		assert.NotNil(t, a.Command(name), name)
	}

	assert.NotNil(t, a.Command("cal"))
	assert.True(t, a.Command("fire").Hidden)
}
