package countdown

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jojocoffee/serenity/internal/testutil"
	"github.com/jojocoffee/serenity/timer"
)

var epoch = time.Date(2024, time.March, 17, 7, 30, 0, 0, time.UTC)

type fixture struct {
	clock *testutil.Clock
	prefs *testutil.Prefs
	alarm *testutil.Alarm
	sched *timer.Scheduler
	model *Model
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		clock: testutil.NewClock(epoch),
		prefs: testutil.NewPrefs(),
		alarm: testutil.NewAlarm(),
	}

	sched, err := timer.New(f.prefs, f.alarm, timer.WithClock(f.clock.Now))
	require.NoError(t, err)

	f.sched = sched
	f.model = New(sched, Options{
		Now:            f.clock.Now,
		Style:          NewStyle(true),
		TwentyFourHour: true,
	})

	return f
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (f *fixture) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd

	for _, k := range keys {
		_, cmd = f.model.Update(keyMsg(k))
	}

	return cmd
}

func (f *fixture) poll() {
	remaining, err := f.sched.Poll()
	f.model.Update(pollMsg{remaining: remaining, err: err})
}

func TestSelectorAdjustsInMinuteSteps(t *testing.T) {
	f := newFixture(t)

	assert.Contains(t, f.model.View(), "15:00")

	f.press("right", "right", "l")
	assert.Equal(t, 18*time.Minute, f.sched.Selected())

	f.press("left")
	assert.Equal(t, 17*time.Minute, f.sched.Selected())
	assert.Contains(t, f.model.View(), "17:00")
}

func TestSelectorIsClamped(t *testing.T) {
	f := newFixture(t)

	for range 20 {
		f.press("left")
	}

	assert.Zero(t, f.sched.Selected())

	for range 70 {
		f.press("right")
	}

	assert.Equal(t, timer.MaxDuration, f.sched.Selected())
}

func TestStartPauseResumeReset(t *testing.T) {
	f := newFixture(t)

	f.press("enter")
	require.Equal(t, timer.Running, f.sched.State().Status)
	assert.Contains(t, f.model.View(), "until 07:45")

	// the selector is locked while the timer runs
	f.press("right")
	assert.Equal(t, 15*time.Minute, f.sched.Selected())

	f.clock.Advance(5 * time.Minute)
	f.poll()
	assert.Contains(t, f.model.View(), "10:00")

	f.press(" ")
	require.Equal(t, timer.Paused, f.sched.State().Status)
	assert.Contains(t, f.model.View(), "[Paused]")

	f.clock.Advance(time.Hour)
	f.poll()
	assert.Contains(t, f.model.View(), "10:00")

	f.press(" ")
	require.Equal(t, timer.Running, f.sched.State().Status)

	f.press("r")
	assert.Equal(t, timer.Idle, f.sched.State().Status)
	assert.False(t, f.model.completed)
	assert.Empty(t, f.prefs.Snapshot())
}

func TestCompletionIsAnnounced(t *testing.T) {
	f := newFixture(t)

	f.press("enter")

	f.clock.Advance(15 * time.Minute)
	f.poll()

	assert.Equal(t, timer.Idle, f.sched.State().Status)
	assert.True(t, f.model.completed)
	assert.Contains(t, f.model.View(), "Your session is complete")

	f.press("right")
	assert.False(t, f.model.completed)
}

func TestPauseAfterWakeUpCompletes(t *testing.T) {
	f := newFixture(t)

	f.press("enter")
	f.clock.Advance(20 * time.Minute)
	f.press(" ")

	assert.Equal(t, timer.Idle, f.sched.State().Status)
	assert.True(t, f.model.completed)
}

func TestActionErrorIsShown(t *testing.T) {
	f := newFixture(t)
	f.alarm.ArmErr = errors.New("alarm service unavailable")

	f.press("enter")

	assert.Equal(t, timer.Idle, f.sched.State().Status)
	assert.Contains(t, f.model.View(), "alarm service unavailable")
}

func TestPollSchedulesNextTick(t *testing.T) {
	f := newFixture(t)

	_, cmd := f.model.Update(pollMsg{})
	assert.NotNil(t, cmd)
	assert.NotNil(t, f.model.Init())
}

func TestQuit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		f := newFixture(t)

		cmd := f.press(k)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestWindowResize(t *testing.T) {
	f := newFixture(t)

	f.model.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	assert.Equal(t, 40-padding*2-4, f.model.progress.Width)

	f.model.Update(tea.WindowSizeMsg{Width: 200, Height: 20})
	assert.Equal(t, maxWidth, f.model.progress.Width)
}
