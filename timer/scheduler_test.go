package timer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jojocoffee/serenity/internal/models"
	"github.com/jojocoffee/serenity/internal/testutil"
	"github.com/jojocoffee/serenity/session"
)

var epoch = time.Date(2024, time.March, 17, 7, 30, 0, 0, time.Local)

type fixture struct {
	prefs   *testutil.Prefs
	alarm   *testutil.Alarm
	clock   *testutil.Clock
	player  *testutil.Player
	backend *testutil.Backend
	store   *session.Store
}

func newFixture() *fixture {
	backend := &testutil.Backend{}

	return &fixture{
		prefs:   testutil.NewPrefs(),
		alarm:   testutil.NewAlarm(),
		clock:   testutil.NewClock(epoch),
		player:  &testutil.Player{},
		backend: backend,
		store:   session.New(backend),
	}
}

// scheduler builds a scheduler over the fixture's shared collaborators, as a
// freshly launched process would.
func (f *fixture) scheduler(t *testing.T) *Scheduler {
	t.Helper()

	s, err := New(
		f.prefs,
		f.alarm,
		WithClock(f.clock.Now),
		WithPlayer(f.player),
		WithRecorder(f.store),
		WithSound("bell"),
	)
	require.NoError(t, err)

	return s
}

func assertDelta(t *testing.T, want, got time.Duration) {
	t.Helper()

	assert.InDelta(t, want.Seconds(), got.Seconds(), 1, "want %v, got %v", want, got)
}

func TestStartPersistsWakeUpInstant(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	require.NoError(t, s.Start(10*time.Minute))

	wake := epoch.Add(10 * time.Minute)

	st := s.State()
	assert.Equal(t, Running, st.Status)
	assert.True(t, st.WakeUp.Equal(wake))
	assert.Equal(t, 10*time.Minute, st.Total)

	assert.Equal(t, map[string]int64{
		KeyWakeUp: wake.UnixMilli(),
		KeyTotal:  (10 * time.Minute).Milliseconds(),
	}, f.prefs.Snapshot())

	at, armed := f.alarm.At(AlarmID)
	assert.True(t, armed)
	assert.True(t, at.Equal(wake))
}

func TestStartValidatesDuration(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	assert.ErrorIs(t, s.Start(-time.Second), errInvalidDuration)
	assert.ErrorIs(t, s.Start(61*time.Minute), errInvalidDuration)
	assert.Equal(t, Idle, s.State().Status)
	assert.Zero(t, f.alarm.Arms)
}

func TestStartRequiresIdle(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	require.NoError(t, s.Start(time.Minute))

	err := s.Start(time.Minute)
	assert.ErrorIs(t, err, errTimerActive)
	assert.Equal(t, 1, f.alarm.Arms)
}

func TestPauseResumeRoundTrip(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	require.NoError(t, s.Start(600*time.Second))

	f.clock.Advance(100 * time.Second)

	require.NoError(t, s.Pause())

	assert.Equal(t, Paused, s.State().Status)
	assertDelta(t, 500*time.Second, s.RemainingTime(f.clock.Now()))

	_, armed := f.alarm.At(AlarmID)
	assert.False(t, armed, "pause must disarm the alarm")
	assert.NotContains(t, f.prefs.Snapshot(), KeyWakeUp)
	assert.Equal(t, int64(500000), f.prefs.Snapshot()[KeyRemaining])

	// time spent paused does not count
	f.clock.Advance(time.Hour)
	assertDelta(t, 500*time.Second, s.RemainingTime(f.clock.Now()))

	require.NoError(t, s.Resume())

	st := s.State()
	assert.Equal(t, Running, st.Status)
	assert.Equal(t, 600*time.Second, st.Total)
	assert.NotContains(t, f.prefs.Snapshot(), KeyRemaining)

	f.clock.Advance(500 * time.Second)

	assert.Zero(t, s.RemainingTime(f.clock.Now()))

	require.NoError(t, s.OnExpire())
	require.NoError(t, s.OnExpire())

	s.Close()

	assert.Equal(t, Idle, s.State().Status)
	assert.Equal(t, []models.Date{models.DateOf(f.clock.Now())}, f.store.AllDates())
	assert.Equal(t, []string{"bell"}, f.player.Played(), "expiry fires exactly once")
	assert.Empty(t, f.prefs.Snapshot())
}

func TestStartThenImmediatePause(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	require.NoError(t, s.Start(20*time.Minute))
	require.NoError(t, s.Pause())

	st := s.State()
	assert.Equal(t, Paused, st.Status)
	assertDelta(t, 20*time.Minute, st.Remaining)
}

func TestResumeWithoutPausedTimerIsNoop(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	require.NoError(t, s.Resume())
	assert.Equal(t, Idle, s.State().Status)
	assert.Zero(t, f.alarm.Arms)

	require.NoError(t, s.Start(time.Minute))
	require.NoError(t, s.Resume())
	assert.Equal(t, 1, f.alarm.Arms)
}

func TestPauseRequiresRunning(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	assert.ErrorIs(t, s.Pause(), errNotRunning)

	require.NoError(t, s.Start(time.Minute))
	require.NoError(t, s.Pause())

	assert.ErrorIs(t, s.Pause(), errNotRunning)
}

func TestPauseAfterWakeUpCompletes(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	require.NoError(t, s.Start(time.Minute))

	f.clock.Advance(90 * time.Second)

	require.NoError(t, s.Pause())
	s.Close()

	assert.Equal(t, Idle, s.State().Status)
	assert.NotContains(t, f.prefs.Snapshot(), KeyRemaining, "negative durations are never persisted")
	assert.Len(t, f.store.AllDates(), 1)
	assert.Equal(t, []string{"bell"}, f.player.Played())
}

func TestResetDropsStaleCallback(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	require.NoError(t, s.Start(5*time.Minute))
	require.NoError(t, s.Reset())

	// the original fire instant arrives anyway
	f.clock.Advance(5 * time.Minute)

	require.NoError(t, s.OnExpire())
	s.Close()

	assert.Equal(t, Idle, s.State().Status)
	assert.Empty(t, f.store.AllDates())
	assert.Zero(t, f.backend.Saves)
	assert.Empty(t, f.player.Played())
	assert.Empty(t, f.prefs.Snapshot())
}

func TestStaleCallbackAfterResumeIsIgnored(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	require.NoError(t, s.Start(10 * time.Minute))

	f.clock.Advance(2 * time.Minute)
	require.NoError(t, s.Pause())

	f.clock.Advance(5 * time.Minute)
	require.NoError(t, s.Resume())

	// the first arming was for epoch+10m; the timer now ends at epoch+15m
	f.clock.Advance(3 * time.Minute)
	require.NoError(t, s.OnExpire())

	assert.Equal(t, Running, s.State().Status)
	assertDelta(t, 5*time.Minute, s.RemainingTime(f.clock.Now()))
	assert.Empty(t, f.store.AllDates())
}

func TestProcessRestartWhileRunning(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.scheduler(t).Start(300*time.Second))

	f.clock.Advance(200 * time.Second)

	relaunched := f.scheduler(t)

	assert.Equal(t, Running, relaunched.State().Status)
	assertDelta(t, 100*time.Second, relaunched.RemainingTime(f.clock.Now()))
	assert.Equal(t, 300*time.Second, relaunched.State().Total)
}

func TestProcessRestartWhilePaused(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	require.NoError(t, s.Start(300*time.Second))
	f.clock.Advance(120 * time.Second)
	require.NoError(t, s.Pause())

	f.clock.Advance(time.Hour)

	relaunched := f.scheduler(t)

	assert.Equal(t, Paused, relaunched.State().Status)
	assertDelta(t, 180*time.Second, relaunched.RemainingTime(f.clock.Now()))
}

func TestNonPositiveRemainingIsIgnoredOnRestore(t *testing.T) {
	f := newFixture()
	f.prefs.Values[KeyRemaining] = -5

	s := f.scheduler(t)

	assert.Equal(t, Idle, s.State().Status)
	assert.Zero(t, s.RemainingTime(f.clock.Now()))
}

func TestRestoreReadError(t *testing.T) {
	f := newFixture()
	f.prefs.ReadErr = errors.New("database locked")

	_, err := New(f.prefs, f.alarm)
	assert.ErrorIs(t, err, errRestore)
}

func TestColdProcessExpiry(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.scheduler(t).Start(time.Minute))

	f.clock.Advance(time.Minute)

	// the alarm launches a new process which knows nothing but the prefs
	cold := f.scheduler(t)
	require.NoError(t, cold.OnExpire())
	cold.Close()

	assert.Equal(t, []models.Date{models.DateOf(epoch)}, f.store.AllDates())
	assert.Equal(t, []string{"bell"}, f.player.Played())
	assert.Empty(t, f.prefs.Snapshot())
}

func TestFailedRecordKeepsSessionDue(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.scheduler(t).Start(time.Minute))

	f.clock.Advance(time.Minute)
	f.backend.SaveErr = errors.New("disk full")

	cold := f.scheduler(t)
	assert.ErrorIs(t, cold.OnExpire(), errRecord)
	cold.Close()

	assert.Equal(t, Running, cold.State().Status)
	assert.Contains(t, f.prefs.Snapshot(), KeyWakeUp)
	assert.Empty(t, f.player.Played())

	// the failed process is gone along with its in-memory days
	f.backend.SaveErr = nil
	f.store = session.New(f.backend)
	f.clock.Advance(time.Hour)

	relaunched := f.scheduler(t)
	require.Equal(t, Running, relaunched.State().Status)

	remaining, err := relaunched.Poll()
	require.NoError(t, err)
	relaunched.Close()

	assert.Zero(t, remaining)
	assert.Equal(t, Idle, relaunched.State().Status)
	assert.Equal(t, []string{models.DateOf(epoch).String()}, f.backend.Saved())
	assert.Equal(t, []string{"bell"}, f.player.Played())
	assert.Empty(t, f.prefs.Snapshot())
}

func TestClearFailureAfterRecordDoesNotDuplicate(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.scheduler(t).Start(time.Minute))

	f.clock.Advance(time.Minute)
	f.prefs.WriteErr = errors.New("database locked")

	cold := f.scheduler(t)
	assert.ErrorIs(t, cold.OnExpire(), errPersist)
	cold.Close()

	assert.Equal(t, 1, f.backend.Saves)
	assert.Contains(t, f.prefs.Snapshot(), KeyWakeUp)

	f.prefs.WriteErr = nil

	relaunched := f.scheduler(t)
	_, err := relaunched.Poll()
	require.NoError(t, err)
	relaunched.Close()

	assert.Equal(t, []models.Date{models.DateOf(epoch)}, f.store.AllDates())
	assert.Equal(t, 1, f.backend.Saves)
	assert.Empty(t, f.prefs.Snapshot())
}

func TestPollAfterOtherProcessCompleted(t *testing.T) {
	f := newFixture()
	ui := f.scheduler(t)

	require.NoError(t, ui.Start(time.Minute))

	f.clock.Advance(time.Minute)

	cold := f.scheduler(t)
	require.NoError(t, cold.OnExpire())

	remaining, err := ui.Poll()
	require.NoError(t, err)

	ui.Close()
	cold.Close()

	assert.Zero(t, remaining)
	assert.Equal(t, Idle, ui.State().Status)
	assert.Equal(t, []string{"bell"}, f.player.Played(), "alert plays once")
	assert.Equal(t, 1, f.backend.Saves)
}

func TestPollExpiresMissedAlarm(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	require.NoError(t, s.Start(30*time.Second))

	remaining, err := s.Poll()
	require.NoError(t, err)
	assertDelta(t, 30*time.Second, remaining)

	f.clock.Advance(45 * time.Second)

	remaining, err = s.Poll()
	require.NoError(t, err)
	assert.Zero(t, remaining)

	s.Close()

	assert.Equal(t, Idle, s.State().Status)
	assert.Len(t, f.store.AllDates(), 1)
}

func TestPollWhilePausedDoesNotExpire(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	require.NoError(t, s.Start(time.Minute))
	require.NoError(t, s.Pause())

	f.clock.Advance(time.Hour)

	remaining, err := s.Poll()
	require.NoError(t, err)
	assertDelta(t, time.Minute, remaining)
	assert.Equal(t, Paused, s.State().Status)
}

func TestArmFailureIsFailClosed(t *testing.T) {
	f := newFixture()
	armErr := errors.New("alarm service unavailable")
	f.alarm.ArmErr = armErr

	s := f.scheduler(t)

	err := s.Start(time.Minute)
	assert.ErrorIs(t, err, armErr)
	assert.ErrorIs(t, err, errArm)
	assert.Equal(t, Idle, s.State().Status)
	assert.Empty(t, f.prefs.Snapshot())
}

func TestResumeArmFailureStaysPaused(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	require.NoError(t, s.Start(time.Minute))
	f.clock.Advance(10 * time.Second)
	require.NoError(t, s.Pause())

	f.alarm.ArmErr = errors.New("alarm service unavailable")

	assert.ErrorIs(t, s.Resume(), errArm)

	st := s.State()
	assert.Equal(t, Paused, st.Status)
	assertDelta(t, 50*time.Second, st.Remaining)
	assert.Equal(t, int64(50000), f.prefs.Snapshot()[KeyRemaining])
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	f.prefs.WriteErr = errors.New("no space left on device")

	err := s.Start(time.Minute)
	assert.ErrorIs(t, err, errPersist)
	assert.Equal(t, Running, s.State().Status)

	// the in-memory state is authoritative until a write succeeds
	f.clock.Advance(time.Minute)

	_, err = s.Poll()
	assert.ErrorIs(t, err, errPersist)

	s.Close()

	assert.Equal(t, Idle, s.State().Status)
	assert.Len(t, f.store.AllDates(), 1)
}

func TestSelectionResetsOnIdle(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	assert.Equal(t, DefaultDuration, s.Selected())

	require.NoError(t, s.Select(30*time.Minute))
	assert.ErrorIs(t, s.Select(2*time.Hour), errInvalidDuration)
	assert.Equal(t, 30*time.Minute, s.Selected())

	require.NoError(t, s.Start(s.Selected()))
	require.NoError(t, s.Reset())
	assert.Equal(t, DefaultDuration, s.Selected())

	require.NoError(t, s.Select(time.Minute))
	require.NoError(t, s.Start(s.Selected()))
	f.clock.Advance(time.Minute)
	require.NoError(t, s.OnExpire())
	s.Close()

	assert.Equal(t, DefaultDuration, s.Selected())
}

func TestSoundOffSkipsAlert(t *testing.T) {
	f := newFixture()

	s, err := New(f.prefs, f.alarm, WithClock(f.clock.Now), WithPlayer(f.player), WithSound(SoundOff))
	require.NoError(t, err)

	require.NoError(t, s.Start(0))
	require.NoError(t, s.OnExpire())
	s.Close()

	assert.Empty(t, f.player.Played())
	assert.Equal(t, 1, f.player.Releases)
}

func TestEndToEndSession(t *testing.T) {
	f := newFixture()
	s := f.scheduler(t)

	_, err := f.store.Load()
	require.NoError(t, err)

	require.NoError(t, s.Select(15*time.Minute))
	require.NoError(t, s.Start(s.Selected()))

	for range 15 * 60 {
		f.clock.Advance(time.Second)

		_, err = s.Poll()
		require.NoError(t, err)
	}

	s.Close()

	today := models.DateOf(f.clock.Now())

	assert.Equal(t, Idle, s.State().Status)
	assert.Equal(t, []models.Date{today}, f.store.AllDates())

	require.NoError(t, f.store.DeleteDate(today))
	assert.Empty(t, f.store.AllDates())
	assert.Empty(t, f.backend.Saved())
}
