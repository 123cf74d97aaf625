// Package timer operates the meditation countdown. The countdown is stored as
// an absolute wake-up instant (or a remaining duration while paused) so that
// it survives the process being suspended, killed or restarted.
package timer

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jojocoffee/serenity/internal/models"
)

// Keys under which the timer state is persisted. Values are milliseconds.
const (
	KeyWakeUp    = "wake_up_time"
	KeyRemaining = "remaining_time"
	KeyTotal     = "total_time"
)

// AlarmID identifies the single wake-up alarm owned by the scheduler.
const AlarmID = "serenity-timer"

const (
	// MaxDuration is the longest countdown that can be started.
	MaxDuration = 60 * time.Minute
	// DefaultDuration is preselected whenever the timer becomes idle.
	DefaultDuration = 15 * time.Minute

	// an alarm delivered this much ahead of the wake-up instant still counts
	expiryTolerance = time.Second
)

// SoundOff disables the completion alert.
const SoundOff = "off"

// Prefs is a persistent key-value store of integers.
type Prefs interface {
	// Int64s reads keys together. A key that is not set is missing from the
	// result, which is distinct from zero.
	Int64s(keys ...string) (map[string]int64, error)
	// Update sets and deletes keys atomically.
	Update(set map[string]int64, del ...string) error
}

// Alarm schedules a one-shot callback that fires even if the current process
// is no longer running.
type Alarm interface {
	Arm(at time.Time, id string) error
	Disarm(id string) error
}

// Player plays the completion alert. Only one sound plays at a time.
type Player interface {
	Play(sound string) error
	Release()
}

// Recorder is told about every completed session.
type Recorder interface {
	RecordCompletion(d models.Date) error
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithPlayer sets the audio collaborator used for the completion alert.
func WithPlayer(p Player) Option {
	return func(s *Scheduler) {
		s.player = p
	}
}

// WithRecorder sets the collaborator that records completed sessions.
func WithRecorder(r Recorder) Option {
	return func(s *Scheduler) {
		s.recorder = r
	}
}

// WithSound sets the alert sound passed to the Player.
func WithSound(sound string) Option {
	return func(s *Scheduler) {
		s.sound = sound
	}
}

// WithDefaultDuration sets the duration preselected on every idle
// transition.
func WithDefaultDuration(d time.Duration) Option {
	return func(s *Scheduler) {
		s.defaultDuration = d
	}
}

// Scheduler owns the lifecycle of the single countdown. All methods are safe
// for concurrent use; every state transition is serialized by one mutex.
type Scheduler struct {
	prefs    Prefs
	alarm    Alarm
	player   Player
	recorder Recorder
	now      func() time.Time

	sound           string
	defaultDuration time.Duration
	selected        time.Duration

	state State
	// dirty is set when the last write of the timer state failed, in which
	// case the in-memory state is more recent than the persisted one.
	dirty bool

	alerts sync.WaitGroup
	mu     sync.Mutex
}

// New creates a scheduler and restores any countdown that was running or
// paused before the process started.
func New(prefs Prefs, alarm Alarm, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		prefs:           prefs,
		alarm:           alarm,
		now:             time.Now,
		sound:           SoundOff,
		defaultDuration: DefaultDuration,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.selected = s.defaultDuration

	st, err := s.load()
	if err != nil {
		return nil, err
	}

	s.state = st

	if st.Status != Idle {
		slog.Info(
			"restored timer",
			slog.String("status", st.Status.String()),
			slog.Time("wake_up", st.WakeUp),
			slog.Duration("remaining", st.Remaining),
		)
	}

	return s, nil
}

// State returns a snapshot of the current countdown.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Selected returns the duration currently chosen for the next countdown.
func (s *Scheduler) Selected() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selected
}

// Select chooses the duration of the next countdown.
func (s *Scheduler) Select(d time.Duration) error {
	if d < 0 || d > MaxDuration {
		return errInvalidDuration.Fmt(MaxDuration, d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = d

	return nil
}

// Start begins a countdown of duration d. The alarm is armed before any state
// changes, so a scheduling failure leaves the timer idle.
func (s *Scheduler) Start(d time.Duration) error {
	if d < 0 || d > MaxDuration {
		return errInvalidDuration.Fmt(MaxDuration, d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status != Idle {
		return errTimerActive.Fmt(s.state.Status)
	}

	return s.startLocked(d, d)
}

// Pause stops a running countdown and keeps the time that was left. If the
// wake-up instant has already passed, the countdown completes instead.
func (s *Scheduler) Pause() error {
	s.mu.Lock()
	fired, err := s.pauseLocked()
	s.mu.Unlock()

	if fired {
		s.alert()
	}

	return err
}

func (s *Scheduler) pauseLocked() (bool, error) {
	if s.state.Status != Running {
		return false, errNotRunning.Fmt(s.state.Status)
	}

	if err := s.alarm.Disarm(AlarmID); err != nil {
		return false, errDisarm.Wrap(err)
	}

	remaining := s.state.WakeUp.Sub(s.now())
	if remaining <= 0 {
		return s.expireLocked()
	}

	s.state = State{
		Status:    Paused,
		Remaining: remaining,
		Total:     s.state.Total,
	}

	slog.Info("timer paused", slog.Duration("remaining", remaining))

	err := s.persist(map[string]int64{
		KeyRemaining: remaining.Milliseconds(),
	}, KeyWakeUp)

	return false, err
}

// Resume restarts a paused countdown with the time that was left. It does
// nothing when there is no paused countdown.
func (s *Scheduler) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status != Paused || s.state.Remaining <= 0 {
		return nil
	}

	return s.startLocked(s.state.Remaining, s.state.Total)
}

// Reset cancels the countdown whatever its status.
func (s *Scheduler) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error

	if err := s.alarm.Disarm(AlarmID); err != nil {
		errs = append(errs, errDisarm.Wrap(err))
	}

	s.toIdleLocked()

	slog.Info("timer reset")

	errs = append(errs, s.persist(nil, KeyWakeUp, KeyRemaining, KeyTotal))

	return errors.Join(errs...)
}

// RemainingTime returns the time left at now. It has no side effects.
func (s *Scheduler) RemainingTime(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.remaining(now)
}

// Poll returns the time left and completes the countdown when a running
// timer has reached zero. It guards against alarms that the operating system
// delivered late or not at all.
func (s *Scheduler) Poll() (time.Duration, error) {
	s.mu.Lock()

	remaining := s.state.remaining(s.now())
	if s.state.Status != Running || remaining > 0 {
		s.mu.Unlock()
		return remaining, nil
	}

	fired, err := s.expireLocked()
	s.mu.Unlock()

	if fired {
		s.alert()
	}

	return 0, err
}

// OnExpire is the alarm callback. It may run in a freshly started process, so
// it reads the persisted state before acting. Callbacks that arrive while the
// timer is not running, or well before the current wake-up instant, are stale
// and ignored.
func (s *Scheduler) OnExpire() error {
	s.mu.Lock()
	fired, err := s.expireLocked()
	s.mu.Unlock()

	if fired {
		s.alert()
	}

	return err
}

// Close waits for a playing alert to finish and releases the audio player.
func (s *Scheduler) Close() {
	s.alerts.Wait()

	if s.player != nil {
		s.player.Release()
	}
}

func (s *Scheduler) startLocked(d, total time.Duration) error {
	wake := s.now().Add(d)

	if err := s.alarm.Arm(wake, AlarmID); err != nil {
		return errArm.Wrap(err)
	}

	s.state = State{
		Status: Running,
		WakeUp: wake,
		Total:  total,
	}

	slog.Info(
		"timer running",
		slog.Time("wake_up", wake),
		slog.Duration("remaining", d),
	)

	return s.persist(map[string]int64{
		KeyWakeUp: wake.UnixMilli(),
		KeyTotal:  total.Milliseconds(),
	}, KeyRemaining)
}

// expireLocked completes the countdown if it is due. Unless a previous write
// failed, the persisted state is consulted first since another process may
// have completed or changed the timer in the meantime.
func (s *Scheduler) expireLocked() (bool, error) {
	if !s.dirty {
		st, err := s.load()
		if err != nil {
			return false, err
		}

		if st.Status == Idle && s.state.Status != Idle {
			s.toIdleLocked()
		} else {
			st.Total = max(st.Total, s.state.Total)
			s.state = st
		}
	}

	now := s.now()

	if s.state.Status != Running {
		slog.Debug("ignoring stale alarm", slog.String("status", s.state.Status.String()))
		return false, nil
	}

	if s.state.WakeUp.Sub(now) > expiryTolerance {
		slog.Debug("ignoring early alarm", slog.Time("wake_up", s.state.WakeUp))
		return false, nil
	}

	return s.completeLocked()
}

// completeLocked records the session before the timer state is cleared. If
// the record fails the countdown stays due, so the next poll or launch
// completes it again.
func (s *Scheduler) completeLocked() (bool, error) {
	date := models.DateOf(s.state.WakeUp)

	if s.recorder != nil {
		if err := s.recorder.RecordCompletion(date); err != nil {
			return false, errRecord.Wrap(err)
		}
	}

	slog.Info("session completed", slog.String("date", date.String()))

	var errs []error

	s.toIdleLocked()

	if err := s.alarm.Disarm(AlarmID); err != nil {
		errs = append(errs, errDisarm.Wrap(err))
	}

	errs = append(errs, s.persist(nil, KeyWakeUp, KeyRemaining, KeyTotal))

	return true, errors.Join(errs...)
}

func (s *Scheduler) toIdleLocked() {
	s.state = State{}
	s.selected = s.defaultDuration
}

// persist writes the timer state in one update and tracks whether the
// persisted state is behind the in-memory one.
func (s *Scheduler) persist(set map[string]int64, del ...string) error {
	if err := s.prefs.Update(set, del...); err != nil {
		s.dirty = true
		return errPersist.Wrap(err)
	}

	s.dirty = false

	return nil
}

func (s *Scheduler) load() (State, error) {
	var st State

	vals, err := s.prefs.Int64s(KeyWakeUp, KeyRemaining, KeyTotal)
	if err != nil {
		return st, errRestore.Wrap(err)
	}

	remaining, hasRemaining := vals[KeyRemaining]
	wake, hasWake := vals[KeyWakeUp]
	total, hasTotal := vals[KeyTotal]

	switch {
	case hasRemaining && remaining > 0:
		st.Status = Paused
		st.Remaining = time.Duration(remaining) * time.Millisecond
	case hasWake:
		st.Status = Running
		st.WakeUp = time.UnixMilli(wake)
	default:
		return State{}, nil
	}

	if hasTotal && total > 0 {
		st.Total = time.Duration(total) * time.Millisecond
	}

	return st, nil
}

// alert plays the completion sound in the background. Any earlier playback
// is released first.
func (s *Scheduler) alert() {
	if s.player == nil || s.sound == "" || s.sound == SoundOff {
		return
	}

	s.alerts.Add(1)

	go func() {
		defer s.alerts.Done()

		s.player.Release()

		if err := s.player.Play(s.sound); err != nil {
			slog.Error("unable to play alert", slog.String("sound", s.sound), slog.Any("error", err))
		}
	}()
}
