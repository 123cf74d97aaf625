// Package alarm provides one-shot wake-up alarms for the timer scheduler
package alarm

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jojocoffee/serenity/internal/apperr"
)

var (
	errZeroInstant = &apperr.Error{
		Message: "alarm %s: wake-up instant is not set",
	}

	errClosed = &apperr.Error{
		Message: "alarm %s: alarms have been stopped",
	}
)

// Local fires alarms from a goroutine of the current process. Its alarms do
// not outlive the process.
type Local struct {
	fire    func(id string) error
	timers  map[string]*time.Timer
	stopped bool
	// callbacks that have started running
	inflight sync.WaitGroup
	mu       sync.Mutex
}

// NewLocal returns alarms that call fire when they go off.
func NewLocal(fire func(id string) error) *Local {
	return &Local{
		fire:   fire,
		timers: make(map[string]*time.Timer),
	}
}

// Arm schedules id to go off at the given instant, replacing any alarm armed
// earlier under the same id. An instant in the past fires right away.
func (l *Local) Arm(at time.Time, id string) error {
	if at.IsZero() {
		return errZeroInstant.Fmt(id)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return errClosed.Fmt(id)
	}

	if prev, ok := l.timers[id]; ok {
		prev.Stop()
	}

	var t *time.Timer

	t = time.AfterFunc(max(time.Until(at), 0), func() {
		l.mu.Lock()
		// a timer that was replaced or disarmed after it started firing
		if l.timers[id] != t {
			l.mu.Unlock()
			return
		}

		delete(l.timers, id)
		l.inflight.Add(1)
		l.mu.Unlock()

		defer l.inflight.Done()

		if err := l.fire(id); err != nil {
			slog.Error("alarm callback failed", slog.String("id", id), slog.Any("error", err))
		}
	})

	l.timers[id] = t

	return nil
}

// Disarm cancels id. Disarming an alarm that is not armed is not an error.
func (l *Local) Disarm(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.timers[id]; ok {
		t.Stop()
		delete(l.timers, id)
	}

	return nil
}

// Armed reports whether id is waiting to go off.
func (l *Local) Armed(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.timers[id]

	return ok
}

// Stop cancels every pending alarm and waits for callbacks that are already
// running. Later calls to Arm fail. Stop must not be called from a callback.
func (l *Local) Stop() {
	l.mu.Lock()

	for id, t := range l.timers {
		t.Stop()
		delete(l.timers, id)
	}

	l.stopped = true
	l.mu.Unlock()

	l.inflight.Wait()
}
