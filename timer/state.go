package timer

import "time"

// Status is the lifecycle stage of the countdown.
type Status int

const (
	Idle Status = iota
	Running
	Paused
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// State describes the single outstanding countdown. WakeUp is set only while
// Running and Remaining only while Paused.
type State struct {
	WakeUp    time.Time
	Remaining time.Duration
	Total     time.Duration
	Status    Status
}

// remaining computes the time left at now without touching persistence.
func (st State) remaining(now time.Time) time.Duration {
	switch st.Status {
	case Paused:
		return st.Remaining
	case Running:
		if d := st.WakeUp.Sub(now); d > 0 {
			return d
		}
	}

	return 0
}
