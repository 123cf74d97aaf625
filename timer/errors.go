package timer

import "github.com/jojocoffee/serenity/internal/apperr"

var (
	errInvalidDuration = &apperr.Error{
		Message: "timer duration must be between 0 and %v, got %v",
	}

	errTimerActive = &apperr.Error{
		Message: "a %s timer already exists: reset it before starting a new one",
	}

	errNotRunning = &apperr.Error{
		Message: "cannot pause a timer that is %s",
	}

	errArm = &apperr.Error{
		Message: "unable to schedule the wake-up alarm",
	}

	errDisarm = &apperr.Error{
		Message: "unable to cancel the wake-up alarm",
	}

	errPersist = &apperr.Error{
		Message: "unable to save the timer state",
	}

	errRestore = &apperr.Error{
		Message: "unable to read the saved timer state",
	}

	errRecord = &apperr.Error{
		Message: "unable to record the completed session",
	}
)
