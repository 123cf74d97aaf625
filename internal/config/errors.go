package config

import "github.com/jojocoffee/serenity/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errPrompt = &apperr.Error{
		Message: "first-run prompt failed",
	}

	errInvalidConfigDuration = &apperr.Error{
		Message: "invalid %s: %v",
	}

	errInvalidCLIDuration = &apperr.Error{
		Message: "invalid duration %q: %v",
	}

	errInvalidDuration = &apperr.Error{
		Message: "%s must be between %v and %v, got %v",
	}

	errUnknownAlarmMode = &apperr.Error{
		Message: "unknown alarm mode %q (must be one of %s)",
	}

	errUnknownBackend = &apperr.Error{
		Message: "unknown storage backend %q (must be one of %s)",
	}

	errInvalidAlarmCommand = &apperr.Error{
		Message: "invalid alarm command",
	}

	errInvalidSound = &apperr.Error{
		Message: "invalid alert sound",
	}

	errInvalidLogLevel = &apperr.Error{
		Message: "unknown log level %q",
	}

	errInvalidLogRotation = &apperr.Error{
		Message: "log max_size_mb must be positive and max_backups must not be negative",
	}
)
