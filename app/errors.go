package app

import "github.com/ayoisaiah/toolbox/internal/apperr"

var (
	errInvalidPeriod = &apperr.Error{
		Message: "invalid period %q: must be one of %s",
	}

	errInvalidReset = &apperr.Error{
		Message: "invalid reset target %q: must be one of all, daily, weekly, streak",
	}

	errInvalidSince = &apperr.Error{
		Message: "unable to understand the time %q",
	}

	errPromptFailed = &apperr.Error{
		Message: "user prompt failed",
	}

	errFileAccess = &apperr.Error{
		Message: "unable to access %s",
	}
)
