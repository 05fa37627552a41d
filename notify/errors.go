package notify

import "github.com/ayoisaiah/toolbox/internal/apperr"

var (
	errShow = &apperr.Error{
		Message: "unable to display notification",
	}

	errSessionBus = &apperr.Error{
		Message: "unable to connect to the session bus",
	}

	errNoServer = &apperr.Error{
		Message: "no notification server is running on the session bus",
	}

	errPermission = &apperr.Error{
		Message: "notification permission request failed",
	}
)
