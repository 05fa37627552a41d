package timer

import "github.com/ayoisaiah/toolbox/internal/apperr"

var (
	errParseSessionCmd = &apperr.Error{
		Message: "unable to parse session_cmd option",
	}

	errRunSessionCmd = &apperr.Error{
		Message: "session_cmd %q failed",
	}
)
