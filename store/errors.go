package store

import (
	"errors"

	"github.com/ayoisaiah/toolbox/internal/apperr"
)

var (
	errToolboxRunning = &apperr.Error{
		Message: "is toolbox already running? Only one instance can be active at a time",
	}

	errOpenDB = &apperr.Error{
		Message: "unable to open %s database at %s",
	}

	errExport = &apperr.Error{
		Message: "exporting records failed",
	}

	errImport = &apperr.Error{
		Message: "importing records failed",
	}
)

// IsLocked reports whether err was caused by another process holding the
// database.
func IsLocked(err error) bool {
	return errors.Is(err, errToolboxRunning)
}
