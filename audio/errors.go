package audio

import "github.com/ayoisaiah/toolbox/internal/apperr"

var (
	errAudioUnavailable = &apperr.Error{
		Message: "audio output is not available",
	}

	errLoadSound = &apperr.Error{
		Message: "unable to load sound %s",
	}

	errPlayback = &apperr.Error{
		Message: "unable to play sound %s",
	}

	errSoundNotFound = &apperr.Error{
		Message: "no sound file found for %s in %s",
	}

	errInvalidSoundFormat = &apperr.Error{
		Message: "sound file must be in mp3, ogg, flac, or wav format",
	}
)
