package fill

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("fill: aborted")
	// ErrTooManyAttempts is returned when a field keeps failing validation
	// past the session's attempt limit.
	ErrTooManyAttempts = errors.New("fill: too many invalid answers")
)
