package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrSessionRequired is returned when Render is called without a live
	// engine session in the render options.
	ErrSessionRequired = errors.New("tui: engine session is required")
)
