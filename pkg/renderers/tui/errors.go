package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoForm is returned when the page has no form to prompt for.
	ErrNoForm = errors.New("tui: page has no forms")
	// ErrTooManyAttempts stops a prompt loop that keeps receiving invalid
	// answers from a non-interactive driver.
	ErrTooManyAttempts = errors.New("tui: too many invalid answers")
)
