package ai

import "errors"

// Terminal estimator failures the UI is expected to present distinctly,
// each paired with a manual-entry fallback path. They are returned
// alongside a deterministic fallback record, never instead of one.
var (
	// ErrOverloaded: the upstream model kept returning 503 after retries.
	ErrOverloaded = errors.New("ai service overloaded")

	// ErrTimedOut: the request exceeded its bounded deadline.
	ErrTimedOut = errors.New("ai request timed out")

	// ErrUnprocessable: the model replied with something no correction
	// step could turn into a usable estimate.
	ErrUnprocessable = errors.New("ai reply unprocessable")
)
