package domain

import "errors"

// Error taxonomy shared across the pipeline. Callers branch with errors.Is;
// adapters wrap these with fmt.Errorf("...: %w", ...) to add context.
var (
	// ErrAiBackend marks transport failures or non-2xx answers from the AI
	// provider.
	ErrAiBackend = errors.New("ai backend failure")

	// ErrMalformedAiResponse marks provider answers that cannot be parsed
	// into the expected JSON object.
	ErrMalformedAiResponse = errors.New("malformed ai response")

	// ErrInvalidTransition marks an approve/reject/apply attempt from a
	// status that does not allow it.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound marks a missing news item, suggestion, or article.
	ErrNotFound = errors.New("not found")
)
