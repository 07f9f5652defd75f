package driven

import "context"

// CompletionService provides external text completion.
// This is an optional service - when nil, asking degrades to returning
// raw passages and memory summarization is disabled.
//
// Rate-limit, timeout and auth failures from the backend all surface to
// callers as generation failures; the service never fabricates output.
type CompletionService interface {
	// Complete produces a completion for the prompt under the given
	// system instructions.
	Complete(ctx context.Context, prompt, system string) (string, error)

	// Summarise condenses content to at most maxLen characters.
	// Used by conversational memory when a session outgrows its budget.
	Summarise(ctx context.Context, content string, maxLen int) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
