package llm

import "context"

// Provider abstracts the completion model. Implementations make exactly one
// attempt per call: retry policy belongs to the caller's boundary, never
// inside the pipeline.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
