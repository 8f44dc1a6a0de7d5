package embeddings

import "context"

// Embedder generates vector embeddings for text. The same embedder must be
// used at index-build time and at query time; mixing models silently
// degrades retrieval.
type Embedder interface {
	// Embed generates embeddings for one or more texts, in order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Name identifies the embedding model.
	Name() string
}
