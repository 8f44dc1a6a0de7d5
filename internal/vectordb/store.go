package vectordb

import (
	"context"
	"errors"

	"github.com/clinrag/cds-explainer/internal/corpus"
)

// DefaultTopK is the number of evidence chunks retrieved when the caller
// does not specify k.
const DefaultTopK = 6

// ErrIndexNotFound indicates no persisted index exists at the configured
// location. The process must not serve requests in this state.
var ErrIndexNotFound = errors.New("evidence index not found")

// Evidence pairs a retrieved chunk with its relevance to the query.
type Evidence struct {
	Chunk     corpus.Chunk
	Relevance float32
}

// Store is the evidence store: a nearest-neighbor index over guideline
// chunks. The index is rebuilt wholesale offline, loaded once per process,
// and read-only afterwards; concurrent searches are safe.
type Store interface {
	// Add embeds and inserts chunks. Used only during an offline build.
	Add(ctx context.Context, chunks []corpus.Chunk) error

	// Search returns up to k chunks ordered by descending relevance,
	// embedding the query with the same embedder used at build time.
	Search(ctx context.Context, query string, k int) ([]Evidence, error)

	// Persist publishes the index to dir. A partially written index is
	// never published.
	Persist(ctx context.Context, dir string) error

	// Load restores a persisted index from dir. Returns ErrIndexNotFound
	// if none exists.
	Load(ctx context.Context, dir string) error

	// Count returns the number of indexed chunks.
	Count() int
}
