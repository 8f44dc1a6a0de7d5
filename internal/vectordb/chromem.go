package vectordb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	chromem "github.com/philippgille/chromem-go"

	"github.com/clinrag/cds-explainer/internal/corpus"
	"github.com/clinrag/cds-explainer/internal/embeddings"
)

const (
	collectionName = "guideline"
	indexFileName  = "index.gob.gz"
)

// ChromemStore implements Store using chromem-go.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// NewChromemStore creates an empty in-memory store bound to the given
// embedder.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		collection: col,
		embedFunc:  ef,
	}, nil
}

// Add embeds and inserts chunks. Any embedding failure aborts the whole
// call; the store may then hold a partial collection and must not be
// persisted.
func (s *ChromemStore) Add(ctx context.Context, chunks []corpus.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, ch := range chunks {
		docs[i] = chromem.Document{
			ID:       ch.ChunkID,
			Content:  ch.Text,
			Metadata: chunkMetadata(ch),
		}
	}

	if err := s.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	return nil
}

// Search returns up to k chunks by descending relevance. k <= 0 falls back
// to DefaultTopK.
func (s *ChromemStore) Search(ctx context.Context, query string, k int) ([]Evidence, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	// chromem requires nResults <= collection size.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := s.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	evidence := make([]Evidence, len(results))
	for i, r := range results {
		evidence[i] = Evidence{
			Chunk:     chunkFromResult(r.ID, r.Content, r.Metadata),
			Relevance: r.Similarity,
		}
	}
	return evidence, nil
}

// Persist writes the index to a staging directory next to dir and renames
// it into place, so a crash mid-write never publishes a partial index.
func (s *ChromemStore) Persist(ctx context.Context, dir string) error {
	staging := dir + ".staging"
	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("clearing staging dir: %w", err)
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return fmt.Errorf("creating staging dir: %w", err)
	}

	if err := s.db.ExportToFile(filepath.Join(staging, indexFileName), true, ""); err != nil {
		os.RemoveAll(staging)
		return fmt.Errorf("exporting index: %w", err)
	}

	// Swap via a sibling rename so a valid index exists on disk at every
	// point: the previous index is only discarded after the new one is in
	// place.
	previous := dir + ".previous"
	if err := os.RemoveAll(previous); err != nil {
		return fmt.Errorf("clearing previous-index dir: %w", err)
	}
	if _, err := os.Stat(dir); err == nil {
		if err := os.Rename(dir, previous); err != nil {
			return fmt.Errorf("setting aside previous index: %w", err)
		}
	}
	if err := os.Rename(staging, dir); err != nil {
		// Put the old index back so readers are not left without one.
		os.Rename(previous, dir)
		return fmt.Errorf("publishing index: %w", err)
	}
	if err := os.RemoveAll(previous); err != nil {
		return fmt.Errorf("removing previous index: %w", err)
	}
	return nil
}

// Load restores a persisted index from dir.
func (s *ChromemStore) Load(ctx context.Context, dir string) error {
	path := filepath.Join(dir, indexFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrIndexNotFound, path)
	}

	if err := s.db.ImportFromFile(path, ""); err != nil {
		return fmt.Errorf("importing index from %s: %w", path, err)
	}

	// Re-acquire the collection reference after import.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found in index at %s", collectionName, path)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

// chunkMetadata flattens a chunk's provenance into chromem's string map.
// The chunk text itself is the document content.
func chunkMetadata(ch corpus.Chunk) map[string]string {
	return map[string]string{
		"doc_id":       ch.DocID,
		"source":       ch.Source,
		"url":          ch.URL,
		"jurisdiction": ch.Jurisdiction,
		"topic":        ch.Topic,
		"section":      ch.Section,
	}
}

func chunkFromResult(id, content string, m map[string]string) corpus.Chunk {
	return corpus.Chunk{
		ChunkID:      id,
		DocID:        m["doc_id"],
		Source:       m["source"],
		URL:          m["url"],
		Jurisdiction: m["jurisdiction"],
		Topic:        m["topic"],
		Section:      m["section"],
		Text:         content,
	}
}
