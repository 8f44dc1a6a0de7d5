// Package indexer runs the offline corpus pipeline: ingest the source PDF
// into raw segments, split segments into chunks, then embed and publish the
// evidence index. Each stage replaces its output wholesale; re-running a
// stage is always safe.
package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/clinrag/cds-explainer/internal/config"
	"github.com/clinrag/cds-explainer/internal/corpus"
	"github.com/clinrag/cds-explainer/internal/vectordb"
)

const (
	segmentsFileName = "raw_segments.jsonl"
	chunksFileName   = "chunks.jsonl"

	// embedBatchSize bounds how many chunks go to the embedder per call.
	embedBatchSize = 64
)

// Pipeline wires the offline stages to one configuration.
type Pipeline struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewPipeline creates a Pipeline. logger may be nil.
func NewPipeline(cfg *config.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// SegmentsPath returns where the ingest stage writes raw segments.
func (p *Pipeline) SegmentsPath() string {
	return filepath.Join(p.cfg.DataDir, segmentsFileName)
}

// ChunksPath returns where the chunk stage writes chunks.
func (p *Pipeline) ChunksPath() string {
	return filepath.Join(p.cfg.DataDir, chunksFileName)
}

// Ingest extracts raw segments from the configured source PDF and writes
// them to the data directory, replacing any previous run.
func (p *Pipeline) Ingest(ctx context.Context) (int, error) {
	meta := corpus.DocumentMeta{
		DocID:        p.cfg.Corpus.DocID,
		Source:       p.cfg.Corpus.Source,
		URL:          p.cfg.Corpus.URL,
		Jurisdiction: p.cfg.Corpus.Jurisdiction,
		Topic:        p.cfg.Corpus.Topic,
	}

	segments, err := corpus.ExtractPDF(p.cfg.Corpus.SourcePath, meta)
	if err != nil {
		return 0, fmt.Errorf("ingest: %w", err)
	}
	if len(segments) == 0 {
		return 0, fmt.Errorf("ingest: no readable text in %s", p.cfg.Corpus.SourcePath)
	}

	if err := os.MkdirAll(p.cfg.DataDir, 0o755); err != nil {
		return 0, fmt.Errorf("ingest: creating data directory: %w", err)
	}
	if err := corpus.WriteJSONL(p.SegmentsPath(), segments); err != nil {
		return 0, fmt.Errorf("ingest: %w", err)
	}

	p.logger.Info("ingested source document",
		zap.String("doc_id", meta.DocID),
		zap.Int("segments", len(segments)))
	return len(segments), nil
}

// Chunk reads the ingested segments, splits them with the configured window
// parameters and writes the chunk stream, replacing any previous run.
func (p *Pipeline) Chunk(ctx context.Context) (int, error) {
	segments, err := corpus.ReadJSONL[corpus.Segment](p.SegmentsPath())
	if err != nil {
		return 0, fmt.Errorf("chunk: reading segments (run ingest first): %w", err)
	}

	chunker, err := corpus.NewChunker(p.cfg.Chunking.MaxChars, p.cfg.Chunking.Overlap)
	if err != nil {
		return 0, fmt.Errorf("chunk: %w", err)
	}

	chunks := chunker.SplitAll(segments)
	if err := corpus.WriteJSONL(p.ChunksPath(), chunks); err != nil {
		return 0, fmt.Errorf("chunk: %w", err)
	}

	p.logger.Info("chunked segments",
		zap.Int("segments", len(segments)),
		zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// BuildIndex reads the chunk stream, embeds it batch by batch into the
// store and publishes the index atomically. The previous index stays live
// until the new one is complete.
func (p *Pipeline) BuildIndex(ctx context.Context, store vectordb.Store) (int, error) {
	chunks, err := corpus.ReadJSONL[corpus.Chunk](p.ChunksPath())
	if err != nil {
		return 0, fmt.Errorf("index: reading chunks (run chunk first): %w", err)
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("index: chunk stream is empty")
	}

	bar := progressbar.NewOptions(len(chunks),
		progressbar.OptionSetDescription("embedding chunks"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))
		if err := store.Add(ctx, chunks[start:end]); err != nil {
			return 0, fmt.Errorf("index: embedding chunks %d-%d: %w", start, end, err)
		}
		_ = bar.Add(end - start)
	}

	if err := store.Persist(ctx, p.cfg.IndexDir); err != nil {
		return 0, fmt.Errorf("index: %w", err)
	}

	p.logger.Info("published evidence index",
		zap.String("dir", p.cfg.IndexDir),
		zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// Build runs ingest, chunk and index back to back.
func (p *Pipeline) Build(ctx context.Context, store vectordb.Store) (int, error) {
	if _, err := p.Ingest(ctx); err != nil {
		return 0, err
	}
	if _, err := p.Chunk(ctx); err != nil {
		return 0, err
	}
	return p.BuildIndex(ctx, store)
}
