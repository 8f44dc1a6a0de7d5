package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinrag/cds-explainer/internal/db"
)

// Store provides persistence for invocation entries.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Log inserts a new invocation entry. If entry.ID is empty a UUID is
// generated.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invocations (
			id, stage, escalated, missing_field_count,
			grounding_violations, evidence_count, model, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		string(entry.Stage),
		boolToInt(entry.Escalated),
		entry.MissingFieldCount,
		entry.GroundingViolations,
		entry.EvidenceCount,
		entry.Model,
		entry.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("inserting invocation entry: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, stage, escalated, missing_field_count,
		       grounding_violations, evidence_count, model, duration_ms
		FROM invocations
		ORDER BY timestamp DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying invocations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var escalated int
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.Stage, &escalated, &e.MissingFieldCount,
			&e.GroundingViolations, &e.EvidenceCount, &e.Model, &e.DurationMS); err != nil {
			return nil, fmt.Errorf("scanning invocation entry: %w", err)
		}
		e.Escalated = escalated != 0
		t, err := time.Parse(time.DateTime, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing invocation timestamp %q: %w", ts, err)
		}
		e.Timestamp = t
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invocations: %w", err)
	}
	return entries, nil
}

// CountByStage returns the number of entries per stage.
func (s *Store) CountByStage(ctx context.Context) (map[Stage]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT stage, COUNT(*) FROM invocations GROUP BY stage`)
	if err != nil {
		return nil, fmt.Errorf("counting invocations: %w", err)
	}
	defer rows.Close()

	counts := make(map[Stage]int)
	for rows.Next() {
		var stage string
		var n int
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, fmt.Errorf("scanning stage count: %w", err)
		}
		counts[Stage(stage)] = n
	}
	return counts, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
