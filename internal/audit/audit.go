// Package audit records a per-invocation trail of the explainer's safety
// decisions. Entries describe what the pipeline did, never who it was about:
// no patient field and no question text is ever stored.
package audit

import "time"

// Stage identifies how far an invocation progressed.
type Stage string

const (
	StageRejected         Stage = "rejected"
	StageEscalated        Stage = "escalated"
	StageRetrievalFailed  Stage = "retrieval_failed"
	StageGenerationFailed Stage = "generation_failed"
	StageUnparseable      Stage = "unparseable"
	StageAnswered         Stage = "answered"
)

// Entry is a single invocation record.
type Entry struct {
	ID                  string    `json:"id"`
	Timestamp           time.Time `json:"timestamp"`
	Stage               Stage     `json:"stage"`
	Escalated           bool      `json:"escalated"`
	MissingFieldCount   int       `json:"missing_field_count"`
	GroundingViolations int       `json:"grounding_violations"`
	EvidenceCount       int       `json:"evidence_count"`
	Model               string    `json:"model"`
	DurationMS          int64     `json:"duration_ms"`
}
