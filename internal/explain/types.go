// Package explain orchestrates the guarded question-answering flow: guardrail
// checks, evidence retrieval, one temperature-zero generation call, strict
// parsing and citation grounding. Every path through the flow produces a
// typed Outcome.
package explain

import (
	"github.com/clinrag/cds-explainer/internal/answer"
	"github.com/clinrag/cds-explainer/internal/vectordb"
)

// EvidenceRef describes one retrieved chunk as shown to the clinician:
// provenance plus the text that went into the prompt.
type EvidenceRef struct {
	ChunkID   string  `json:"chunk_id"`
	DocID     string  `json:"doc_id"`
	Section   string  `json:"section"`
	URL       string  `json:"url"`
	Relevance float32 `json:"relevance"`
	Text      string  `json:"text"`
}

// Outcome is the single result type of an explain invocation. Exactly one
// of the three shapes holds:
//
//   - Escalated: red flags present, generation never ran. Message carries
//     the fixed advisory; everything else is empty.
//   - Answered (Escalated false, Unparseable false): Answer is present,
//     possibly with MissingFields, an Advisory and GroundingViolations.
//   - Unparseable: the model reply failed strict parsing. RawText carries
//     the verbatim reply for clinician inspection; Answer is nil.
type Outcome struct {
	Escalated bool   `json:"escalated"`
	Message   string `json:"message,omitempty"`

	Answer              *answer.StructuredAnswer `json:"answer,omitempty"`
	MissingFields       []string                 `json:"missing_fields,omitempty"`
	Advisory            string                   `json:"advisory,omitempty"`
	GroundingViolations []string                 `json:"grounding_violations,omitempty"`

	Unparseable bool   `json:"unparseable,omitempty"`
	RawText     string `json:"raw_text,omitempty"`

	Evidence []EvidenceRef `json:"evidence,omitempty"`
	Model    string        `json:"model,omitempty"`
}

// MissingFieldsAdvisory is attached to an answered outcome whenever any
// critical field is unknown. The model also sees this constraint in its
// system prompt; the advisory restates it deterministically on the way out.
const MissingFieldsAdvisory = "Critical information is missing (see missing_fields). Do not finalize antibiotic choice or dosing until it is established."

func evidenceRefs(evs []vectordb.Evidence) []EvidenceRef {
	refs := make([]EvidenceRef, 0, len(evs))
	for _, ev := range evs {
		refs = append(refs, EvidenceRef{
			ChunkID:   ev.Chunk.ChunkID,
			DocID:     ev.Chunk.DocID,
			Section:   ev.Chunk.Section,
			URL:       ev.Chunk.URL,
			Relevance: ev.Relevance,
			Text:      ev.Chunk.Text,
		})
	}
	return refs
}
