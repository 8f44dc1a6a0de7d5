// Package answer defines the structured result contract with the completion
// model and its strict parser. A response either parses into a complete
// StructuredAnswer or it is absent; there are no partial records, no repair
// and no retry.
package answer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Citation points a claim back to a specific evidence chunk.
type Citation struct {
	ChunkID string `json:"chunk_id"`
	DocID   string `json:"doc_id"`
	Section string `json:"section"`
	URL     string `json:"url"`
}

// StructuredAnswer is the fixed-schema output the model must produce.
type StructuredAnswer struct {
	Recommendation string     `json:"recommendation"`
	Rationale      string     `json:"rationale"`
	SafetyChecks   []string   `json:"safety_checks"`
	MissingInfo    []string   `json:"missing_info"`
	Citations      []Citation `json:"citations"`
}

// Parse strictly decodes raw model output into a StructuredAnswer. It
// rejects unknown fields, non-object payloads and trailing content. Failure
// means the answer is absent; callers surface the raw text instead.
func Parse(raw string) (*StructuredAnswer, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var a StructuredAnswer
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("decoding structured answer: %w", err)
	}

	// A single object, nothing after it.
	if err := checkTrailing(dec); err != nil {
		return nil, err
	}

	return &a, nil
}

func checkTrailing(dec *json.Decoder) error {
	var extra json.RawMessage
	err := dec.Decode(&extra)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("trailing content after structured answer: %w", err)
	}
	return fmt.Errorf("trailing content after structured answer")
}

// GroundingViolations returns the chunk IDs cited by the answer that were
// not part of the evidence pack supplied to generation. Any violation means
// the model fabricated or misattributed a citation.
func (a *StructuredAnswer) GroundingViolations(knownChunkIDs map[string]bool) []string {
	var violations []string
	seen := map[string]bool{}
	for _, c := range a.Citations {
		if !knownChunkIDs[c.ChunkID] && !seen[c.ChunkID] {
			violations = append(violations, c.ChunkID)
			seen[c.ChunkID] = true
		}
	}
	return violations
}
