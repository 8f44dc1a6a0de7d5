package patient

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TriState is an explicit three-value answer. "unknown" is clinically
// distinct from "no": an unknown pregnancy status blocks dosing, a negative
// one does not.
type TriState string

const (
	TriYes     TriState = "yes"
	TriNo      TriState = "no"
	TriUnknown TriState = "unknown"
)

// Known reports whether the value has been positively established.
func (t TriState) Known() bool {
	return t == TriYes || t == TriNo
}

// Valid reports whether the value is one of the three allowed states.
func (t TriState) Valid() bool {
	return t == TriYes || t == TriNo || t == TriUnknown
}

// UnmarshalJSON accepts "yes"/"no"/"unknown" (case-insensitive) and maps
// JSON null or the empty string to unknown. Anything else is rejected.
func (t *TriState) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TriUnknown
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tri-state field must be a string: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		*t = TriYes
	case "no":
		*t = TriNo
	case "unknown", "":
		*t = TriUnknown
	default:
		return fmt.Errorf("invalid tri-state value %q: must be yes, no or unknown", s)
	}
	return nil
}

// Sex is the patient's recorded sex.
type Sex string

const (
	SexFemale Sex = "female"
	SexMale   Sex = "male"
	SexOther  Sex = "other"
)

func (s Sex) Valid() bool {
	return s == SexFemale || s == SexMale || s == SexOther
}

// Context is the structured patient record attached to one request.
// It is never persisted and is immutable for the request's duration.
type Context struct {
	Age               int      `json:"age"`
	Sex               Sex      `json:"sex"`
	Pregnant          TriState `json:"pregnant"`
	PenicillinAllergy TriState `json:"penicillin_allergy"`
	OtherAllergies    []string `json:"other_allergies,omitempty"`
	EGFR              *float64 `json:"egfr"`
	Symptoms          []string `json:"symptoms,omitempty"`
	RedFlags          []string `json:"red_flags,omitempty"`
}

// Validate rejects malformed patient records before any pipeline step runs.
// Values are never silently coerced.
func (c *Context) Validate() error {
	if c.Age < 0 || c.Age > 120 {
		return fmt.Errorf("age %d out of range [0,120]", c.Age)
	}
	if !c.Sex.Valid() {
		return fmt.Errorf("invalid sex %q: must be female, male or other", c.Sex)
	}
	// Zero values from struct-literal construction normalize to unknown.
	if c.Pregnant == "" {
		c.Pregnant = TriUnknown
	}
	if c.PenicillinAllergy == "" {
		c.PenicillinAllergy = TriUnknown
	}
	if !c.Pregnant.Valid() {
		return fmt.Errorf("invalid pregnant value %q", c.Pregnant)
	}
	if !c.PenicillinAllergy.Valid() {
		return fmt.Errorf("invalid penicillin_allergy value %q", c.PenicillinAllergy)
	}
	return nil
}

// Summary renders the context as a compact single-line description, used in
// the retrieval query and the generation prompt.
func (c Context) Summary() string {
	egfr := "unknown"
	if c.EGFR != nil {
		egfr = fmt.Sprintf("%.1f", *c.EGFR)
	}
	return fmt.Sprintf(
		"age %d, sex %s, pregnant %s, penicillin_allergy %s, other_allergies [%s], egfr %s, symptoms [%s], red_flags [%s]",
		c.Age, c.Sex, c.Pregnant, c.PenicillinAllergy,
		strings.Join(c.OtherAllergies, ", "), egfr,
		strings.Join(c.Symptoms, ", "), strings.Join(c.RedFlags, ", "),
	)
}

// Request is the unit of work for one explainer invocation.
type Request struct {
	Question string  `json:"question"`
	Patient  Context `json:"patient"`
}

func (r *Request) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return fmt.Errorf("question is required")
	}
	if err := r.Patient.Validate(); err != nil {
		return fmt.Errorf("patient: %w", err)
	}
	return nil
}
