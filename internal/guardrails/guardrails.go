// Package guardrails implements the deterministic safety checks that run
// around every generation call. Both checks are pure functions over the
// patient context: no model, no network, no failure modes.
package guardrails

import (
	"strings"

	"github.com/clinrag/cds-explainer/internal/patient"
)

// EscalationMessage is the fixed advisory returned when red flags are present.
const EscalationMessage = "Red flags present (possible pyelonephritis or serious illness). Escalate to urgent clinical evaluation."

// escalationFlags is the set of red flags that force escalation.
// pregnancy_complication is included: any selectable red flag that could not
// trigger escalation would be a silent safety gap.
var escalationFlags = map[string]bool{
	"fever":                  true,
	"flank_pain":             true,
	"rigors":                 true,
	"sepsis_signs":           true,
	"pregnancy_complication": true,
}

// CheckEscalation reports whether the patient's red flags require halting
// the automated flow. Matching is case-insensitive. When it returns true,
// generation must not be invoked.
func CheckEscalation(p patient.Context) (bool, string) {
	for _, flag := range p.RedFlags {
		if escalationFlags[strings.ToLower(strings.TrimSpace(flag))] {
			return true, EscalationMessage
		}
	}
	return false, ""
}

// CheckMissingCritical returns the critical fields that are not established,
// in fixed order. Antibiotic decisions need pregnancy status, penicillin
// allergy status and renal function; generation may still proceed, but the
// result carries a no-dosing advisory while any of these are missing.
func CheckMissingCritical(p patient.Context) []string {
	var missing []string
	if !p.Pregnant.Known() {
		missing = append(missing, "pregnancy status")
	}
	if !p.PenicillinAllergy.Known() {
		missing = append(missing, "penicillin allergy status")
	}
	if p.EGFR == nil {
		missing = append(missing, "eGFR / renal function")
	}
	return missing
}

// Result bundles both checks for one request.
type Result struct {
	Escalate          bool     `json:"escalate"`
	EscalationMessage string   `json:"escalation_message,omitempty"`
	MissingFields     []string `json:"missing_fields,omitempty"`
}

// Evaluate runs both checks. Computed fresh per request, never cached.
func Evaluate(p patient.Context) Result {
	escalate, msg := CheckEscalation(p)
	return Result{
		Escalate:          escalate,
		EscalationMessage: msg,
		MissingFields:     CheckMissingCritical(p),
	}
}
