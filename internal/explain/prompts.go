package explain

import (
	"fmt"
	"strings"

	"github.com/clinrag/cds-explainer/internal/patient"
	"github.com/clinrag/cds-explainer/internal/vectordb"
)

// systemPrompt is the safety contract sent on every generation call. The
// rules and the output schema are fixed; the model never sees anything but
// the patient context, the question and the evidence pack.
const systemPrompt = `You are a Clinical Decision Support (CDS) Explainer.
You MUST follow these rules:
- Only use the provided EVIDENCE snippets for medical claims.
- If evidence is insufficient or missing, say you cannot conclude and ask for missing info.
- Always include citations for any recommendation (cite chunk_id + doc_id + section).
- Do NOT provide medication dosing if missing eGFR or pregnancy status.
- If red flags exist, recommend escalation rather than outpatient antibiotic selection.

Return STRICT JSON with keys:
{
  "recommendation": string,
  "rationale": string,
  "safety_checks": [string],
  "missing_info": [string],
  "citations": [{"chunk_id": string, "doc_id": string, "section": string, "url": string}]
}
`

// evidencePack renders retrieved chunks in the bracketed provenance format
// the system prompt refers to. One block per chunk, blank-line separated.
func evidencePack(evs []vectordb.Evidence) string {
	parts := make([]string, 0, len(evs))
	for _, ev := range evs {
		parts = append(parts, fmt.Sprintf(
			"[chunk_id=%s doc_id=%s section=%s url=%s] %s",
			ev.Chunk.ChunkID, ev.Chunk.DocID, ev.Chunk.Section, ev.Chunk.URL,
			ev.Chunk.Text,
		))
	}
	return strings.Join(parts, "\n\n")
}

// userPrompt assembles the single user message for the generation call.
func userPrompt(req patient.Request, evs []vectordb.Evidence) string {
	return strings.TrimSpace(fmt.Sprintf(`
PATIENT_CONTEXT (structured):
%s

CLINICIAN_QUESTION:
%s

EVIDENCE:
%s

Now produce the JSON response.
`, req.Patient.Summary(), req.Question, evidencePack(evs)))
}

// retrievalQuery composes the search query from the question and the patient
// summary so that retrieval sees the clinical context, not just the free
// text.
func retrievalQuery(req patient.Request) string {
	return req.Question + "\n" + req.Patient.Summary()
}
