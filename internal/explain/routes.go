package explain

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinrag/cds-explainer/internal/patient"
)

// RegisterRoutes mounts the explain endpoint on the given router.
func (e *Engine) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/explain", e.handleExplain)
}

func (e *Engine) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req patient.Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := e.Explain(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeResult(w, http.StatusOK, out)
}

func writeResult(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeResult(w, status, map[string]string{"error": msg})
}
