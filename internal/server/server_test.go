package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clinrag/cds-explainer/internal/audit"
	"github.com/clinrag/cds-explainer/internal/corpus"
	"github.com/clinrag/cds-explainer/internal/db"
	"github.com/clinrag/cds-explainer/internal/explain"
	"github.com/clinrag/cds-explainer/internal/llm"
	"github.com/clinrag/cds-explainer/internal/vectordb"
)

type stubStore struct{}

func (stubStore) Add(ctx context.Context, chunks []corpus.Chunk) error { return nil }

func (stubStore) Search(ctx context.Context, query string, k int) ([]vectordb.Evidence, error) {
	return []vectordb.Evidence{
		{Chunk: corpus.Chunk{
			ChunkID: "1111222233334444",
			DocID:   "NG109",
			Section: "page_7",
			URL:     "https://www.nice.org.uk/guidance/ng109",
			Text:    "Consider nitrofurantoin first line for lower UTI.",
		}, Relevance: 0.9},
	}, nil
}

func (stubStore) Persist(ctx context.Context, dir string) error { return nil }
func (stubStore) Load(ctx context.Context, dir string) error    { return nil }
func (stubStore) Count() int                                    { return 1 }

type stubProvider struct{ content string }

func (p stubProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: p.content}, nil
}

func (stubProvider) Name() string { return "stub" }

const stubAnswer = `{
	"recommendation": "Consider nitrofurantoin first line.",
	"rationale": "Guideline first-line choice for uncomplicated lower UTI.",
	"safety_checks": ["confirm renal function"],
	"missing_info": [],
	"citations": [{"chunk_id": "1111222233334444", "doc_id": "NG109", "section": "page_7", "url": "https://www.nice.org.uk/guidance/ng109"}]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	auditStore := audit.NewStore(database)
	engine := explain.NewEngine(stubStore{}, stubProvider{content: stubAnswer}, "gpt-4o", 6, auditStore, nil)
	return New(Config{Port: 0}, engine, auditStore, nil)
}

const validBody = `{
	"question": "First-line antibiotic for uncomplicated lower UTI?",
	"patient": {
		"age": 25, "sex": "female",
		"pregnant": "no", "penicillin_allergy": "no",
		"egfr": 95, "symptoms": ["dysuria"]
	}
}`

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestExplainEndpoint(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/explain", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var out explain.Outcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding outcome: %v", err)
	}
	if out.Escalated || out.Unparseable || out.Answer == nil {
		t.Errorf("expected answered outcome, got %+v", out)
	}
	if len(out.Evidence) != 1 {
		t.Errorf("expected evidence in the response, got %d refs", len(out.Evidence))
	}
}

func TestExplainEndpointEscalates(t *testing.T) {
	srv := newTestServer(t)
	body := strings.Replace(validBody, `"symptoms": ["dysuria"]`,
		`"symptoms": ["dysuria"], "red_flags": ["fever"]`, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/explain", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var out explain.Outcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding outcome: %v", err)
	}
	if !out.Escalated || out.Answer != nil {
		t.Errorf("expected escalated outcome, got %+v", out)
	}
}

func TestExplainEndpointRejectsBadBody(t *testing.T) {
	srv := newTestServer(t)
	for name, body := range map[string]string{
		"empty":         ``,
		"not json":      `hello`,
		"unknown field": `{"question": "q", "patient": {"age": 25, "sex": "female"}, "extra": 1}`,
		"no question":   `{"question": "  ", "patient": {"age": 25, "sex": "female"}}`,
		"bad tri-state": strings.Replace(validBody, `"pregnant": "no"`, `"pregnant": "maybe"`, 1),
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/explain", strings.NewReader(body))
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestAuditTrailReflectsRequests(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/explain", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("explain status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/audit/recent", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("audit status = %d", rec.Code)
	}
	var body struct {
		Entries []audit.Entry `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding audit response: %v", err)
	}
	if len(body.Entries) != 1 || body.Entries[0].Stage != audit.StageAnswered {
		t.Errorf("unexpected audit entries: %+v", body.Entries)
	}
}
