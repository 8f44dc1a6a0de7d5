package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/clinrag/cds-explainer/internal/corpus"
	"github.com/clinrag/cds-explainer/internal/explain"
	"github.com/clinrag/cds-explainer/internal/llm"
	"github.com/clinrag/cds-explainer/internal/vectordb"
)

// mockStore implements vectordb.Store for testing.
type mockStore struct {
	chunks []corpus.Chunk
}

func (m *mockStore) Add(_ context.Context, chunks []corpus.Chunk) error {
	m.chunks = append(m.chunks, chunks...)
	return nil
}

func (m *mockStore) Search(_ context.Context, query string, k int) ([]vectordb.Evidence, error) {
	var results []vectordb.Evidence
	for _, ch := range m.chunks {
		results = append(results, vectordb.Evidence{Chunk: ch, Relevance: 0.95})
		if len(results) >= k {
			break
		}
	}
	return results, nil
}

func (m *mockStore) Persist(_ context.Context, _ string) error { return nil }
func (m *mockStore) Load(_ context.Context, _ string) error    { return nil }
func (m *mockStore) Count() int                                { return len(m.chunks) }

// mockProvider implements llm.Provider for testing.
type mockProvider struct{ content string }

func (m *mockProvider) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: m.content}, nil
}

func (m *mockProvider) Name() string { return "mock" }

const mockAnswer = `{
	"recommendation": "Consider nitrofurantoin first line.",
	"rationale": "Guideline first-line choice for uncomplicated lower UTI.",
	"safety_checks": ["confirm renal function"],
	"missing_info": [],
	"citations": [{"chunk_id": "abcd1234abcd1234", "doc_id": "NG109", "section": "page_3", "url": "https://www.nice.org.uk/guidance/ng109"}]
}`

func guidelineChunk() corpus.Chunk {
	return corpus.Chunk{
		ChunkID: "abcd1234abcd1234",
		DocID:   "NG109",
		Section: "page_3",
		URL:     "https://www.nice.org.uk/guidance/ng109",
		Text:    "Consider nitrofurantoin first line for lower UTI.",
	}
}

func newMockServer(store *mockStore) *Server {
	engine := explain.NewEngine(store, &mockProvider{content: mockAnswer}, "gpt-4o", 6, nil, nil)
	return NewServer(store, engine)
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"search_guideline", searchGuidelineTool, "search_guideline"},
		{"explain_case", explainCaseTool, "explain_case"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	store := &mockStore{}
	srv := newMockServer(store)

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.store != store {
		t.Error("store not set correctly")
	}
}

func TestHandleSearchGuideline(t *testing.T) {
	store := &mockStore{chunks: []corpus.Chunk{guidelineChunk()}}
	srv := newMockServer(store)
	ctx := context.Background()

	t.Run("basic search", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "first line antibiotic"}

		result, err := srv.handleSearchGuideline(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "abcd1234abcd1234") || !strings.Contains(text, "page_3") {
			t.Errorf("result missing provenance:\n%s", text)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchGuideline(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})

	t.Run("empty store", func(t *testing.T) {
		emptySrv := newMockServer(&mockStore{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "anything"}

		result, err := emptySrv.handleSearchGuideline(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if !strings.Contains(resultText(t, result), "No results") {
			t.Error("expected a no-results message")
		}
	})
}

func TestHandleExplainCase(t *testing.T) {
	store := &mockStore{chunks: []corpus.Chunk{guidelineChunk()}}
	srv := newMockServer(store)
	ctx := context.Background()

	patientJSON := `{"age": 25, "sex": "female", "pregnant": "no", "penicillin_allergy": "no", "egfr": 95, "symptoms": ["dysuria"]}`

	t.Run("answered case", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "First-line antibiotic for uncomplicated lower UTI?",
			"patient":  patientJSON,
		}

		result, err := srv.handleExplainCase(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}

		var out explain.Outcome
		if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
			t.Fatalf("decoding outcome: %v", err)
		}
		if out.Escalated || out.Answer == nil {
			t.Errorf("expected answered outcome, got %+v", out)
		}
	})

	t.Run("escalating case", func(t *testing.T) {
		withFlags := strings.Replace(patientJSON, `"symptoms": ["dysuria"]`,
			`"symptoms": ["dysuria"], "red_flags": ["rigors"]`, 1)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "First-line antibiotic?",
			"patient":  withFlags,
		}

		result, err := srv.handleExplainCase(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}

		var out explain.Outcome
		if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
			t.Fatalf("decoding outcome: %v", err)
		}
		if !out.Escalated {
			t.Error("expected escalated outcome")
		}
	})

	t.Run("invalid patient json", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "q",
			"patient":  "not json",
		}

		result, err := srv.handleExplainCase(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for invalid patient context")
		}
	})

	t.Run("missing question", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"patient": patientJSON}

		result, err := srv.handleExplainCase(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text
}
