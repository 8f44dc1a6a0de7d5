package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/clinrag/cds-explainer/internal/patient"
	"github.com/clinrag/cds-explainer/internal/vectordb"
)

// handleSearchGuideline performs semantic search over the evidence index.
func (s *Server) handleSearchGuideline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", vectordb.DefaultTopK)
	if limit <= 0 {
		limit = vectordb.DefaultTopK
	}

	results, err := s.store.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. The guideline may not be indexed yet. Run `cdsx build` to index it."), nil
	}

	return mcp.NewToolResultText(formatSearchResults(results)), nil
}

// handleExplainCase runs the guarded explain flow and returns the outcome
// as JSON. Escalation and unparseable outcomes are results, not errors.
func (s *Server) handleExplainCase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}
	patientJSON, err := request.RequireString("patient")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: patient"), nil
	}

	var pc patient.Context
	dec := json.NewDecoder(strings.NewReader(patientJSON))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&pc); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid patient context: %v", err)), nil
	}

	out, err := s.engine.Explain(ctx, patient.Request{Question: question, Patient: pc})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("explain failed: %v", err)), nil
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding outcome: %v", err)), nil
	}
	return mcp.NewToolResultText(string(encoded)), nil
}

// formatSearchResults renders evidence chunks for an agent host: provenance
// header, relevance, then the chunk text.
func formatSearchResults(results []vectordb.Evidence) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d evidence chunks:\n\n", len(results))
	for i, ev := range results {
		fmt.Fprintf(&sb, "## %d. %s %s (chunk %s, relevance %.2f)\n",
			i+1, ev.Chunk.DocID, ev.Chunk.Section, ev.Chunk.ChunkID, ev.Relevance)
		if ev.Chunk.URL != "" {
			fmt.Fprintf(&sb, "Source: %s\n", ev.Chunk.URL)
		}
		sb.WriteString(ev.Chunk.Text)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String())
}
