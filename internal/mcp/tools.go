package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchGuidelineTool defines the search_guideline MCP tool.
var searchGuidelineTool = mcp.NewTool("search_guideline",
	mcp.WithDescription("Search the indexed clinical guideline semantically. Returns evidence chunks with provenance (chunk_id, doc_id, section, url)."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of evidence chunks to return (default 6)"),
	),
)

// explainCaseTool defines the explain_case MCP tool.
var explainCaseTool = mcp.NewTool("explain_case",
	mcp.WithDescription("Run the full guarded clinical-decision-support flow for one case: red-flag escalation check, evidence retrieval, grounded generation and citation verification. Returns the structured outcome as JSON."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The clinician's question"),
	),
	mcp.WithString("patient",
		mcp.Required(),
		mcp.Description(`Structured patient context as a JSON object, e.g. {"age": 25, "sex": "female", "pregnant": "no", "penicillin_allergy": "no", "egfr": 95, "symptoms": ["dysuria"], "red_flags": []}`),
	),
)
