// Package mcp exposes the explainer over the Model Context Protocol so
// agent hosts can search the guideline index and run the guarded explain
// flow as tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/clinrag/cds-explainer/internal/explain"
	"github.com/clinrag/cds-explainer/internal/vectordb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes guideline search and the guarded
// explain flow.
type Server struct {
	store  vectordb.Store
	engine *explain.Engine
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(store vectordb.Store, engine *explain.Engine) *Server {
	s := &Server{
		store:  store,
		engine: engine,
	}

	s.mcp = server.NewMCPServer(
		"cdsx",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchGuidelineTool, s.handleSearchGuideline)
	s.mcp.AddTool(explainCaseTool, s.handleExplainCase)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
