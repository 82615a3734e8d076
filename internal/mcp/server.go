package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/canvas/internal/export"
	"github.com/ziadkadry99/canvas/internal/preview"
	"github.com/ziadkadry99/canvas/internal/snippets"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes composition and export tools.
type Server struct {
	composer *preview.Composer
	title    string
	snippets *snippets.Library
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server. title is the default export title;
// a nil library serves the builtin snippets.
func NewServer(title string, lib *snippets.Library) *Server {
	if lib == nil {
		lib = snippets.Builtin()
	}
	if title == "" {
		title = export.DefaultTitle
	}
	s := &Server{
		composer: &preview.Composer{},
		title:    title,
		snippets: lib,
	}

	s.mcp = server.NewMCPServer(
		"canvas",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(composePreviewTool, s.handleComposePreview)
	s.mcp.AddTool(exportDocumentTool, s.handleExportDocument)
	s.mcp.AddTool(listSnippetsTool, s.handleListSnippets)
	s.mcp.AddTool(getSnippetTool, s.handleGetSnippet)
	s.mcp.AddTool(themeCSSTool, s.handleThemeCSS)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
