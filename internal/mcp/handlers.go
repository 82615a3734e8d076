package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/canvas/internal/export"
	"github.com/ziadkadry99/canvas/internal/snippets"
	"github.com/ziadkadry99/canvas/internal/theme"
)

// handleComposePreview returns the composed preview document. Any text is
// accepted; missing buffers are empty.
func (s *Server) handleComposePreview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := s.composer.Compose(
		request.GetString("markup", ""),
		request.GetString("style", ""),
	)
	return mcp.NewToolResultText(doc.HTML()), nil
}

// handleExportDocument returns the export artifact's body.
func (s *Server) handleExportDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc := export.New(request.GetString("title", s.title))
	a := svc.Export(
		request.GetString("markup", ""),
		request.GetString("style", ""),
	)
	return mcp.NewToolResultText(string(a.Body)), nil
}

// handleListSnippets lists snippet names, one per line.
func (s *Server) handleListSnippets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := s.snippets.Names()
	if len(names) == 0 {
		return mcp.NewToolResultText("No snippets available."), nil
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

// handleGetSnippet returns a snippet's two buffers.
func (s *Server) handleGetSnippet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: name"), nil
	}

	snip, err := s.snippets.Get(name)
	if err != nil {
		if errors.Is(err, snippets.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("No snippet named %q. Use list_snippets to see what is available.", name)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to load snippet: %v", err)), nil
	}

	return mcp.NewToolResultText(formatSnippet(snip)), nil
}

// handleThemeCSS returns the highlighting stylesheet for a mode.
func (s *Server) handleThemeCSS(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modeStr, err := request.RequireString("mode")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: mode"), nil
	}
	m, err := theme.ParseMode(modeStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	css, err := theme.CSS(m)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render css: %v", err)), nil
	}
	return mcp.NewToolResultText(css), nil
}

// formatSnippet renders a snippet as two fenced blocks for agents.
func formatSnippet(s snippets.Snippet) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Snippet: %s\n", s.Name))
	sb.WriteString("\n```html\n")
	sb.WriteString(s.Markup)
	sb.WriteString("\n```\n")
	sb.WriteString("\n```css\n")
	sb.WriteString(s.Style)
	sb.WriteString("\n```\n")
	return sb.String()
}
