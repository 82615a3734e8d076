package mcp

import "github.com/mark3labs/mcp-go/mcp"

// composePreviewTool defines the compose_preview MCP tool.
var composePreviewTool = mcp.NewTool("compose_preview",
	mcp.WithDescription("Combine HTML markup and CSS into the exact standalone page the playground preview renders, including its reset rule."),
	mcp.WithString("markup",
		mcp.Description("HTML placed in the page body"),
	),
	mcp.WithString("style",
		mcp.Description("CSS placed after the reset rule"),
	),
)

// exportDocumentTool defines the export_document MCP tool.
var exportDocumentTool = mcp.NewTool("export_document",
	mcp.WithDescription("Serialize HTML markup and CSS into the downloadable index.html the playground exports."),
	mcp.WithString("markup",
		mcp.Description("HTML placed in the page body"),
	),
	mcp.WithString("style",
		mcp.Description("CSS inlined in the page head"),
	),
	mcp.WithString("title",
		mcp.Description("Document title (defaults to the configured export title)"),
	),
)

// listSnippetsTool defines the list_snippets MCP tool.
var listSnippetsTool = mcp.NewTool("list_snippets",
	mcp.WithDescription("List the starter snippets available in the playground."),
)

// getSnippetTool defines the get_snippet MCP tool.
var getSnippetTool = mcp.NewTool("get_snippet",
	mcp.WithDescription("Get the markup and style of a starter snippet."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Snippet name as returned by list_snippets"),
	),
)

// themeCSSTool defines the theme_css MCP tool.
var themeCSSTool = mcp.NewTool("theme_css",
	mcp.WithDescription("Get the class-based syntax highlighting stylesheet for a playground color scheme."),
	mcp.WithString("mode",
		mcp.Required(),
		mcp.Description("Theme mode"),
		mcp.Enum("light", "dark"),
	),
)
