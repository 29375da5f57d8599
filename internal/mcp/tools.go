package mcp

import "github.com/mark3labs/mcp-go/mcp"

// defaultLimit caps the results returned when the caller gives no limit.
const defaultLimit = 10

var searchSiteTool = mcp.NewTool("search_site",
	mcp.WithDescription("Search the site's pages by title, description and content. Returns matching pages with their URL and the matched text."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Words to look for. Each word also matches longer words starting with it."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
)
