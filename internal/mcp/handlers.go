package mcp

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/sitesearch/internal/index"
)

func (s *Server) handleSearchSite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	if n := s.search.MinQueryLength(); utf8.RuneCountInString(strings.TrimSpace(query)) < n {
		return mcp.NewToolResultError(fmt.Sprintf("query must be at least %d characters", n)), nil
	}

	limit := request.GetInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}

	view, err := s.search.HandleInput(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(view.Results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No pages match %q.", query)), nil
	}

	results := view.Results
	if len(results) > limit {
		results = results[:limit]
	}
	return mcp.NewToolResultText(formatResults(query, results, len(view.Results))), nil
}

// formatResults lists results as numbered plain-text entries.
func formatResults(query string, results []index.Result, total int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d page(s) for %q", total, query)
	if total > len(results) {
		fmt.Fprintf(&sb, ", showing %d", len(results))
	}
	sb.WriteString(":\n")

	for i, r := range results {
		d := r.Document
		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, d.DisplayTitle())
		fmt.Fprintf(&sb, "   URL: %s\n", d.URL)
		if r.Field != "" {
			fmt.Fprintf(&sb, "   Matched: %s\n", r.Field)
		}
		if d.Date != "" {
			fmt.Fprintf(&sb, "   Date: %s\n", d.Date)
		}
		snippet := d.Description
		if !r.Highlight.IsZero() {
			snippet = r.Highlight.Text()
		}
		if snippet = strings.TrimSpace(snippet); snippet != "" {
			fmt.Fprintf(&sb, "   %s\n", snippet)
		}
	}
	return sb.String()
}
