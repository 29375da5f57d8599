package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/sitesearch/internal/widget"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Searcher runs one search input event. *widget.Widget implements it.
type Searcher interface {
	HandleInput(ctx context.Context, query string) (widget.View, error)
	MinQueryLength() int
}

// Server exposes the site search to MCP clients.
type Server struct {
	search Searcher
	mcp    *server.MCPServer
}

// NewServer creates an MCP server answering from search.
func NewServer(search Searcher) *Server {
	s := &Server{search: search}

	s.mcp = server.NewMCPServer(
		"sitesearch",
		Version,
		server.WithToolCapabilities(false),
	)
	s.mcp.AddTool(searchSiteTool, s.handleSearchSite)

	return s
}

// Serve starts the MCP server on stdio. Stdout carries protocol messages, so
// all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
