package mcp

import (
	"log/slog"

	"github.com/kshehadeh/pyfluence/internal/confluence"
	"github.com/kshehadeh/pyfluence/internal/state"

	"github.com/mark3labs/mcp-go/server"
)

// Dependencies bundles what the MCP server needs.
type Dependencies struct {
	Client  *confluence.Client
	Cache   *state.Cache
	BaseURL string
	Logger  *slog.Logger
}

// NewServer builds an MCP server with registered Confluence tools.
func NewServer(deps Dependencies) *server.MCPServer {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	if deps.Cache == nil {
		deps.Cache = state.NewCache()
	}

	srv := server.NewMCPServer(
		"Pyfluence",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("Tools for Confluence content operations."),
		server.WithRecovery(),
	)

	if deps.Client != nil {
		NewConfluenceTools(srv, deps.Client, deps.Cache, deps.BaseURL)
	}

	return srv
}
