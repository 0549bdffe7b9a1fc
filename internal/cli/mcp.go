package cli

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/kshehadeh/pyfluence/internal/mcp"
	"github.com/kshehadeh/pyfluence/internal/state"

	"github.com/mark3labs/mcp-go/server"
)

func (a *App) mcpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve Confluence operations as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.connect(); err != nil {
				return err
			}

			srv := mcpserver.NewServer(mcpserver.Dependencies{
				Client:  a.client,
				Cache:   state.NewCache(),
				BaseURL: a.client.Host(),
				Logger:  a.logger,
			})

			return server.ServeStdio(srv)
		},
	}
}
