package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) searchCommand() *cobra.Command {
	var cql string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search for content and return results as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.connect(); err != nil {
				return err
			}
			if cql == "" {
				return fmt.Errorf("cql is required")
			}

			results, err := a.client.Search(cmd.Context(), cql, nil)
			if err != nil {
				return err
			}
			return a.printJSON(results)
		},
	}

	cmd.Flags().StringVar(&cql, "cql", "", "The CQL to use to search")

	return cmd
}
