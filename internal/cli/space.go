package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type spaceFlags struct {
	key         string
	name        string
	description string
}

func (a *App) spaceCommand() *cobra.Command {
	flags := &spaceFlags{}

	cmd := &cobra.Command{
		Use:   "space",
		Short: "Create and delete spaces",
	}

	cmd.PersistentFlags().StringVar(&flags.key, "space", "", "The unique space key (10 characters or less)")

	add := &cobra.Command{
		Use:   "add",
		Short: "Create a new space",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.connect(); err != nil {
				return err
			}
			if flags.key == "" || flags.name == "" {
				return fmt.Errorf("you must provide a space key and name")
			}

			created, err := a.client.CreateSpace(cmd.Context(), flags.key, flags.name, flags.description)
			if err != nil {
				return err
			}
			return a.printJSON(created)
		},
	}
	add.Flags().StringVar(&flags.name, "name", "", "The friendly name of the space")
	add.Flags().StringVar(&flags.description, "description", "", "An optional plain-text description")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove",
		Short: "Delete a space",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.connect(); err != nil {
				return err
			}
			if flags.key == "" {
				return fmt.Errorf("you must provide a space key")
			}

			if err := a.client.DeleteSpace(cmd.Context(), flags.key); err != nil {
				return err
			}
			fmt.Fprintf(a.stderr, "Space %s deleted\n", flags.key)
			return nil
		},
	})

	return cmd
}
