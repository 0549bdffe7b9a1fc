package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kshehadeh/pyfluence/internal/confluence"

	"github.com/spf13/cobra"
)

type labelFlags struct {
	contentID string
	labels    string
}

func (a *App) labelCommand() *cobra.Command {
	flags := &labelFlags{}

	cmd := &cobra.Command{
		Use:   "label",
		Short: "Apply or remove labels from content objects",
	}

	cmd.PersistentFlags().StringVar(&flags.contentID, "content_id", "", "A content ID")
	cmd.PersistentFlags().StringVar(&flags.labels, "labels", "", "A comma separated list of labels to add/remove")

	cmd.AddCommand(&cobra.Command{
		Use:   "add",
		Short: "Add labels to one or more content objects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runLabels(cmd, flags, "add")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove",
		Short: "Remove labels from one or more content objects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runLabels(cmd, flags, "remove")
		},
	})

	return cmd
}

func splitLabels(raw string) []string {
	var labels []string
	for _, label := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			labels = append(labels, trimmed)
		}
	}
	return labels
}

func (a *App) runLabels(cmd *cobra.Command, flags *labelFlags, action string) error {
	if err := a.connect(); err != nil {
		return err
	}

	ids, err := a.contentIDs(flags.contentID)
	if err != nil {
		return err
	}
	labels := splitLabels(flags.labels)

	if len(ids) == 0 || len(labels) == 0 {
		return fmt.Errorf("you must provide a content ID and at least one label")
	}

	fmt.Fprintf(a.stderr, "Content IDs: %s\nLabels: %s\n", strings.Join(ids, ","), strings.Join(labels, ","))

	affected, failed := 0, 0
	for _, id := range ids {
		var opErr error
		if action == "add" {
			_, opErr = a.client.AddLabels(cmd.Context(), id, labels)
		} else {
			opErr = a.client.RemoveLabels(cmd.Context(), id, labels)
		}

		if opErr != nil {
			var resErr *confluence.ResponseError
			if !errors.As(opErr, &resErr) {
				return opErr
			}
			failed++
			fmt.Fprintf(a.stderr, "Unable to %s labels on content with ID %s - Confluence returned %d\n", action, id, resErr.StatusCode)
			continue
		}
		affected++
	}

	fmt.Fprintf(a.stderr, "Number of updated pages: %d\n", affected)

	if failed > 0 {
		return fmt.Errorf("%d of %d label updates failed", failed, len(ids))
	}
	return nil
}
