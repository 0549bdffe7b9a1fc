package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kshehadeh/pyfluence/internal/confluence"

	"github.com/spf13/cobra"
)

type contentFlags struct {
	contentID string
	space     string
	location  string
	format    string
	title     string
	typ       string
	parentID  string
	file      string
}

func (a *App) contentCommand() *cobra.Command {
	flags := &contentFlags{}

	cmd := &cobra.Command{
		Use:   "content",
		Short: "Add, update and delete content",
	}

	cmd.PersistentFlags().StringVar(&flags.contentID, "content_id", "", "A content ID")
	cmd.PersistentFlags().StringVar(&flags.space, "space", "", "A confluence space key (e.g. ENG)")
	cmd.PersistentFlags().StringVar(&flags.location, "content_location", "replace", "One of [prepend,append,replace]")
	cmd.PersistentFlags().StringVar(&flags.format, "content_format", "html", "One of [html,wiki]")
	cmd.PersistentFlags().StringVar(&flags.title, "content_title", "", "A content object title")
	cmd.PersistentFlags().StringVar(&flags.typ, "content_type", "page", "Can be one of [page,blogpost,..custom...]")
	cmd.PersistentFlags().StringVar(&flags.parentID, "content_parent_id", "", "The ID of the content object that a new object should be the child of")
	cmd.PersistentFlags().StringVar(&flags.file, "content_file", "", "The file holding the markup to add or update with")

	cmd.AddCommand(&cobra.Command{
		Use:   "add",
		Short: "Add content to an existing page or create a new one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runContentAdd(cmd, flags)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove",
		Short: "Delete content objects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runContentRemove(cmd, flags)
		},
	})

	return cmd
}

// contentBody reads the markup to use: the --content_file flag wins,
// otherwise whatever was piped on stdin.
func (a *App) contentBody(flags *contentFlags) (string, error) {
	if flags.file != "" {
		data, err := os.ReadFile(flags.file)
		if err != nil {
			return "", fmt.Errorf("file %s could not be read: %w", flags.file, err)
		}
		return string(data), nil
	}

	data, err := a.readStdin()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// resolveAddTargets works out which mode a `content add` runs in. With a
// --content_id flag, or with chained JSON results piped on stdin, it is an
// update of those ids; otherwise it is a create and any piped stdin is the
// markup itself.
func (a *App) resolveAddTargets(flags *contentFlags) ([]string, error) {
	if flags.contentID != "" {
		return []string{flags.contentID}, nil
	}
	if flags.file == "" {
		// stdin is reserved for the markup body
		return nil, nil
	}

	data, err := a.readStdin()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var chained chainedResults
	if err := json.Unmarshal(data, &chained); err != nil {
		return nil, fmt.Errorf("invalid JSON on stdin: %w", err)
	}

	ids := make([]string, 0, len(chained.Results))
	for _, result := range chained.Results {
		if result.Content.ID == "" {
			return nil, fmt.Errorf("stdin is valid JSON but does not appear to conform to Confluence REST API results")
		}
		ids = append(ids, result.Content.ID)
	}
	return ids, nil
}

func (a *App) runContentAdd(cmd *cobra.Command, flags *contentFlags) error {
	if err := a.connect(); err != nil {
		return err
	}

	switch flags.format {
	case "html", "wiki":
	default:
		return fmt.Errorf("content_format must be one of [html,wiki]")
	}

	ids, err := a.resolveAddTargets(flags)
	if err != nil {
		return err
	}

	body, err := a.contentBody(flags)
	if err != nil {
		return err
	}
	if body == "" {
		return fmt.Errorf("no content given: provide --content_file or pipe markup on stdin")
	}

	html, wiki := "", ""
	if flags.format == "html" {
		html = body
	} else {
		wiki = body
	}

	if len(ids) == 0 {
		if flags.title == "" {
			return fmt.Errorf("content_title is required when creating a new page")
		}
		if flags.space == "" {
			return fmt.Errorf("space is required when creating a new page")
		}

		created, err := a.client.CreateContent(cmd.Context(), confluence.CreateContentInput{
			SpaceKey:   flags.space,
			Type:       flags.typ,
			Title:      flags.title,
			HTMLMarkup: html,
			WikiMarkup: wiki,
			ParentID:   flags.parentID,
		})
		if err != nil {
			return err
		}

		return a.printJSON(confluence.Page[*confluence.Content]{
			Size:    1,
			Results: []*confluence.Content{created},
		})
	}

	updated := make([]*confluence.Content, 0, len(ids))
	failed := 0
	for _, id := range ids {
		result, err := a.client.UpdateContent(cmd.Context(), id, confluence.UpdateContentInput{
			HTMLMarkup: html,
			WikiMarkup: wiki,
			UpdateType: confluence.UpdateType(flags.location),
		})
		if err != nil {
			var resErr *confluence.ResponseError
			if !errors.As(err, &resErr) {
				return err
			}
			failed++
			fmt.Fprintf(a.stderr, "Unable to update content with ID %s - Confluence returned %d\n", id, resErr.StatusCode)
			continue
		}
		updated = append(updated, result)
	}

	if err := a.printJSON(confluence.Page[*confluence.Content]{
		Size:    len(updated),
		Results: updated,
	}); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d updates failed", failed, len(ids))
	}
	return nil
}

func (a *App) runContentRemove(cmd *cobra.Command, flags *contentFlags) error {
	if err := a.connect(); err != nil {
		return err
	}

	ids, err := a.contentIDs(flags.contentID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("you must either specify a content_id parameter or pipe search results in via stdin")
	}

	deleted, failed := 0, 0
	for _, id := range ids {
		if err := a.client.DeleteContent(cmd.Context(), id); err != nil {
			var resErr *confluence.ResponseError
			if !errors.As(err, &resErr) {
				return err
			}
			failed++
			fmt.Fprintf(a.stderr, "Unable to delete content with ID %s - Confluence returned %d\n", id, resErr.StatusCode)
			continue
		}
		deleted++
	}

	fmt.Fprintf(a.stderr, "Deleted pages: %d\nFailed deletes: %d\n", deleted, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d deletes failed", failed, len(ids))
	}
	return nil
}
