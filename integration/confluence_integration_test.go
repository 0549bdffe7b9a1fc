//go:build integration
// +build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kshehadeh/pyfluence/internal/confluence"
)

// TestContentLifecycle exercises the full round trip against a live server:
// space creation, content creation, the three update modes, labels, an
// attachment upload and upsert, and teardown.
func TestContentLifecycle(t *testing.T) {
	requireIntegration(t)

	client, host := setupClient(t)
	ctx := context.Background()

	spaceKey := testSpaceKey()
	space, err := client.CreateSpace(ctx, spaceKey, "Pyfluence Test Space", "Created by integration tests")
	if err != nil {
		t.Fatalf("CreateSpace: %v", err)
	}
	t.Logf("created space %s on %s", space.Key, host)

	defer func() {
		if err := client.DeleteSpace(ctx, spaceKey); err != nil {
			t.Errorf("DeleteSpace %s: %v", spaceKey, err)
		}
	}()

	created, err := client.CreateContent(ctx, confluence.CreateContentInput{
		SpaceKey:   spaceKey,
		Type:       "page",
		Title:      "Lifecycle Page",
		HTMLMarkup: "<p>first</p>",
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	t.Logf("created content %s", created.ID)

	appended, err := client.UpdateContent(ctx, created.ID, confluence.UpdateContentInput{
		HTMLMarkup: "<p>second</p>",
		UpdateType: confluence.UpdateAppend,
	})
	if err != nil {
		t.Fatalf("UpdateContent append: %v", err)
	}
	if appended.Version.Number != created.Version.Number+1 {
		t.Errorf("expected version bump to %d, got %d", created.Version.Number+1, appended.Version.Number)
	}

	fetched, err := client.GetContent(ctx, created.ID, []string{"body.view", "version"})
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if fetched == nil || fetched.Body == nil || fetched.Body.View == nil {
		t.Fatalf("expected a body after update, got %#v", fetched)
	}
	view := fetched.Body.View.Value
	if !strings.Contains(view, "first") || !strings.Contains(view, "second") {
		t.Errorf("append did not preserve existing markup: %q", view)
	}

	if _, err := client.UpdateContent(ctx, created.ID, confluence.UpdateContentInput{
		HTMLMarkup: "<p>replaced</p>",
		UpdateType: confluence.UpdateReplace,
	}); err != nil {
		t.Fatalf("UpdateContent replace: %v", err)
	}

	labels, err := client.AddLabels(ctx, created.ID, []string{"pyfluence-test", "lifecycle"})
	if err != nil {
		t.Fatalf("AddLabels: %v", err)
	}
	if len(labels) < 2 {
		t.Errorf("expected both labels applied, got %#v", labels)
	}
	if err := client.RemoveLabels(ctx, created.ID, []string{"lifecycle"}); err != nil {
		t.Fatalf("RemoveLabels: %v", err)
	}
	remaining, err := client.GetLabels(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetLabels: %v", err)
	}
	for _, label := range remaining {
		if label.Name == "lifecycle" {
			t.Errorf("label lifecycle should have been removed, got %#v", remaining)
		}
	}

	file := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(file, []byte("attachment body"), 0o644); err != nil {
		t.Fatalf("write attachment file: %v", err)
	}
	uploaded, err := client.AddContentAttachment(ctx, file, created.ID)
	if err != nil {
		t.Fatalf("AddContentAttachment: %v", err)
	}
	if len(uploaded) == 0 {
		t.Fatalf("expected the uploaded attachment to be returned")
	}

	// A second upload of the same filename must replace, not duplicate.
	if err := os.WriteFile(file, []byte("updated attachment body"), 0o644); err != nil {
		t.Fatalf("rewrite attachment file: %v", err)
	}
	if _, err := client.AddContentAttachment(ctx, file, created.ID); err != nil {
		t.Fatalf("AddContentAttachment upsert: %v", err)
	}
	attachments, err := client.GetAttachments(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetAttachments: %v", err)
	}
	count := 0
	for _, att := range attachments.Results {
		if att.Title == "note.txt" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one note.txt attachment after upsert, got %d", count)
	}

	if err := client.DeleteContent(ctx, created.ID); err != nil {
		t.Fatalf("DeleteContent: %v", err)
	}
	gone, err := client.GetContent(ctx, created.ID, nil)
	if err != nil {
		t.Fatalf("GetContent after delete: %v", err)
	}
	if gone != nil && gone.Status == "current" {
		t.Errorf("content %s still current after delete", created.ID)
	}
}

func TestSearchIntegration(t *testing.T) {
	requireIntegration(t)

	client, host := setupClient(t)

	page, err := client.Search(context.Background(), "type=page ORDER BY lastmodified DESC", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(page.Results) == 0 {
		t.Logf("no pages found on %s", host)
		return
	}
	t.Logf("found %d pages on %s", len(page.Results), host)
	for i, hit := range page.Results {
		t.Logf("  [%d] %s (ID: %s)", i+1, hit.Content.Title, hit.Content.ID)
	}
}

func TestGetSpacesIntegration(t *testing.T) {
	requireIntegration(t)

	client, host := setupClient(t)

	spaces, err := client.GetSpaces(context.Background())
	if err != nil {
		t.Fatalf("GetSpaces: %v", err)
	}
	if len(spaces.Results) == 0 {
		t.Logf("no spaces returned from %s", host)
		return
	}
	for i, space := range spaces.Results {
		t.Logf("  [%d] %s - %s", i+1, space.Key, space.Name)
	}
}
