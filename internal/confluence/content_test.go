package confluence

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestGetContent(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/rest/api/content/123" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("expand") != "space,body.view,version,container" {
			t.Fatalf("unexpected expand %q", r.URL.Query().Get("expand"))
		}
		return jsonResponse(t, http.StatusOK, map[string]any{
			"id":    "123",
			"type":  "page",
			"title": "A Page",
			"version": map[string]any{
				"number": 3,
			},
		}), nil
	})

	content, err := client.GetContent(context.Background(), "123", DefaultContentExpand)
	if err != nil {
		t.Fatalf("GetContent error: %v", err)
	}
	if content.ID != "123" || content.Title != "A Page" || content.Version.Number != 3 {
		t.Fatalf("unexpected content %#v", content)
	}
}

func TestGetContentNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return textResponse(http.StatusNotFound, "no such content"), nil
	})

	content, err := client.GetContent(context.Background(), "999", nil)
	if err != nil {
		t.Fatalf("expected 404 to map to nil result, got error %v", err)
	}
	if content != nil {
		t.Fatalf("expected nil content, got %#v", content)
	}
}

func TestGetContentOtherErrorsPropagate(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return textResponse(http.StatusForbidden, "denied"), nil
	})

	_, err := client.GetContent(context.Background(), "1", nil)
	var resErr *ResponseError
	if !errors.As(err, &resErr) || resErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 ResponseError, got %v", err)
	}
}

func TestSearchPassesCQLThrough(t *testing.T) {
	t.Parallel()

	rawCQL := `space = "ENG" and text ~ "magic & dragons"`
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if !strings.HasSuffix(r.URL.Path, "/search") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("cql"); got != rawCQL {
			t.Fatalf("CQL was modified: %q", got)
		}
		return jsonResponse(t, http.StatusOK, map[string]any{
			"results": []map[string]any{
				{"content": map[string]any{"id": "1", "title": "Hit"}},
			},
			"start":     0,
			"size":      1,
			"totalSize": 1,
		}), nil
	})

	page, err := client.Search(context.Background(), rawCQL, nil)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if page.Size != 1 || page.Results[0].Content.ID != "1" {
		t.Fatalf("unexpected results %#v", page)
	}
}

func TestSearchRequiresCQL(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		t.Fatalf("no request expected")
		return nil, nil
	})

	_, err := client.Search(context.Background(), "", nil)
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}

func TestCreateContent(t *testing.T) {
	t.Parallel()

	t.Run("html markup", func(t *testing.T) {
		client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
			if r.Method != http.MethodPost {
				t.Fatalf("expected POST, got %s", r.Method)
			}
			var body Content
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Space.Key != "ENG" || body.Type != "page" {
				t.Fatalf("unexpected payload %#v", body)
			}
			if body.Body.Storage.Representation != RepresentationStorage {
				t.Fatalf("expected storage representation, got %q", body.Body.Storage.Representation)
			}
			if body.Ancestors != nil {
				t.Fatalf("expected no ancestors without a parent, got %#v", body.Ancestors)
			}
			return jsonResponse(t, http.StatusOK, map[string]any{"id": "1", "title": body.Title}), nil
		})

		created, err := client.CreateContent(context.Background(), CreateContentInput{
			SpaceKey:   "ENG",
			Title:      "New Page",
			HTMLMarkup: "<h1>hello</h1>",
		})
		if err != nil {
			t.Fatalf("CreateContent error: %v", err)
		}
		if created.ID != "1" || created.Title != "New Page" {
			t.Fatalf("unexpected response %#v", created)
		}
	})

	t.Run("wiki markup with parent", func(t *testing.T) {
		client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
			var body Content
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Body.Storage.Representation != RepresentationWiki {
				t.Fatalf("expected wiki representation, got %q", body.Body.Storage.Representation)
			}
			if len(body.Ancestors) != 1 || body.Ancestors[0].ID != "42" {
				t.Fatalf("expected single ancestor 42, got %#v", body.Ancestors)
			}
			return jsonResponse(t, http.StatusOK, map[string]any{"id": "2"}), nil
		})

		_, err := client.CreateContent(context.Background(), CreateContentInput{
			SpaceKey:   "ENG",
			Title:      "Child Page",
			WikiMarkup: "h1. hello",
			ParentID:   "42",
		})
		if err != nil {
			t.Fatalf("CreateContent error: %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
			t.Fatalf("no request expected")
			return nil, nil
		})

		var invalid *InvalidInputError
		_, err := client.CreateContent(context.Background(), CreateContentInput{Title: "No Space"})
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidInputError for missing space, got %v", err)
		}
		_, err = client.CreateContent(context.Background(), CreateContentInput{SpaceKey: "ENG"})
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidInputError for missing title, got %v", err)
		}
	})
}

func TestDeleteContent(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodDelete || r.URL.Path != "/rest/api/content/123" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		return textResponse(http.StatusNoContent, ""), nil
	})

	if err := client.DeleteContent(context.Background(), "123"); err != nil {
		t.Fatalf("DeleteContent error: %v", err)
	}
}

func TestGetChildren(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Query().Get("expand") != "page" {
			t.Fatalf("unexpected expand %q", r.URL.Query().Get("expand"))
		}
		return jsonResponse(t, http.StatusOK, map[string]any{
			"page": map[string]any{
				"results": []map[string]any{{"id": "7", "title": "Child"}},
				"start":   0,
				"size":    1,
			},
		}), nil
	})

	page, err := client.GetChildren(context.Background(), "1")
	if err != nil {
		t.Fatalf("GetChildren error: %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].ID != "7" {
		t.Fatalf("unexpected children %#v", page.Results)
	}
}

func TestGetUserByKey(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/rest/api/user" || r.URL.Query().Get("key") != "abc123" {
			t.Fatalf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		return jsonResponse(t, http.StatusOK, map[string]any{
			"username":    "karim",
			"userKey":     "abc123",
			"displayName": "Karim",
		}), nil
	})

	user, err := client.GetUserByKey(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetUserByKey error: %v", err)
	}
	if user.Username != "karim" || user.UserKey != "abc123" {
		t.Fatalf("unexpected user %#v", user)
	}
}

func TestBuildPagePropertiesMacro(t *testing.T) {
	t.Parallel()

	markup := BuildPagePropertiesMacro([]PageProperty{
		{Key: "Status", Value: "Draft"},
		{Key: "Owner", Value: "karim"},
	})

	if !strings.HasPrefix(markup, `<ac:structured-macro ac:name="details">`) {
		t.Fatalf("unexpected macro prefix: %q", markup)
	}
	if strings.Count(markup, "<col />") != 2 {
		t.Fatalf("expected one col per property: %q", markup)
	}
	statusIdx := strings.Index(markup, "<tr><td>Status</td><td>Draft</td></tr>")
	ownerIdx := strings.Index(markup, "<tr><td>Owner</td><td>karim</td></tr>")
	if statusIdx == -1 || ownerIdx == -1 || statusIdx > ownerIdx {
		t.Fatalf("rows missing or out of order: %q", markup)
	}
}

func TestGetContentAncestors(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
			return jsonResponse(t, http.StatusOK, map[string]any{
				"id": "5",
				"ancestors": []map[string]any{
					{"id": "1", "title": "Root"},
					{"id": "3", "title": "Parent"},
				},
			}), nil
		})

		ancestors, err := client.GetContentAncestors(context.Background(), "5")
		if err != nil {
			t.Fatalf("GetContentAncestors error: %v", err)
		}
		if len(ancestors) != 2 || ancestors[1].ID != "3" {
			t.Fatalf("unexpected ancestors %#v", ancestors)
		}
	})

	t.Run("missing content", func(t *testing.T) {
		client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
			return textResponse(http.StatusNotFound, ""), nil
		})

		_, err := client.GetContentAncestors(context.Background(), "5")
		var notFound *ContentNotFoundError
		if !errors.As(err, &notFound) || notFound.ContentID != "5" {
			t.Fatalf("expected ContentNotFoundError, got %v", err)
		}
	})
}
