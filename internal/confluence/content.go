package confluence

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// DefaultContentExpand is the expansion set used by callers that want the
// usual page fields back.
var DefaultContentExpand = []string{"space", "body.view", "version", "container"}

// GetContent fetches the content with the given id. A 404 is not an error:
// the result is (nil, nil) so callers can distinguish "absent" from a real
// failure.
func (c *Client) GetContent(ctx context.Context, id string, expand []string) (*Content, error) {
	if id == "" {
		return nil, &InvalidInputError{Reason: "content id required"}
	}

	var content Content
	err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "content/" + id,
		expand: expand,
	}, &content)
	if err != nil {
		var resErr *ResponseError
		if errors.As(err, &resErr) && resErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &content, nil
}

// GetContentInfo fetches basic information about the content without any
// expansions.
func (c *Client) GetContentInfo(ctx context.Context, id string) (*Content, error) {
	return c.GetContent(ctx, id, nil)
}

// GetContentAncestors returns the ancestor chain for the given content.
func (c *Client) GetContentAncestors(ctx context.Context, id string) ([]Ancestor, error) {
	content, err := c.GetContent(ctx, id, []string{"ancestors"})
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, &ContentNotFoundError{ContentID: id}
	}
	return content.Ancestors, nil
}

// Search executes a CQL query. The CQL string is passed through unmodified;
// the server is the authority on its syntax. Results are paginated to
// completion.
func (c *Client) Search(ctx context.Context, cql string, expand []string) (*Page[SearchResult], error) {
	if cql == "" {
		return nil, &InvalidInputError{Reason: "cql required"}
	}

	return paginate[SearchResult](ctx, c, paginateSpec{
		path:   "search",
		query:  map[string]string{"cql": cql},
		expand: expand,
	})
}

// CreateContentInput describes a content creation request. Exactly one of
// HTMLMarkup (storage representation) or WikiMarkup should be set.
type CreateContentInput struct {
	SpaceKey   string
	Type       string // defaults to "page"
	Title      string
	HTMLMarkup string
	WikiMarkup string
	ParentID   string
}

// CreateContent creates new content in a space.
func (c *Client) CreateContent(ctx context.Context, in CreateContentInput) (*Content, error) {
	if in.SpaceKey == "" {
		return nil, &InvalidInputError{Reason: "space key required to add content"}
	}
	if in.Title == "" {
		return nil, &InvalidInputError{Reason: "title required to add content"}
	}

	contentType := in.Type
	if contentType == "" {
		contentType = "page"
	}

	representation := RepresentationWiki
	value := in.WikiMarkup
	if in.HTMLMarkup != "" {
		representation = RepresentationStorage
		value = in.HTMLMarkup
	}

	payload := Content{
		Type:  contentType,
		Title: in.Title,
		Space: &SpaceRef{Key: in.SpaceKey},
		Body: &Body{
			Storage: &BodyContent{
				Value:          value,
				Representation: representation,
			},
		},
	}

	if in.ParentID != "" {
		payload.Ancestors = []Ancestor{{ID: in.ParentID}}
	}

	var created Content
	if err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "content/",
		body:   payload,
	}, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// DeleteContent deletes the content with the given id. Success is silent.
func (c *Client) DeleteContent(ctx context.Context, id string) error {
	if id == "" {
		return &InvalidInputError{Reason: "content id required"}
	}

	return c.do(ctx, requestSpec{
		method: http.MethodDelete,
		path:   "content/" + id,
	}, nil)
}

// GetChildren lists the direct child pages of the given content.
func (c *Client) GetChildren(ctx context.Context, id string) (*Page[Content], error) {
	if id == "" {
		return nil, &InvalidInputError{Reason: "content id required"}
	}

	return paginate[Content](ctx, c, paginateSpec{
		path:      "content/" + id + "/child",
		expand:    []string{"page"},
		childNode: "page",
	})
}

// GetUserByKey looks up a user by their user key.
func (c *Client) GetUserByKey(ctx context.Context, key string) (*User, error) {
	if key == "" {
		return nil, &InvalidInputError{Reason: "user key required"}
	}

	var user User
	if err := c.do(ctx, requestSpec{
		method: http.MethodGet,
		path:   "user",
		query:  map[string]string{"key": key},
	}, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// PageProperty is a key/value row in a page-properties macro table.
type PageProperty struct {
	Key   string
	Value string
}

// BuildPagePropertiesMacro produces the storage-format markup for a
// page-properties macro table from the given rows, in order. Pure; no I/O.
func BuildPagePropertiesMacro(props []PageProperty) string {
	var bld strings.Builder

	bld.WriteString("<ac:structured-macro ac:name=\"details\"><ac:rich-text-body>\n")
	bld.WriteString("<table class=\"wrapped\">\n")
	bld.WriteString("<colgroup>")
	for range props {
		bld.WriteString("<col />")
	}
	bld.WriteString("</colgroup>\n")
	bld.WriteString("<tbody>")
	for _, p := range props {
		bld.WriteString("\n<tr><td>")
		bld.WriteString(p.Key)
		bld.WriteString("</td><td>")
		bld.WriteString(p.Value)
		bld.WriteString("</td></tr>")
	}
	bld.WriteString("\n</tbody></table>\n")
	bld.WriteString("</ac:rich-text-body></ac:structured-macro>")

	return bld.String()
}
