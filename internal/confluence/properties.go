package confluence

import (
	"context"
	"net/http"
	"strings"
)

// masterdetailAPIRoot is the legacy sub-API serving page-properties report
// lines.
const masterdetailAPIRoot = "rest/masterdetail/"

// GetContentProperties lists the hidden key/value properties stored on the
// given content. These are distinct from the visible page-properties macro
// table.
func (c *Client) GetContentProperties(ctx context.Context, id string) ([]ContentProperty, error) {
	if id == "" {
		return nil, &InvalidInputError{Reason: "content id required"}
	}

	page, err := paginate[ContentProperty](ctx, c, paginateSpec{
		path: "content/" + id + "/property",
	})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// SetContentProperty stores a hidden property on the given content and
// returns the property id assigned by the server.
func (c *Client) SetContentProperty(ctx context.Context, id, key string, value any) (string, error) {
	if id == "" {
		return "", &InvalidInputError{Reason: "content id required"}
	}
	if key == "" {
		return "", &InvalidInputError{Reason: "property key required"}
	}

	payload := map[string]any{
		"key":   key,
		"value": value,
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "content/" + id + "/property",
		body:   payload,
	}, &created); err != nil {
		return "", err
	}

	return created.ID, nil
}

// GetPageProperties reads the key/value pairs that appear in a page's
// visible page-properties macro table, via the masterdetail report API.
// Returns nil when the page has no matching property row.
func (c *Client) GetPageProperties(ctx context.Context, id, spaceKey string, headers []string) (map[string]string, error) {
	if id == "" {
		return nil, &InvalidInputError{Reason: "content id required"}
	}
	if spaceKey == "" {
		return nil, &InvalidInputError{Reason: "space key required"}
	}
	if len(headers) == 0 {
		return nil, &InvalidInputError{Reason: "at least one property header required"}
	}

	var response struct {
		DetailLines []struct {
			Details []string `json:"details"`
		} `json:"detailLines"`
	}
	err := c.do(ctx, requestSpec{
		method:  http.MethodGet,
		path:    "1.0/detailssummary/lines",
		apiRoot: masterdetailAPIRoot,
		query: map[string]string{
			"cql":      "id=" + id,
			"spaceKey": spaceKey,
			"headers":  strings.Join(headers, ","),
		},
	}, &response)
	if err != nil {
		return nil, err
	}

	if len(response.DetailLines) == 0 || len(response.DetailLines[0].Details) != len(headers) {
		return nil, nil
	}

	props := make(map[string]string, len(headers))
	for i, h := range headers {
		props[h] = response.DetailLines[0].Details[i]
	}
	return props, nil
}
