package confluence

import (
	"context"
	"net/http"
)

// GetLabels lists the labels attached to the given content.
func (c *Client) GetLabels(ctx context.Context, id string) ([]Label, error) {
	if id == "" {
		return nil, &InvalidInputError{Reason: "content id required"}
	}

	page, err := paginate[Label](ctx, c, paginateSpec{
		path: "content/" + id + "/label",
	})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// AddLabels attaches the given labels to a content id. Labels are plain
// non-empty strings; the "global" prefix is applied on the wire.
func (c *Client) AddLabels(ctx context.Context, id string, labels []string) ([]Label, error) {
	if id == "" {
		return nil, &InvalidInputError{Reason: "content id required"}
	}
	if len(labels) == 0 {
		return nil, &InvalidInputError{Reason: "at least one label required"}
	}

	payload := make([]Label, 0, len(labels))
	for _, name := range labels {
		if name == "" {
			return nil, &InvalidInputError{Reason: "labels must be non-empty"}
		}
		payload = append(payload, Label{Prefix: "global", Name: name})
	}

	var response struct {
		Results []Label `json:"results"`
	}
	if err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "content/" + id + "/label",
		body:   payload,
	}, &response); err != nil {
		return nil, err
	}

	return response.Results, nil
}

// RemoveLabels detaches the given labels from a content id. Each label is
// removed with its own call; the first failure aborts the rest. Callers
// batching across multiple content ids handle partial failure themselves.
func (c *Client) RemoveLabels(ctx context.Context, id string, labels []string) error {
	if id == "" {
		return &InvalidInputError{Reason: "content id required"}
	}
	if len(labels) == 0 {
		return &InvalidInputError{Reason: "at least one label required"}
	}

	for _, name := range labels {
		if name == "" {
			return &InvalidInputError{Reason: "labels must be non-empty"}
		}
		err := c.do(ctx, requestSpec{
			method: http.MethodDelete,
			path:   "content/" + id + "/label",
			query:  map[string]string{"name": name},
		}, nil)
		if err != nil {
			return err
		}
	}

	return nil
}
