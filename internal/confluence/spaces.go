package confluence

import (
	"context"
	"net/http"
)

// GetSpaces lists spaces visible to the configured account.
func (c *Client) GetSpaces(ctx context.Context) (*Page[Space], error) {
	return paginate[Space](ctx, c, paginateSpec{
		path:   "space",
		expand: []string{"description.plain"},
	})
}

// CreateSpace creates a new space. The key must be unique and at most 10
// characters; the server enforces both.
func (c *Client) CreateSpace(ctx context.Context, key, name, description string) (*Space, error) {
	if key == "" {
		return nil, &InvalidInputError{Reason: "space key required to add a space"}
	}
	if name == "" {
		return nil, &InvalidInputError{Reason: "space name required to add a space"}
	}

	payload := Space{
		Key:  key,
		Name: name,
		Description: &SpaceDescription{
			Plain: BodyContent{
				Value:          description,
				Representation: "plain",
			},
		},
	}

	var created Space
	if err := c.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   "space/",
		body:   payload,
	}, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// DeleteSpace deletes a space. The server answers 202 and completes the
// delete in the background; polling the status URL would eventually 404
// because the space itself disappears, making a successful delete look
// like a failure, so the poll loop is skipped here.
func (c *Client) DeleteSpace(ctx context.Context, key string) error {
	if key == "" {
		return &InvalidInputError{Reason: "space key required to delete a space"}
	}

	return c.do(ctx, requestSpec{
		method: http.MethodDelete,
		path:   "space/" + key,
		async:  true,
	}, nil)
}
