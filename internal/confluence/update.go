package confluence

import (
	"context"
	"net/http"
)

// UpdateContentInput describes how to change an existing page's body.
// Exactly one of HTMLMarkup (storage representation) or WikiMarkup should
// be set.
type UpdateContentInput struct {
	HTMLMarkup string
	WikiMarkup string
	UpdateType UpdateType // defaults to UpdateReplace
}

// UpdateContent updates a page by replacing the entire body or by
// prepending or appending to it. The current page state is fetched first;
// the resubmitted version number is the old one plus one, so a concurrent
// writer that got there first surfaces as a conflict ResponseError from the
// server.
func (c *Client) UpdateContent(ctx context.Context, id string, in UpdateContentInput) (*Content, error) {
	if id == "" {
		return nil, &InvalidInputError{Reason: "content id required"}
	}
	if in.HTMLMarkup == "" && in.WikiMarkup == "" {
		return nil, &InvalidInputError{Reason: "markup required to update content"}
	}

	updateType := in.UpdateType
	if updateType == "" {
		updateType = UpdateReplace
	}
	switch updateType {
	case UpdateReplace, UpdateAppend, UpdatePrepend:
	default:
		return nil, &InvalidInputError{Reason: "update type must be one of replace, append, prepend"}
	}

	page, err := c.GetContent(ctx, id, []string{"space", "body.view", "version", "container", "ancestors"})
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, &ContentNotFoundError{ContentID: id}
	}
	if page.Body == nil || page.Body.View == nil || page.Version == nil || page.Space == nil {
		return nil, &ResponseError{StatusCode: http.StatusOK, Body: "content response missing body, version or space"}
	}

	representation := page.Body.View.Representation
	body := page.Body.View.Value

	// Replace is exempt from the compatibility check: it overwrites
	// representation and body together.
	if representation == RepresentationStorage && in.HTMLMarkup == "" && updateType != UpdateReplace {
		return nil, &IncompatibleRepresentationError{
			ContentID: id,
			Expected:  RepresentationStorage,
			Given:     RepresentationWiki,
		}
	}
	if representation == RepresentationWiki && in.WikiMarkup == "" && updateType != UpdateReplace {
		return nil, &IncompatibleRepresentationError{
			ContentID: id,
			Expected:  RepresentationWiki,
			Given:     RepresentationStorage,
		}
	}

	newRepresentation := RepresentationWiki
	newValue := in.WikiMarkup
	if in.HTMLMarkup != "" {
		newRepresentation = RepresentationStorage
		newValue = in.HTMLMarkup
	}

	var finalValue string
	switch updateType {
	case UpdateReplace:
		finalValue = newValue
	case UpdateAppend:
		finalValue = body + newValue
	case UpdatePrepend:
		finalValue = newValue + body
	}

	payload := Content{
		ID:    id,
		Type:  page.Type,
		Title: page.Title,
		Space: &SpaceRef{Key: page.Space.Key},
		Body: &Body{
			Storage: &BodyContent{
				Value:          finalValue,
				Representation: newRepresentation,
			},
		},
		Version: &Version{Number: page.Version.Number + 1},
	}

	// The server rejects ancestors echoed back with their link/expansion
	// metadata; resubmit only the last ancestor's id.
	if len(page.Ancestors) > 0 {
		last := page.Ancestors[len(page.Ancestors)-1]
		payload.Ancestors = []Ancestor{{ID: last.ID}}
	}

	var updated Content
	if err := c.do(ctx, requestSpec{
		method: http.MethodPut,
		path:   "content/" + id,
		body:   payload,
	}, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}
