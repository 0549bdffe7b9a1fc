package confluence

import (
	"encoding/json"
	"fmt"
)

// ResponseError is returned for any non-2xx response from the server. The
// raw body is kept; when it parses as JSON the decoded form is attached too.
type ResponseError struct {
	StatusCode int
	Body       string
	JSON       map[string]any
}

func (e *ResponseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if msg, ok := e.JSON["message"].(string); ok && msg != "" {
		return fmt.Sprintf("confluence: %d %s", e.StatusCode, msg)
	}
	if e.Body != "" {
		return fmt.Sprintf("confluence: %d %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("confluence: %d", e.StatusCode)
}

func newResponseError(statusCode int, body []byte) *ResponseError {
	errRes := &ResponseError{StatusCode: statusCode, Body: string(body)}
	if len(body) > 0 {
		var decoded map[string]any
		if err := json.Unmarshal(body, &decoded); err == nil {
			errRes.JSON = decoded
		}
	}
	return errRes
}

// ContentNotFoundError is returned when content required by an operation
// (such as the current page during an update) does not exist.
type ContentNotFoundError struct {
	ContentID string
}

func (e *ContentNotFoundError) Error() string {
	return fmt.Sprintf("confluence: content %s not found", e.ContentID)
}

// IncompatibleRepresentationError is returned when an update would combine
// markup of one representation with existing content of another.
type IncompatibleRepresentationError struct {
	ContentID string
	Expected  Representation
	Given     Representation
}

func (e *IncompatibleRepresentationError) Error() string {
	return fmt.Sprintf("confluence: content %s has representation %q, got %q", e.ContentID, e.Expected, e.Given)
}

// InvalidInputError is returned before any network call when the caller
// supplied insufficient parameters.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "confluence: invalid input: " + e.Reason
}
