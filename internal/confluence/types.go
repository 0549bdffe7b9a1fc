package confluence

import "encoding/json"

// Representation is the markup dialect of a content body.
type Representation string

const (
	// RepresentationStorage is Confluence's HTML-like storage format.
	RepresentationStorage Representation = "storage"
	// RepresentationWiki is the legacy wiki markup format.
	RepresentationWiki Representation = "wiki"
)

// UpdateType selects how new markup is combined with the existing body.
type UpdateType string

const (
	UpdateReplace UpdateType = "replace"
	UpdateAppend  UpdateType = "append"
	UpdatePrepend UpdateType = "prepend"
)

// BodyContent is a single rendition of a content body.
type BodyContent struct {
	Value          string         `json:"value"`
	Representation Representation `json:"representation"`
}

// Body groups the renditions of a content body that this client consumes.
type Body struct {
	View    *BodyContent `json:"view,omitempty"`
	Storage *BodyContent `json:"storage,omitempty"`
}

// Version carries the optimistic-concurrency token for content updates.
type Version struct {
	Number int `json:"number"`
}

// SpaceRef identifies a space by key inside a content object.
type SpaceRef struct {
	Key string `json:"key"`
}

// Ancestor is an entry in a content object's ancestor chain. Only the
// fields that may be echoed back on update are modeled; the server-added
// link and expansion metadata are deliberately dropped on decode.
type Ancestor struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// Content represents Confluence content (pages, blog posts, attachments).
type Content struct {
	ID        string     `json:"id,omitempty"`
	Type      string     `json:"type,omitempty"`
	Status    string     `json:"status,omitempty"`
	Title     string     `json:"title,omitempty"`
	Space     *SpaceRef  `json:"space,omitempty"`
	Body      *Body      `json:"body,omitempty"`
	Version   *Version   `json:"version,omitempty"`
	Ancestors []Ancestor `json:"ancestors,omitempty"`
}

// SpaceDescription is the plain-text description of a space.
type SpaceDescription struct {
	Plain BodyContent `json:"plain"`
}

// Space represents a Confluence space.
type Space struct {
	ID          json.Number       `json:"id,omitempty"`
	Key         string            `json:"key"`
	Name        string            `json:"name"`
	Description *SpaceDescription `json:"description,omitempty"`
}

// SearchResult is a single CQL search hit.
type SearchResult struct {
	Content Content `json:"content"`
	Title   string  `json:"title,omitempty"`
	Excerpt string  `json:"excerpt,omitempty"`
	URL     string  `json:"url,omitempty"`
}

// Label is a string tag attached to content.
type Label struct {
	ID     string `json:"id,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Name   string `json:"name"`
}

// ContentProperty is a hidden key/value pair stored on content. These are
// distinct from the visible page-properties macro table.
type ContentProperty struct {
	ID      string          `json:"id,omitempty"`
	Key     string          `json:"key"`
	Value   json.RawMessage `json:"value,omitempty"`
	Version *Version        `json:"version,omitempty"`
}

// User represents a Confluence user record.
type User struct {
	Type        string `json:"type,omitempty"`
	Username    string `json:"username,omitempty"`
	UserKey     string `json:"userKey,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// Page is the accumulated result of a paginated query.
type Page[T any] struct {
	Size    int `json:"size"`
	Results []T `json:"results"`
}
