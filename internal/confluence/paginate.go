package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// maxPaginatedResults is a safety ceiling against overly broad queries. When
// hit, a partial result is returned silently.
const maxPaginatedResults = 1000

// defaultPageLimit is the page size used when a paginateSpec leaves it zero.
const defaultPageLimit = 25

// paginateSpec describes a paginated GET endpoint. Some list endpoints nest
// their {results, start, size, totalSize} envelope under a named child key;
// childNode selects it.
type paginateSpec struct {
	path      string
	query     map[string]string
	limit     int
	start     int
	expand    []string
	childNode string
}

// pageEnvelope is the wire envelope returned by every list endpoint.
// totalSize is absent on some endpoints, in which case size doubles as the
// total.
type pageEnvelope[T any] struct {
	Results   []T  `json:"results"`
	Start     int  `json:"start"`
	Size      int  `json:"size"`
	TotalSize *int `json:"totalSize"`
}

// paginate fetches every page of a list endpoint, advancing start by limit
// until all items are collected or the safety ceiling is hit. Results stay
// in server order and are never deduplicated.
func paginate[T any](ctx context.Context, c *Client, spec paginateSpec) (*Page[T], error) {
	limit := spec.limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	start := spec.start

	query := make(map[string]string, len(spec.query)+2)
	for k, v := range spec.query {
		query[k] = v
	}

	var results []T
	total := 0
	truncated := false

	// the loop always performs at least one fetch
	for {
		query["limit"] = strconv.Itoa(limit)
		query["start"] = strconv.Itoa(start)

		var raw json.RawMessage
		err := c.do(ctx, requestSpec{
			method: http.MethodGet,
			path:   spec.path,
			query:  query,
			expand: spec.expand,
		}, &raw)
		if err != nil {
			return nil, err
		}

		env, err := decodeEnvelope[T](raw, spec.childNode)
		if err != nil {
			return nil, err
		}

		results = append(results, env.Results...)

		if len(results) >= maxPaginatedResults {
			truncated = true
			break
		}

		total = env.Size
		if env.TotalSize != nil {
			total = *env.TotalSize
		}

		if total-(env.Start+env.Size) <= 0 {
			break
		}
		start += limit
	}

	if !truncated && len(results) != total {
		return nil, fmt.Errorf("confluence: pagination returned %d results, server reported %d", len(results), total)
	}

	return &Page[T]{Size: len(results), Results: results}, nil
}

func decodeEnvelope[T any](raw json.RawMessage, childNode string) (*pageEnvelope[T], error) {
	if childNode != "" {
		var root map[string]json.RawMessage
		if err := json.Unmarshal(raw, &root); err != nil {
			return nil, fmt.Errorf("confluence: decode paginated response: %w", err)
		}
		child, ok := root[childNode]
		if !ok {
			return nil, fmt.Errorf("confluence: paginated response missing %q node", childNode)
		}
		raw = child
	}

	env := new(pageEnvelope[T])
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, fmt.Errorf("confluence: decode page envelope: %w", err)
	}
	return env, nil
}
