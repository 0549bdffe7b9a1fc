package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"log/slog"

	"github.com/kshehadeh/pyfluence/internal/auth"
	"github.com/kshehadeh/pyfluence/internal/config"
)

// defaultAPIRoot is the REST API root used unless a request overrides it,
// e.g. with the legacy masterdetail sub-API.
const defaultAPIRoot = "rest/api/"

// defaultPollInterval is the fixed delay between long-running-operation polls.
const defaultPollInterval = time.Second

// Client is a stateless Confluence REST API client. It holds only the host,
// credentials and transport; every operation is a direct call-and-wait HTTP
// request, so a single Client is safe for concurrent use across different
// content ids. Writers racing on the same content id are only protected by
// the server-side version check.
type Client struct {
	host         string
	httpClient   *http.Client
	logger       *slog.Logger
	pollInterval time.Duration
}

// New constructs a Client for the given host (excluding the API path, e.g.
// https://confluence.example.com/wiki) and credentials.
func New(host string, creds config.Credentials, logger *slog.Logger) (*Client, error) {
	if host == "" {
		return nil, fmt.Errorf("confluence: host required")
	}

	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		host: strings.TrimRight(host, "/"),
		httpClient: &http.Client{
			Transport: auth.NewTransport(nil, creds),
		},
		logger:       logger,
		pollInterval: defaultPollInterval,
	}, nil
}

// Host returns the configured host URL.
func (c *Client) Host() string {
	return c.host
}

// SetTransport overrides the underlying HTTP transport. Useful for testing.
func (c *Client) SetTransport(rt http.RoundTripper) {
	if rt == nil {
		return
	}
	c.httpClient.Transport = rt
}

// SetPollInterval overrides the delay between long-running-operation polls.
func (c *Client) SetPollInterval(d time.Duration) {
	if d > 0 {
		c.pollInterval = d
	}
}

// fileUpload describes a multipart file part.
type fileUpload struct {
	field    string
	filename string
	reader   io.Reader
}

// requestSpec describes a single REST call. query is always sent as URL
// parameters; body is JSON-encoded unless a file is present, in which case
// the body is multipart with form as its fields.
type requestSpec struct {
	method  string
	path    string
	apiRoot string // defaultAPIRoot when empty
	query   map[string]string
	body    any
	file    *fileUpload
	form    map[string]string
	headers map[string]string
	expand  []string
	async   bool // skip the 202 poll loop
}

// do executes the request and decodes the response JSON into out when
// provided. All requests eventually come through here.
func (c *Client) do(ctx context.Context, spec requestSpec, out any) error {
	root := spec.apiRoot
	if root == "" {
		root = defaultAPIRoot
	}
	fullURL := joinURL(c.host, root, spec.path)

	query := url.Values{}
	for k, v := range spec.query {
		query.Set(k, v)
	}
	if len(spec.expand) > 0 {
		query.Set("expand", strings.Join(spec.expand, ","))
	}
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	var bodyReader io.Reader
	contentType := ""
	switch {
	case spec.file != nil:
		buf := new(bytes.Buffer)
		writer := multipart.NewWriter(buf)
		for k, v := range spec.form {
			if err := writer.WriteField(k, v); err != nil {
				return fmt.Errorf("confluence: encode form field: %w", err)
			}
		}
		part, err := writer.CreateFormFile(spec.file.field, spec.file.filename)
		if err != nil {
			return fmt.Errorf("confluence: create form file: %w", err)
		}
		if _, err := io.Copy(part, spec.file.reader); err != nil {
			return fmt.Errorf("confluence: copy file: %w", err)
		}
		if err := writer.Close(); err != nil {
			return fmt.Errorf("confluence: close multipart body: %w", err)
		}
		bodyReader = buf
		contentType = writer.FormDataContentType()
	case spec.body != nil:
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(spec.body); err != nil {
			return fmt.Errorf("confluence: encode body: %w", err)
		}
		bodyReader = buf
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, spec.method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("confluence: create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range spec.headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("confluence request",
		slog.String("method", spec.method),
		slog.String("url", fullURL))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("confluence: read response: %w", err)
	}

	if res.StatusCode >= 400 {
		return newResponseError(res.StatusCode, data)
	}

	if res.StatusCode == http.StatusNoContent {
		return nil
	}

	if res.StatusCode == http.StatusAccepted && !spec.async {
		data, err = c.pollUntilComplete(ctx, data)
		if err != nil {
			return err
		}
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("confluence: decode response: %w", err)
	}

	return nil
}

// asyncStatus is the envelope attached to 202 Accepted responses.
type asyncStatus struct {
	Links struct {
		Status string `json:"status"`
	} `json:"links"`
}

// pollUntilComplete repeatedly fetches the status URL carried by a 202
// response until the server stops answering 202, and returns the final
// body. There is no attempt cap; cancellation comes from ctx only.
func (c *Client) pollUntilComplete(ctx context.Context, body []byte) ([]byte, error) {
	for {
		var status asyncStatus
		if err := json.Unmarshal(body, &status); err != nil {
			return nil, fmt.Errorf("confluence: decode accepted response: %w", err)
		}
		if status.Links.Status == "" {
			return nil, fmt.Errorf("confluence: accepted response missing links.status")
		}

		statusURL := joinURL(c.host, "", status.Links.Status)
		c.logger.Debug("confluence poll", slog.String("url", statusURL))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
		if err != nil {
			return nil, fmt.Errorf("confluence: create poll request: %w", err)
		}

		res, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		body, err = io.ReadAll(res.Body)
		res.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("confluence: read poll response: %w", err)
		}

		if res.StatusCode >= 400 {
			return nil, newResponseError(res.StatusCode, body)
		}
		if res.StatusCode != http.StatusAccepted {
			return body, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// joinURL joins host, API root and path with exactly one slash at each join
// point regardless of leading or trailing slashes on the inputs. An empty
// apiRoot joins the path directly under the host.
func joinURL(host, apiRoot, path string) string {
	host = strings.TrimRight(host, "/")
	path = strings.TrimLeft(path, "/")
	root := strings.Trim(apiRoot, "/")

	if root == "" {
		return host + "/" + path
	}
	return host + "/" + root + "/" + path
}
