// Package upstream wraps the waste-management REST backend. All console
// traffic to the backend flows through one client that attaches the bearer
// token and maps failures to values; navigation stays with the handlers.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/wastewise/wastewise-console/internal/shared"
)

// StatusError reports a non-2xx upstream response that is not an
// authorization failure. The message is the upstream-provided one when the
// body carried it.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream: status %d", e.Status)
}

// FilePart is one file field of a multipart request.
type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

// MultipartForm carries the fields and files of a multipart request.
type MultipartForm struct {
	Fields map[string]string
	Files  []FilePart
}

// Client dispatches authenticated requests against the upstream base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	observe    func(outcome string)
}

// NewClient constructs a new client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetObserver installs a per-call outcome hook, used for metrics.
func (c *Client) SetObserver(observe func(outcome string)) {
	c.observe = observe
}

// Do sends a JSON request. A nil body sends no payload; a nil out discards
// the response body. A token, when present, is attached as a bearer
// credential.
func (c *Client) Do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("upstream: encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req, token)

	return c.dispatch(req, out)
}

// DoMultipart sends a multipart/form-data request. The Content-Type header
// is left to the multipart writer so the boundary is set implicitly.
func (c *Client) DoMultipart(ctx context.Context, method, path, token string, form MultipartForm, out any) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, value := range form.Fields {
		if err := writer.WriteField(field, value); err != nil {
			return fmt.Errorf("upstream: write field %s: %w", field, err)
		}
	}
	for _, file := range form.Files {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return fmt.Errorf("upstream: create file part %s: %w", file.Field, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return fmt.Errorf("upstream: copy file %s: %w", file.Field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req, token)

	return c.dispatch(req, out)
}

// GetRaw fetches a path and returns the raw JSON payload, for callers that
// normalize shape-divergent list responses themselves.
func (c *Client) GetRaw(ctx context.Context, path, token string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, path, token, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) authorize(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// dispatch executes the request and interprets the outcome uniformly:
// 401 is shared.ErrSessionInvalid, other non-2xx becomes a StatusError
// carrying the upstream message, 2xx decodes into out. Non-2xx responses
// are never swallowed.
func (c *Client) dispatch(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record("error")
		return fmt.Errorf("upstream: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("upstream: read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.record("unauthorized")
		return shared.ErrSessionInvalid
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record("rejected")
		return &StatusError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	c.record("ok")

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("upstream: decode response: %w", err)
	}
	return nil
}

func (c *Client) record(outcome string) {
	if c.observe != nil {
		c.observe(outcome)
	}
}

// errorMessage pulls the human-readable message out of an upstream error
// body, tolerating the two envelope spellings the backend uses.
func errorMessage(data []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}
