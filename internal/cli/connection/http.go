package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/devops-demo-go/internal/infra/buildinfo"
)

// DefaultTimeout bounds a whole request, including reading the body.
const DefaultTimeout = 10 * time.Second

// HTTPClient provides HTTP communication with the server.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a new HTTP client. A zero timeout uses DefaultTimeout.
func NewHTTPClient(server string, timeout time.Duration) *HTTPClient {
	baseURL := strings.TrimRight(server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "demo-cli/"+buildinfo.Version)
	return c.client.Do(req)
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// StatusError is returned for responses with a 4xx or 5xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// ParseResponse parses a JSON response body into target and closes it.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}

	return nil
}

// ReadText returns the response body as text and closes it.
func ReadText(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(data), nil
}

func statusError(resp *http.Response) error {
	var errResp struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&errResp)
	return &StatusError{StatusCode: resp.StatusCode, Message: errResp.Error}
}
