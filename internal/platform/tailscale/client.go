package tailscale

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.tailscale.com/api/v2"
	requestTimeout = 10 * time.Second
)

// AuthKey is a device auth key issued by the tailnet.
type AuthKey struct {
	ID      string    `json:"id"`
	Key     string    `json:"key"`
	Created time.Time `json:"created"`
	Expires time.Time `json:"expires"`
}

// KeyOptions controls the capabilities of an issued auth key.
type KeyOptions struct {
	ExpiryDays    int
	Reusable      bool
	Ephemeral     bool
	Preauthorized bool
	Tags          []string
	Description   string
}

// ProgressFunc reports bulk issuance progress. current is 1-based.
type ProgressFunc func(current, total int, message string)

// KeyIssuer issues and manages tailnet auth keys.
type KeyIssuer interface {
	CreateAuthKey(ctx context.Context, opts KeyOptions) (*AuthKey, error)
	CreateAuthKeys(ctx context.Context, count int, opts KeyOptions, progress ProgressFunc) ([]*AuthKey, error)
	ListKeys(ctx context.Context) ([]*AuthKey, error)
	DeleteKey(ctx context.Context, id string) error
	TestConnection(ctx context.Context) error
}

// Client talks to the Tailscale HTTP API for a single tailnet.
type Client struct {
	apiKey  string
	tailnet string
	baseURL string
	http    *http.Client
}

var _ KeyIssuer = (*Client)(nil)

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL. Used in tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// NewClient builds a key-issuance client for the given tailnet. The tailnet
// may be "-" to address the tailnet the API key belongs to.
func NewClient(apiKey, tailnet string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("tailscale API key is required")
	}
	if tailnet == "" {
		return nil, errors.New("tailnet name is required")
	}
	c := &Client{
		apiKey:  apiKey,
		tailnet: tailnet,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TestConnection verifies the API key and tailnet with a read-only key list.
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.ListKeys(ctx); err != nil {
		return fmt.Errorf("tailscale connection check failed: %w", err)
	}
	return nil
}

// apiError is a non-2xx response from the Tailscale API.
type apiError struct {
	StatusCode int
	Message    string
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tailscale API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("tailscale API error: status %d: %s", e.StatusCode, e.Message)
}

// IsAPIError reports whether err is an API-level rejection, as opposed to a
// transport failure or timeout.
func IsAPIError(err error) bool {
	var ae *apiError
	return errors.As(err, &ae)
}

// IsTimeout reports whether err was caused by a request timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if IsTimeout(err) {
			return fmt.Errorf("tailscale API request timed out: %w", err)
		}
		var ue *url.Error
		if errors.As(err, &ue) {
			return fmt.Errorf("tailscale API network error: %w", err)
		}
		return fmt.Errorf("tailscale API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apiError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(data))
}
