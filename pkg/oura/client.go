package oura

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// DefaultBaseURL is the Oura v2 usercollection API root.
const DefaultBaseURL = "https://api.ouraring.com/v2/usercollection"

// ErrMissingToken is returned when no access token is configured.
var ErrMissingToken = errors.New("OURA_TOKEN environment variable is required")

// StatusError reports a non-success HTTP status for one resource.
type StatusError struct {
	Resource   string
	Status     string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %s", e.Resource, e.Status)
}

// Doer performs HTTP requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithHTTPClient sets the transport used for API requests (for example a caching client).
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.http = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRetries sets how many times a failed request is retried.
// Transport errors and 5xx responses are retried; other statuses are final.
func WithRetries(n uint) Option {
	return func(c *Client) {
		c.retries = n
	}
}

// Client talks to the Oura API with a static bearer token.
type Client struct {
	http    Doer
	logger  *slog.Logger
	baseURL string
	token   string
	retries uint
}

// New returns a Client. The token is required.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// collectionURL builds {base}/{resource}?start_date=..&end_date=..
func (c *Client) collectionURL(resource string, w Window) (string, error) {
	u, err := url.Parse(c.baseURL + "/" + resource)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("start_date", w.Start)
	q.Set("end_date", w.End)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// get performs an authenticated GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, resource string, w Window) ([]byte, error) {
	apiURL, err := c.collectionURL(resource, w)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	c.logger.Debug("making API request", "resource", resource, "url", apiURL)

	var body []byte
	var lastErr error
	err = retry.Do(
		func() error {
			resp, err := c.http.Do(req.Clone(ctx))
			if err != nil {
				c.logger.Warn("API request failed", "resource", resource, "error", err, "duration", time.Since(start))
				lastErr = err
				return err
			}
			data, readErr := io.ReadAll(resp.Body)
			if closeErr := resp.Body.Close(); closeErr != nil {
				c.logger.Debug("failed to close response body", "error", closeErr)
			}

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				statusErr := &StatusError{
					Resource:   resource,
					StatusCode: resp.StatusCode,
					Status:     statusText(resp),
				}
				c.logger.Warn("API request returned error status",
					"resource", resource,
					"status", resp.StatusCode,
					"body", string(data),
				)
				lastErr = statusErr
				if resp.StatusCode >= 500 {
					return statusErr
				}
				return retry.Unrecoverable(statusErr)
			}
			if readErr != nil {
				lastErr = fmt.Errorf("reading %s response: %w", resource, readErr)
				return lastErr
			}

			body = data
			c.logger.Debug("API request completed",
				"resource", resource,
				"status", resp.StatusCode,
				"bytes", len(data),
				"duration", time.Since(start),
			)
			return nil
		},
		retry.Attempts(c.retries+1),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Info("retrying API request", "resource", resource, "attempt", n+1, "error", err)
		}),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return nil, lastErr
	}
	return body, nil
}

// statusText mirrors the reason phrase of the response, falling back to the
// canonical text for the code.
func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}

// collection fetches one resource and decodes its data array.
// A missing or null data field yields an empty, non-nil slice.
func collection[T any](ctx context.Context, c *Client, resource string, w Window) ([]T, error) {
	body, err := c.get(ctx, resource, w)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", resource, err)
	}
	if envelope.Data == nil {
		return []T{}, nil
	}
	return envelope.Data, nil
}
