package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/meshinv/internal/inventory"
	"github.com/muurk/meshinv/internal/logging"
	"github.com/muurk/meshinv/internal/version"
)

const (
	// DefaultBasePath is the CGI path the discovery service is mounted at
	DefaultBasePath = "/cgi-bin/wg-mesh-discovery"

	// DefaultTimeout is the default per-request HTTP timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 30 * time.Second

	// maxBodySize bounds how much of a list response is read
	maxBodySize = 16 << 20
)

// Client talks to the mesh discovery service over HTTP
type Client struct {
	// BaseURL is the service root (e.g., "http://10.0.0.1/cgi-bin/wg-mesh-discovery")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff enables exponential backoff for retries
	UseExponentialBackoff bool
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:               strings.TrimRight(baseURL, "/"),
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
	}
}

// SetTimeout sets the per-request HTTP timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// ListURL returns the endpoint List fetches
func (c *Client) ListURL() string {
	return c.BaseURL + "/list?format=json"
}

// ScanURL returns the endpoint Scan posts to
func (c *Client) ScanURL() string {
	return c.BaseURL + "/scan"
}

// List fetches the current device records.
// The response must be a JSON array and every record must carry an ip and a mac.
func (c *Client) List(ctx context.Context) ([]inventory.Record, error) {
	var records []inventory.Record
	err := c.withRetry(ctx, "list", func() error {
		var err error
		records, err = c.listAttempt(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Scan asks the service to run a new discovery pass. The response body is ignored.
func (c *Client) Scan(ctx context.Context) error {
	return c.withRetry(ctx, "scan", func() error {
		return c.scanAttempt(ctx)
	})
}

// withRetry runs attempt until it succeeds, fails with a non-retryable error,
// runs out of retries or ctx is done
func (c *Client) withRetry(ctx context.Context, op string, attempt func() error) error {
	var lastErr error
	currentDelay := c.RetryDelay

	for n := 0; n <= c.MaxRetries; n++ {
		if n > 0 {
			logging.Debug("Retrying discovery request",
				zap.String("op", op),
				zap.Int("attempt", n),
				zap.Duration("delay", currentDelay),
				zap.Error(lastErr),
			)

			timer := time.NewTimer(currentDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return lastErr
			case <-timer.C:
			}

			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		err := attempt()
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || !IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

func (c *Client) listAttempt(ctx context.Context) ([]inventory.Record, error) {
	endpoint := c.ListURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewUnavailableError("failed to create list request", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewUnavailableError("list request failed", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewHTTPError(resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, NewUnavailableError("failed to read response body", endpoint, err)
	}

	return decodeRecords(body, endpoint)
}

// decodeRecords parses a list response. A body that is not an array (including
// null) is malformed, as is any record without an ip or mac.
func decodeRecords(body []byte, endpoint string) ([]inventory.Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, NewMalformedError("response is not a JSON array", endpoint, nil)
	}

	var records []inventory.Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, NewMalformedError("failed to parse JSON response", endpoint, err)
	}

	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, NewMalformedError(fmt.Sprintf("invalid record at index %d", i), endpoint, err)
		}
	}

	if records == nil {
		records = []inventory.Record{}
	}
	return records, nil
}

func (c *Client) scanAttempt(ctx context.Context) error {
	endpoint := c.ScanURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return NewUnavailableError("failed to create scan request", endpoint, err)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewUnavailableError("scan request failed", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewHTTPError(resp.StatusCode, endpoint)
	}
	return nil
}
