// Package client is a typed HTTP client for the TMan Origins API.
//
// The admin session is carried by the tman_session cookie, which the client keeps in its cookie
// jar after Login. Every response is unwrapped from the {"v","success","data"} envelope; failures
// come back as *APIError or *NetworkError and can be classified with KindOf.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 15 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL is the API origin, e.g. http://localhost:8080.
	BaseURL string
	Timeout time.Duration
	// Retries applies to GET requests only; mutations are never retried.
	Retries int
	Debug   bool
	Logger  *slog.Logger
}

// Client talks to the TMan Origins API.
type Client struct {
	http    *resty.Client
	baseURL string
	logger  *slog.Logger
}

// New creates a client for the API at opts.BaseURL.
func New(opts Options) (*Client, error) {
	baseURL, err := normalizeBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	// resty.New installs a cookie jar, which holds the session cookie between calls.
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetLogger(restyLogger{opts.Logger}).
		SetDebug(opts.Debug)

	httpClient.AddRetryCondition(retryCondition)

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		logger:  opts.Logger,
	}, nil
}

// BaseURL returns the API origin the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ImageURL returns the absolute URL of a stored image ref with a cache-busting version.
// The version is the creator's UpdatedAt, or its ID when UpdatedAt is unset.
func (c *Client) ImageURL(creator Creator, ref string) string {
	if ref == "" {
		return ""
	}
	version := creator.ID
	if !creator.UpdatedAt.IsZero() {
		version = strconv.FormatInt(creator.UpdatedAt.UnixMilli(), 10)
	}
	return c.baseURL + ref + "?v=" + url.QueryEscape(version)
}

// ThumbnailURL returns the cover image URL of a creator, or "" when it has no cover.
func (c *Client) ThumbnailURL(creator Creator) string {
	return c.ImageURL(creator, creator.Image)
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "", fmt.Errorf("base URL is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("base URL must be absolute, got: %s", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("base URL scheme must be http or https, got: %s", parsed.Scheme)
	}
	return raw, nil
}

// retryCondition retries idempotent reads on transport failures and 5xx responses.
func retryCondition(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
		return false
	}
	if err != nil {
		return true
	}
	code := r.StatusCode()
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

// call executes req and unwraps the response envelope into T.
func call[T any](ctx context.Context, c *Client, req *resty.Request, method, path string) (T, error) {
	var zero T
	var env envelope[T]

	resp, err := req.
		SetContext(ctx).
		SetResult(&env).
		SetError(&env).
		Execute(method, path)
	if err != nil {
		return zero, &NetworkError{Method: method, Path: path, Err: err}
	}

	if resp.IsError() || !env.Success {
		apiErr := newAPIError(resp.StatusCode(), env.errorBody())
		c.logger.Debug("API request failed",
			"method", method,
			"path", path,
			"status", apiErr.Status,
			"code", apiErr.Code,
		)
		return zero, apiErr
	}

	c.logger.Debug("API request completed", "method", method, "path", path, "status", resp.StatusCode())
	return env.Data, nil
}

// restyLogger routes resty's internal logging through slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "http-client")
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "http-client")
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "http-client")
}
