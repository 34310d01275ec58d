package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/toyamagu-2021/argocd-gateway/internal/errors"
	"github.com/toyamagu-2021/argocd-gateway/internal/logging"
	"github.com/toyamagu-2021/argocd-gateway/internal/metrics"
)

// Client represents an ArgoCD REST API client
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *logrus.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithLogger replaces the shared logger
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithHTTPClient replaces the HTTP client built from Config
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new ArgoCD API client. The credential in cfg is
// fixed for the lifetime of the client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error(), nil)
	}

	c := &Client{
		httpClient: cfg.NewHTTPClient(),
		baseURL:    cfg.BaseURL,
		token:      cfg.AuthToken,
		logger:     logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.Insecure {
		c.logger.WithField("server", c.baseURL).Warn("TLS certificate verification is disabled for ArgoCD API calls")
	}
	return c, nil
}

// Do performs one authenticated GET against baseURL+path and decodes the
// body as a JSON object. Failures are returned as *errors.AppError of type
// upstream_status, upstream_transport or upstream_unexpected.
func (c *Client) Do(ctx context.Context, path string) (map[string]interface{}, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewUpstreamUnexpectedError("failed to create request", err, map[string]interface{}{
			"url": url,
		})
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	c.logger.WithFields(logrus.Fields{
		"method": http.MethodGet,
		"url":    url,
	}).Debug("Making API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewUpstreamTransportError("failed to execute request", err, map[string]interface{}{
			"url": url,
		})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewUpstreamTransportError("failed to read response body", err, map[string]interface{}{
			"url":    url,
			"status": resp.StatusCode,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"url":    url,
		"status": resp.StatusCode,
		"body":   string(body),
	}).Debug("ArgoCD API response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewUpstreamStatusError("API request failed", resp.StatusCode, string(body))
	}

	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, errors.NewUpstreamUnexpectedError("failed to decode response body", err, map[string]interface{}{
			"url": url,
		})
	}

	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, errors.NewUpstreamUnexpectedError("response body is not a JSON object",
			fmt.Errorf("got %T", decoded), map[string]interface{}{"url": url})
	}
	return obj, nil
}

// Fetch is Do with failures logged and replaced by an empty object, so
// callers always receive a usable map. An unreachable upstream and an
// upstream with no data look the same to the caller.
func (c *Client) Fetch(ctx context.Context, path string) map[string]interface{} {
	start := time.Now()
	obj, err := c.Do(ctx, path)
	elapsed := time.Since(start).Seconds()

	if err == nil {
		metrics.RecordUpstream(path, metrics.OutcomeSuccess, elapsed)
		return obj
	}

	entry := c.logger.WithFields(logrus.Fields{
		"url":   c.baseURL + path,
		"error": err.Error(),
	})

	switch errors.GetErrorType(err) {
	case errors.ErrorTypeUpstreamStatus:
		details := errors.GetErrorDetails(err)
		entry.WithFields(logrus.Fields{
			"status": details["status"],
			"body":   details["body"],
		}).Error("HTTP status error")
		metrics.RecordUpstream(path, metrics.OutcomeStatus, elapsed)
	case errors.ErrorTypeUpstreamTransport:
		entry.Error("request error")
		metrics.RecordUpstream(path, metrics.OutcomeTransport, elapsed)
	default:
		entry.Error("unexpected error")
		metrics.RecordUpstream(path, metrics.OutcomeUnexpected, elapsed)
	}

	return map[string]interface{}{}
}

// Close releases idle upstream connections
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
