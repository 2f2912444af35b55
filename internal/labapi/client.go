// Package labapi looks up a lab test appointment by its access token.
package labapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/leslieo2/go-lab-status/internal/constants"
	"github.com/leslieo2/go-lab-status/internal/observability"
)

const (
	maxBodySize     = 1 << 20
	maxErrorSnippet = 256
)

// Client performs the appointment lookup. It makes exactly one request per
// Fetch and never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	schema     *Schema

	logger  *observability.Logger
	metrics *observability.Metrics
	tracer  *observability.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *observability.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithTracer(t *observability.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// NewClient returns a client for baseURL, a URL template containing {token}.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if !strings.Contains(baseURL, constants.TokenPlaceholder) {
		return nil, fmt.Errorf("base URL %q must contain %s", baseURL, constants.TokenPlaceholder)
	}

	schema, err := LoadSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to load response schema: %w", err)
	}

	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    baseURL,
		schema:     schema,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = observability.NewNopLogger()
	}
	if c.tracer == nil {
		c.tracer = observability.NewNopTracer()
	}

	return c, nil
}

// URL returns the lookup URL for token. The token is path-escaped.
func (c *Client) URL(token string) string {
	return strings.ReplaceAll(c.baseURL, constants.TokenPlaceholder, url.PathEscape(token))
}

type lookupRequest struct {
	DOB string `json:"dob"`
}

// Fetch posts the date of birth to the token's lookup URL and returns the
// decoded record. Any status other than 200 yields a *StatusError.
func (c *Client) Fetch(ctx context.Context, token, dob string) (*AppointmentRecord, error) {
	ctx, span := c.tracer.StartSpan(ctx, "labapi.fetch")
	defer span.End()

	record, err := c.fetch(ctx, token, dob)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return record, nil
}

func (c *Client) fetch(ctx context.Context, token, dob string) (*AppointmentRecord, error) {
	payload, err := json.Marshal(lookupRequest{DOB: dob})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	target := c.URL(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderUserAgent, constants.ServiceName+"/"+constants.Version)

	// The token is a credential; only the host is logged.
	c.logger.Debug("looking up appointment", zap.String("host", req.URL.Host))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.recordFetch(0, duration)
		return nil, fmt.Errorf("appointment lookup failed: %w", err)
	}
	defer resp.Body.Close()

	c.recordFetch(resp.StatusCode, duration)
	_, span := c.tracer.StartSpan(ctx, "labapi.decode", attribute.Int("http.status_code", resp.StatusCode))
	defer span.End()

	c.logger.Info("appointment lookup finished",
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorSnippet))
		return nil, &StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return c.decode(body)
}

func (c *Client) decode(body []byte) (*AppointmentRecord, error) {
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	if err := c.schema.ValidateRecord(raw); err != nil {
		return nil, err
	}

	record := &AppointmentRecord{}
	if err := json.Unmarshal(body, record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return record, nil
}

func (c *Client) recordFetch(statusCode int, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordFetch(statusCode, duration)
	}
}
