package connection

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/authfront/internal/infra/buildinfo"
	"github.com/yndnr/authfront/internal/telemetry/logger"
	"github.com/yndnr/authfront/internal/telemetry/metric"
)

// APIPrefix is the path of the API root below the server URL.
const APIPrefix = "/api/v1/"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

// RequestIDHeader carries a per-request ULID.
const RequestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer token for outgoing requests.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// Response is a successful (2xx) API response with its body read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into target.
func (r *Response) Decode(target any) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// HTTPClient sends JSON requests to the API.
type HTTPClient struct {
	baseURL   string
	client    *http.Client
	tokens    TokenSource
	userAgent string
	metrics   *metric.Registry
	logger    logger.Logger
	limiter   *rate.Limiter
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithTLSConfig sets the TLS configuration used for https servers.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *HTTPClient) {
		if cfg == nil {
			return
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = cfg
		c.client.Transport = transport
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.client = hc
	}
}

// WithMetrics records every request in r.
func WithMetrics(r *metric.Registry) Option {
	return func(c *HTTPClient) {
		c.metrics = r
	}
}

// WithRateLimit spaces requests to at most perSecond per second, with
// bursts of one. Zero or less leaves requests unlimited.
func WithRateLimit(perSecond float64) Option {
	return func(c *HTTPClient) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = l
	}
}

// NewHTTPClient creates a client for the API served at server. A nil
// tokens sends every request unauthenticated.
func NewHTTPClient(server string, tokens TokenSource, opts ...Option) *HTTPClient {
	// Ensure baseURL has http:// prefix
	baseURL := strings.TrimSpace(server)
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	baseURL = strings.TrimRight(baseURL, "/") + APIPrefix

	if tokens == nil {
		tokens = TokenFunc(func() string { return "" })
	}

	c := &HTTPClient{
		baseURL:   baseURL,
		tokens:    tokens,
		userAgent: buildinfo.UserAgent(),
		logger:    logger.Default(),
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root, always ending in /api/v1/.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with JSON body.
func (c *HTTPClient) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Do sends a request to path, relative to the API root, with body
// encoded as JSON when non-nil.
//
// A non-2xx status returns *HTTPError; a failure to get any response
// returns *TransportError.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	path = strings.TrimLeft(strings.TrimRight(path, " \t\r\n"), "/")

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Method: method, URL: req.URL.String(), Err: err}
		}
	}

	requestID := ulid.Make().String()
	c.addHeaders(req, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.WithContext(logger.WithRequestID(ctx, requestID))
	log.Debug("api request", "method", method, "path", path)

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.record(method, path, "error", elapsed)
		log.Debug("api request failed", "method", method, "path", path, "error", err)
		return nil, &TransportError{Method: method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.record(method, path, "error", elapsed)
		return nil, &TransportError{Method: method, URL: req.URL.String(), Err: fmt.Errorf("read body: %w", err)}
	}

	c.record(method, path, strconv.Itoa(resp.StatusCode), elapsed)
	log.Debug("api response",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", elapsed,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(method, path, resp.StatusCode, data)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// addHeaders adds authentication and common headers.
func (c *HTTPClient) addHeaders(req *http.Request, requestID string) {
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
}

func (c *HTTPClient) record(method, path, status string, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordRequest(method, path, status)
	c.metrics.ObserveRequestDuration(method, path, elapsed.Seconds())
}
