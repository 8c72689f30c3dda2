// Package http implements the HTTP transport for the Gridway Transfer
// API: retrying requests, attaching authorization, running interceptors,
// and mapping error responses onto typed errors.
package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/gridway-io/transfer-client/internal/constants"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// Request is an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is an API response with its body fully read.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is the transport all resource clients share.
type Client struct {
	baseURL      string
	authorizer   transfer.Authorizer
	httpClient   *http.Client
	retryClient  *retryablehttp.Client
	logger       transfer.Logger
	debug        bool
	userAgent    string
	cache        transfer.Cache
	interceptors *transfer.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger transfer.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPTimeout caps the total time for one request attempt.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.retryClient.HTTPClient.Timeout = timeout
	}
}

// WithRetryConfig tunes the retry behavior for transient failures.
func WithRetryConfig(maxRetries int, retryWait, retryWaitMax time.Duration) Option {
	return func(c *Client) {
		c.retryClient.RetryMax = maxRetries
		c.retryClient.RetryWaitMin = retryWait
		c.retryClient.RetryWaitMax = retryWaitMax
	}
}

// WithCache attaches a cache for GET responses.
func WithCache(cache transfer.Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithInterceptors attaches an interceptor chain.
func WithInterceptors(chain *transfer.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithSkipTLSVerify disables certificate verification. Development only.
func WithSkipTLSVerify(skip bool) Option {
	return func(c *Client) {
		if !skip {
			return
		}

		transport := c.retryClient.HTTPClient.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}

		if base, ok := transport.(*http.Transport); ok {
			cloned := base.Clone()
			cloned.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for development
			c.retryClient.HTTPClient.Transport = cloned
		}
	}
}

// NewClient creates a transport rooted at baseURL. authorizer may be nil
// for unauthenticated endpoints.
func NewClient(baseURL string, authorizer transfer.Authorizer, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	client := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		authorizer:  authorizer,
		retryClient: retryClient,
		userAgent:   "gridway-transfer-client/1.0",
	}

	for _, opt := range opts {
		opt(client)
	}

	client.httpClient = retryClient.StandardClient()

	return client
}

// Do executes a request. Error responses (4xx/5xx) are returned as a
// *transfer.APIError alongside the response. A 401 triggers the
// authorizer's recovery hook and at most one retry with fresh
// authorization.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	var cacheKey string

	if c.cache != nil && req.Method == http.MethodGet {
		cacheKey = transfer.GenerateCacheKey(req.Path, req.Query)

		entry, err := c.cache.Get(ctx, cacheKey)
		if err == nil {
			return &Response{StatusCode: http.StatusOK, Body: entry.Data}, nil
		}
	}

	if c.interceptors != nil {
		intercepted := &transfer.Request{
			Method:  req.Method,
			Path:    req.Path,
			Headers: make(http.Header),
		}
		for key, value := range req.Headers {
			intercepted.Headers.Set(key, value)
		}

		err := c.interceptors.RunRequest(ctx, intercepted)
		if err != nil {
			return nil, err
		}

		if req.Headers == nil && len(intercepted.Headers) > 0 {
			req.Headers = make(map[string]string)
		}

		for key := range intercepted.Headers {
			req.Headers[key] = intercepted.Headers.Get(key)
		}
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	// One authorization retry: the authorizer decides whether a fresh
	// token is worth attempting.
	if resp.StatusCode == http.StatusUnauthorized && c.authorizer != nil &&
		c.authorizer.HandleMissingAuthorization(ctx) {
		resp, err = c.send(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	if c.interceptors != nil {
		intercepted := &transfer.Request{Method: req.Method, Path: req.Path}
		observed := &transfer.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
		}

		err = c.interceptors.RunResponse(ctx, intercepted, observed)
		if err != nil {
			return nil, err
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp, transfer.ParseAPIError(resp.StatusCode, resp.Body)
	}

	if cacheKey != "" && resp.StatusCode == http.StatusOK {
		_ = c.cache.Set(ctx, cacheKey, &transfer.CacheEntry{
			Data:      resp.Body,
			ExpiresAt: time.Now().Add(constants.DefaultCacheTTL),
			ETag:      resp.Headers.Get("ETag"),
		})
	}

	return resp, nil
}

// send performs one round trip, attaching fresh authorization.
func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}

		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.authorizer != nil {
		header, err := c.authorizer.AuthorizationHeader(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get authorization: %w", err)
		}

		httpReq.Header.Set("Authorization", header)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": httpResp.StatusCode,
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}
