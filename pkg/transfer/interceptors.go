package transfer

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gridway-io/transfer-client/internal/constants"
)

// Request is the interceptor view of an outbound API request. Header
// changes made by request interceptors are applied before the request is
// sent.
type Request struct {
	Method   string
	Path     string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response is the interceptor view of a completed request.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor runs before a request is sent. Returning an error
// aborts the request.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor runs after a response arrives, before error mapping.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain holds ordered request and response interceptors. Attach
// a chain through Config.Interceptors; the transport runs it around every
// API request.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates an empty chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// AddRequestInterceptor appends a request interceptor.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor appends a response interceptor.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// RunRequest executes the request interceptors in order. The first error
// stops the chain and fails the request.
func (c *InterceptorChain) RunRequest(ctx context.Context, req *Request) error {
	for _, interceptor := range c.requestInterceptors {
		if err := interceptor(ctx, req); err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// RunResponse executes the response interceptors in order.
func (c *InterceptorChain) RunResponse(ctx context.Context, req *Request, resp *Response) error {
	for _, interceptor := range c.responseInterceptors {
		if err := interceptor(ctx, req, resp); err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// LoggingInterceptor logs each outbound request at debug level.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(_ context.Context, req *Request) error {
		logger.Debug("transfer request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs each response, escalating transport
// failures to the error level.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(_ context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		}

		if resp.Error != nil {
			logger.Error("transfer request failed", fields)
		} else {
			logger.Debug("transfer response", fields)
		}

		return nil
	}
}

// HeaderInterceptor sets fixed headers on every request, e.g. a tenant or
// tracing header the deployment requires.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(_ context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}

// RateLimitInterceptor throttles outbound requests to at most
// requestsPerSecond, keeping bursts of task submissions or directory
// listings under the service's per-client quota. A throttled request
// blocks until a slot frees or its context is done. The bucket refills
// on demand, so an idle limiter costs nothing.
func RateLimitInterceptor(requestsPerSecond int) RequestInterceptor {
	interval := time.Second / time.Duration(requestsPerSecond)

	var mu sync.Mutex

	tokens := requestsPerSecond
	lastRefill := time.Now()

	return func(ctx context.Context, _ *Request) error {
		for {
			mu.Lock()

			elapsed := int(time.Since(lastRefill) / interval)
			if elapsed > 0 {
				tokens = min(tokens+elapsed, requestsPerSecond)
				lastRefill = lastRefill.Add(time.Duration(elapsed) * interval)
			}

			if tokens > 0 {
				tokens--
				mu.Unlock()

				return nil
			}

			wait := interval - time.Since(lastRefill)
			mu.Unlock()

			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()

				return ctx.Err()
			}
		}
	}
}

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

// CircuitBreakerConfig tunes the circuit breaker interceptor pair.
type CircuitBreakerConfig struct {
	// Threshold is the failure count that opens the circuit.
	Threshold int
	// Timeout is how long an open circuit sheds requests before probing.
	Timeout time.Duration
	// SuccessThreshold is the success count that closes a half-open
	// circuit.
	SuccessThreshold int
}

// CircuitBreaker sheds requests after repeated server failures so a
// struggling service is not hammered with task submissions it will only
// reject. Share one breaker between the request and response interceptors.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu          sync.Mutex
	state       circuitState
	failures    int
	successes   int
	lastFailure time.Time
}

// NewCircuitBreaker creates a breaker; a nil config uses the defaults.
func NewCircuitBreaker(config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = &CircuitBreakerConfig{
			Threshold:        constants.CircuitBreakerThreshold,
			Timeout:          constants.CircuitBreakerTimeout,
			SuccessThreshold: constants.CircuitBreakerSuccessThreshold,
		}
	}

	return &CircuitBreaker{config: *config}
}

// allow reports whether a request may proceed, moving an expired open
// circuit to half-open so a single probe can test the service.
func (b *CircuitBreaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == circuitOpen {
		if time.Since(b.lastFailure) <= b.config.Timeout {
			return false
		}

		b.state = circuitHalfOpen
		b.successes = 0
	}

	return true
}

// observe records one request outcome and updates the circuit state.
func (b *CircuitBreaker) observe(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if failed {
		b.failures++
		b.lastFailure = time.Now()

		if b.state == circuitHalfOpen || b.failures >= b.config.Threshold {
			b.state = circuitOpen
		}

		return
	}

	switch b.state {
	case circuitHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.state = circuitClosed
			b.failures = 0
		}
	case circuitClosed:
		b.failures = 0
	case circuitOpen:
	}
}

// CircuitBreakerRequestInterceptor rejects requests while the circuit is
// open.
func CircuitBreakerRequestInterceptor(breaker *CircuitBreaker) RequestInterceptor {
	return func(_ context.Context, _ *Request) error {
		if !breaker.allow() {
			return ErrCircuitBreakerOpen
		}

		return nil
	}
}

// CircuitBreakerResponseInterceptor feeds request outcomes back into the
// breaker. Transport errors and 5xx responses count as failures.
func CircuitBreakerResponseInterceptor(breaker *CircuitBreaker) ResponseInterceptor {
	return func(_ context.Context, _ *Request, resp *Response) error {
		breaker.observe(resp.Error != nil || resp.StatusCode >= http.StatusInternalServerError)

		return nil
	}
}
