package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as discovery.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 5

	// LowRetryMax is used for operations that should retry fewer times.
	LowRetryMax = 3

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExtendedRetryWaitMax is used for operations that need longer waits.
	ExtendedRetryWaitMax = 30 * time.Second
)

// Concurrency and batching limits.
const (
	// DefaultConcurrencyLimit limits concurrent batch operations.
	DefaultConcurrencyLimit = 3

	// BufferSize is the default buffer size for channels.
	BufferSize = 100
)

// Token renewal.
const (
	// TokenExpirationSkew is subtracted from a token's expiry so renewal
	// happens before the token actually expires mid-request.
	TokenExpirationSkew = 60 * time.Second
)

// Task polling.
const (
	// DefaultTaskWaitTimeout is the default total wait for task completion.
	DefaultTaskWaitTimeout = 10 * time.Second

	// DefaultTaskPollInterval is the default interval between status checks.
	DefaultTaskPollInterval = 10 * time.Second

	// MinTaskWaitBound is the minimum accepted timeout and poll interval.
	MinTaskWaitBound = 1 * time.Second
)

// Pagination.
const (
	// DefaultNumResults is the number of results a paginated call returns
	// when the caller does not ask for a specific count.
	DefaultNumResults = 25

	// SearchResultsPerCall is the server page-size ceiling for endpoint search.
	SearchResultsPerCall = 100

	// SearchMaxTotalResults is the hard cap the search API enforces.
	SearchMaxTotalResults = 1000

	// TaskListResultsPerCall is the server page-size ceiling for task listings.
	TaskListResultsPerCall = 1000
)

// Cache defaults.
const (
	// DefaultCacheSize is the maximum number of entries in the memory cache.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is how long a cached response stays valid.
	DefaultCacheTTL = 5 * time.Minute
)

// Circuit breaker defaults.
const (
	// CircuitBreakerThreshold is the failure count that opens the circuit.
	CircuitBreakerThreshold = 5

	// CircuitBreakerTimeout is how long an open circuit stays open.
	CircuitBreakerTimeout = 30 * time.Second

	// CircuitBreakerSuccessThreshold closes a half-open circuit.
	CircuitBreakerSuccessThreshold = 2
)
