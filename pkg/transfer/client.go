package transfer

import (
	"context"
	"time"
)

// Authorizer supplies credentials for outbound requests. Implementations
// may be static or may renew an expiring token transparently.
type Authorizer interface {
	// AuthorizationHeader returns the value to place in the Authorization
	// header. It never returns a stale credential: renewing variants fetch
	// a fresh token instead, and surface the fetch error if that fails.
	AuthorizationHeader(ctx context.Context) (string, error)

	// HandleMissingAuthorization attempts recovery after the service
	// rejected a request as unauthenticated. It reports whether a retry is
	// worthwhile. Callers retry at most once per request.
	HandleMissingAuthorization(ctx context.Context) bool
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// EndpointsClient provides access to endpoint management operations.
type EndpointsClient interface {
	Get(ctx context.Context, endpointID string) (*Endpoint, error)
	Create(ctx context.Context, endpoint *Endpoint) (*OperationResult, error)
	Update(ctx context.Context, endpointID string, endpoint *Endpoint) (*OperationResult, error)
	Delete(ctx context.Context, endpointID string) (*OperationResult, error)

	// Search returns a lazy paginated view over matching endpoints. The
	// service caps any single search at 1000 total results; asking for more
	// fails with ErrPaginationOverrun before a request is issued.
	Search(ctx context.Context, params *QueryParams, numResults int) (*PaginatedResource[Endpoint], error)

	Autoactivate(ctx context.Context, endpointID string, ifExpiresIn time.Duration) (*OperationResult, error)
	Activate(ctx context.Context, endpointID string, requirements *ActivationRequirements) (*OperationResult, error)
	Deactivate(ctx context.Context, endpointID string) (*OperationResult, error)
	ActivationRequirements(ctx context.Context, endpointID string) (*ActivationRequirements, error)

	ListServers(ctx context.Context, endpointID string) ([]Server, error)
	GetServer(ctx context.Context, endpointID string, serverID int) (*Server, error)
	AddServer(ctx context.Context, endpointID string, server *Server) (*OperationResult, error)
	UpdateServer(ctx context.Context, endpointID string, serverID int, server *Server) (*OperationResult, error)
	DeleteServer(ctx context.Context, endpointID string, serverID int) (*OperationResult, error)

	MySharedEndpoints(ctx context.Context, hostEndpointID string) ([]Endpoint, error)
	CreateShared(ctx context.Context, endpoint *Endpoint) (*OperationResult, error)
	EffectivePauseRules(ctx context.Context, endpointID string) ([]PauseRule, error)
}

// AccessClient provides access to endpoint ACL operations.
type AccessClient interface {
	List(ctx context.Context, endpointID string) ([]AccessRule, error)
	Get(ctx context.Context, endpointID, ruleID string) (*AccessRule, error)
	Add(ctx context.Context, endpointID string, rule *AccessRule) (*OperationResult, error)
	Update(ctx context.Context, endpointID, ruleID string, rule *AccessRule) (*OperationResult, error)
	Delete(ctx context.Context, endpointID, ruleID string) (*OperationResult, error)
}

// RolesClient provides access to endpoint role operations.
type RolesClient interface {
	List(ctx context.Context, endpointID string) ([]Role, error)
	Get(ctx context.Context, endpointID, roleID string) (*Role, error)
	Add(ctx context.Context, endpointID string, role *Role) (*OperationResult, error)
	Delete(ctx context.Context, endpointID, roleID string) (*OperationResult, error)
}

// BookmarksClient provides access to bookmark operations.
type BookmarksClient interface {
	List(ctx context.Context) ([]Bookmark, error)
	Get(ctx context.Context, bookmarkID string) (*Bookmark, error)
	Create(ctx context.Context, bookmark *Bookmark) (*Bookmark, error)
	Update(ctx context.Context, bookmarkID string, bookmark *Bookmark) (*Bookmark, error)
	Delete(ctx context.Context, bookmarkID string) (*OperationResult, error)
}

// OperationsClient provides synchronous filesystem operations on an
// activated endpoint.
type OperationsClient interface {
	Ls(ctx context.Context, endpointID string, params *QueryParams) (*DirectoryListing, error)
	Mkdir(ctx context.Context, endpointID, path string) (*OperationResult, error)
	Rename(ctx context.Context, endpointID, oldPath, newPath string) (*OperationResult, error)
}

// SubmissionsClient provides task submission operations.
type SubmissionsClient interface {
	SubmissionID(ctx context.Context) (*SubmissionID, error)
	SubmitTransfer(ctx context.Context, request *TransferRequest) (*TaskSubmission, error)
	SubmitDelete(ctx context.Context, request *DeleteRequest) (*TaskSubmission, error)
}

// TaskWaitOptions controls TasksClient.Wait. Both bounds have a minimum of
// one second; the polling interval is clamped to the timeout so the wait
// never sleeps past its budget.
type TaskWaitOptions struct {
	Timeout         time.Duration
	PollingInterval time.Duration
}

// TasksClient provides task inspection and management operations.
type TasksClient interface {
	// List returns a lazy paginated view over the caller's tasks, using the
	// service's total-count paging convention.
	List(ctx context.Context, params *QueryParams, numResults int) (*PaginatedResource[Task], error)
	Get(ctx context.Context, taskID string) (*Task, error)
	Update(ctx context.Context, taskID string, task *Task) (*OperationResult, error)
	Cancel(ctx context.Context, taskID string) (*OperationResult, error)
	EventList(ctx context.Context, taskID string, numResults int) (*PaginatedResource[TaskEvent], error)
	PauseInfo(ctx context.Context, taskID string) (*PauseInfo, error)

	// Wait blocks until the task leaves ACTIVE or the timeout elapses.
	// It reports true when the task terminated, false on timeout.
	Wait(ctx context.Context, taskID string, opts *TaskWaitOptions) (bool, error)
}

// ManagerClient provides the endpoint-manager (administrator) views.
type ManagerClient interface {
	MonitoredEndpoints(ctx context.Context, params *QueryParams) ([]Endpoint, error)
	// TaskList pages through all tasks visible to the manager, using the
	// service's cursor (has-next-page) paging convention.
	TaskList(ctx context.Context, params *QueryParams, numResults int) (*PaginatedResource[Task], error)
}

// Client is the full Transfer API surface.
type Client interface {
	Endpoints() EndpointsClient
	Access() AccessClient
	Roles() RolesClient
	Bookmarks() BookmarksClient
	Operations() OperationsClient
	Submissions() SubmissionsClient
	Tasks() TasksClient
	Manager() ManagerClient
}

// Config represents client configuration for building a transfer.Client.
//
// # Authentication precedence
//
//  1. Authorizer: if set, it is used as-is and all other credential fields
//     are ignored.
//  2. AccessToken: used directly as a static Bearer token. When
//     AccessTokenExpiresAt is also set together with ClientID/ClientSecret,
//     the token seeds a renewing authorizer instead.
//  3. ClientID/ClientSecret: uses the OAuth2 client_credentials grant with
//     Scopes against TokenURL.
//  4. RefreshToken (with ClientID/ClientSecret): renews access tokens with
//     the refresh_token grant.
//  5. No credentials: requests are sent without authentication.
//
// # Token URL discovery
//
// If authentication is required and TokenURL is empty, gridclient.New
// discovers the auth service from the API root ("/" → links.auth) and
// constructs TokenURL as "<auth>/oauth2/token".
type Config struct {
	// APIEndpoint: base URL for the Transfer API (e.g.
	// "https://transfer.example.org"). gridclient.New normalizes the value.
	APIEndpoint string

	// Authorizer: custom credential source; overrides all other auth fields.
	Authorizer Authorizer

	// ClientID and ClientSecret identify a confidential client for the
	// client_credentials grant.
	ClientID     string
	ClientSecret string
	// Scopes is a space-separated scope string. All scopes must belong to
	// the Transfer API's resource server; a grant that returns tokens for
	// more than one resource server fails with ErrAmbiguousScopes.
	Scopes string

	// AccessToken: if set, used directly as a Bearer token, or as the
	// initial token of a renewing authorizer when AccessTokenExpiresAt and
	// confidential-client credentials are present too.
	AccessToken          string
	AccessTokenExpiresAt time.Time

	// RefreshToken: used with ClientID/ClientSecret for refresh_token grants.
	RefreshToken string

	// TokenURL: full OAuth2 token endpoint. Discovered from the API root
	// when empty and authentication is required.
	TokenURL string

	// OnTokenRenewal is invoked synchronously with the full grant each time
	// a renewing authorizer fetches a new token, before that token is used.
	// Its error is propagated, not swallowed: a broken renewal observer
	// usually means caller misconfiguration.
	OnTokenRenewal func(*TokenGrant) error

	// Optional configurations
	HTTPTimeout   time.Duration
	RetryMax      int
	RetryWaitMin  time.Duration
	RetryWaitMax  time.Duration
	Debug         bool
	Logger        Logger
	SkipTLSVerify bool
	UserAgent     string

	// Cache: optional response cache for GET requests. See CacheConfig and
	// NewCacheFromConfig.
	Cache Cache

	// Interceptors: optional chain run by the transport around every
	// request, e.g. for extra headers, rate limiting, or circuit breaking.
	Interceptors *InterceptorChain
}
