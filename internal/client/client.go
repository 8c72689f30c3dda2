// Package client implements the transfer.Client interface over the
// internal HTTP transport.
package client

import (
	"strings"

	"github.com/gridway-io/transfer-client/internal/auth"
	internalhttp "github.com/gridway-io/transfer-client/internal/http"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// Client implements the transfer.Client interface.
type Client struct {
	httpClient *internalhttp.Client
	authorizer transfer.Authorizer
	baseURL    string
	logger     transfer.Logger

	endpoints   transfer.EndpointsClient
	access      transfer.AccessClient
	roles       transfer.RolesClient
	bookmarks   transfer.BookmarksClient
	operations  transfer.OperationsClient
	submissions transfer.SubmissionsClient
	tasks       transfer.TasksClient
	manager     transfer.ManagerClient
}

// New creates a client from config. The config's APIEndpoint and, when
// needed, TokenURL must already be resolved; gridclient.New takes care of
// discovery before calling here.
func New(config *transfer.Config) (*Client, error) {
	if config == nil {
		return nil, transfer.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, transfer.ErrAPIEndpointRequired
	}

	authorizer, err := createAuthorizer(config)
	if err != nil {
		return nil, err
	}

	opts := make([]internalhttp.Option, 0)

	if config.Logger != nil {
		opts = append(opts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, internalhttp.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		opts = append(opts, internalhttp.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax))
	}

	if config.Cache != nil {
		opts = append(opts, internalhttp.WithCache(config.Cache))
	}

	if config.Interceptors != nil {
		opts = append(opts, internalhttp.WithInterceptors(config.Interceptors))
	}

	if config.SkipTLSVerify {
		opts = append(opts, internalhttp.WithSkipTLSVerify(true))
	}

	httpClient := internalhttp.NewClient(config.APIEndpoint, authorizer, opts...)

	client := &Client{
		httpClient: httpClient,
		authorizer: authorizer,
		baseURL:    config.APIEndpoint,
		logger:     config.Logger,
	}

	client.endpoints = NewEndpointsClient(httpClient)
	client.access = NewAccessClient(httpClient)
	client.roles = NewRolesClient(httpClient)
	client.bookmarks = NewBookmarksClient(httpClient)
	client.operations = NewOperationsClient(httpClient)
	client.submissions = NewSubmissionsClient(httpClient)
	client.tasks = NewTasksClient(httpClient)
	client.manager = NewManagerClient(httpClient)

	return client, nil
}

// createAuthorizer picks the credential strategy from the config fields.
func createAuthorizer(config *transfer.Config) (transfer.Authorizer, error) {
	if config.Authorizer != nil {
		return config.Authorizer, nil
	}

	confidential := config.ClientID != "" && config.ClientSecret != ""

	// A bare access token with no way to renew stays static.
	if config.AccessToken != "" && !(confidential && !config.AccessTokenExpiresAt.IsZero()) {
		return auth.NewStaticAuthorizer(config.AccessToken), nil
	}

	if !confidential {
		if config.AccessToken == "" && config.RefreshToken == "" {
			// Unauthenticated client.
			return nil, nil //nolint:nilnil // absence of an authorizer is a valid configuration
		}

		return nil, transfer.ErrNoCredentialsAvailable
	}

	authClient := auth.NewAuthClient(config.TokenURL, config.ClientID, config.ClientSecret)

	var source auth.TokenSource

	if config.RefreshToken != "" {
		source = auth.NewRefreshTokenSource(authClient, config.RefreshToken)
	} else {
		source = auth.NewClientCredentialsTokenSource(authClient, splitScopes(config.Scopes))
	}

	authorizer := auth.NewRenewingAuthorizer(source, auth.RenewalCallback(config.OnTokenRenewal))

	if config.AccessToken != "" && !config.AccessTokenExpiresAt.IsZero() {
		authorizer.SetToken(config.AccessToken, config.AccessTokenExpiresAt)
	}

	return authorizer, nil
}

func splitScopes(scopes string) []string {
	if scopes == "" {
		return nil
	}

	return strings.Fields(scopes)
}

// Endpoints returns the endpoints resource client.
func (c *Client) Endpoints() transfer.EndpointsClient {
	return c.endpoints
}

// Access returns the access-rules resource client.
func (c *Client) Access() transfer.AccessClient {
	return c.access
}

// Roles returns the roles resource client.
func (c *Client) Roles() transfer.RolesClient {
	return c.roles
}

// Bookmarks returns the bookmarks resource client.
func (c *Client) Bookmarks() transfer.BookmarksClient {
	return c.bookmarks
}

// Operations returns the filesystem-operations resource client.
func (c *Client) Operations() transfer.OperationsClient {
	return c.operations
}

// Submissions returns the task-submission resource client.
func (c *Client) Submissions() transfer.SubmissionsClient {
	return c.submissions
}

// Tasks returns the tasks resource client.
func (c *Client) Tasks() transfer.TasksClient {
	return c.tasks
}

// Manager returns the endpoint-manager resource client.
func (c *Client) Manager() transfer.ManagerClient {
	return c.manager
}
