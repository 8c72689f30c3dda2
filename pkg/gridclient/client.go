// Package gridclient provides the main entry point for creating Gridway
// Transfer API clients.
package gridclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gridway-io/transfer-client/internal/client"
	"github.com/gridway-io/transfer-client/internal/constants"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// New creates a new Transfer API client with automatic auth-service
// discovery.
func New(ctx context.Context, config *transfer.Config) (transfer.Client, error) {
	if config == nil {
		return nil, transfer.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, transfer.ErrAPIEndpointRequired
	}

	// Normalize API endpoint
	apiEndpoint := strings.TrimSuffix(config.APIEndpoint, "/")
	if !strings.HasPrefix(apiEndpoint, "http://") && !strings.HasPrefix(apiEndpoint, "https://") {
		apiEndpoint = "https://" + apiEndpoint
	}

	config.APIEndpoint = apiEndpoint

	// If we need authentication and don't have a token URL, discover the
	// auth service from the API root
	if needsAuth(config) && config.TokenURL == "" {
		authURL, err := discoverAuthEndpoint(ctx, apiEndpoint, config.SkipTLSVerify)
		if err != nil {
			return nil, fmt.Errorf("discovering auth endpoint: %w", err)
		}

		config.TokenURL = strings.TrimSuffix(authURL, "/") + "/oauth2/token"
	}

	transferClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return transferClient, nil
}

// needsAuth checks if the config requires a token endpoint.
func needsAuth(config *transfer.Config) bool {
	if config.Authorizer != nil {
		return false
	}

	return config.ClientID != "" || config.RefreshToken != ""
}

// isDevelopmentEnvironment checks if we're in a development environment.
func isDevelopmentEnvironment() bool {
	devMode := os.Getenv("GRIDWAY_DEV_MODE")

	return devMode == "true" || devMode == "1"
}

// createDiscoveryHTTPClient creates an HTTP client for auth endpoint discovery.
func createDiscoveryHTTPClient(skipTLS bool) (*http.Client, error) {
	httpClient := &http.Client{
		Timeout: constants.ShortHTTPTimeout,
	}

	if skipTLS {
		// Only allow insecure TLS in explicit development environments
		if isDevelopmentEnvironment() {
			httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402 -- Protected by development environment check above
			}
		} else {
			return nil, fmt.Errorf("%w (set GRIDWAY_DEV_MODE=true)", transfer.ErrSkipTLSOnlyInDev)
		}
	}

	return httpClient, nil
}

// fetchRootInfo fetches the API root and extracts the auth service URL.
func fetchRootInfo(ctx context.Context, httpClient *http.Client, apiEndpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiEndpoint+"/", nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("getting root info: %w", err)
	}

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			// Log error but don't return it to avoid masking original error
			fmt.Fprintf(os.Stderr, "Warning: failed to close response body: %v\n", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return "", fmt.Errorf("%w with status %d: %s", transfer.ErrRootInfoRequestFailed, resp.StatusCode, string(body))
	}

	var rootInfo struct {
		Links struct {
			Auth struct {
				Href string `json:"href"`
			} `json:"auth"`
		} `json:"links"`
	}

	err = json.NewDecoder(resp.Body).Decode(&rootInfo)
	if err != nil {
		return "", fmt.Errorf("parsing root info: %w", err)
	}

	if rootInfo.Links.Auth.Href == "" {
		return "", transfer.ErrNoAuthURLInRootResponse
	}

	return rootInfo.Links.Auth.Href, nil
}

func discoverAuthEndpoint(ctx context.Context, apiEndpoint string, skipTLS bool) (string, error) {
	httpClient, err := createDiscoveryHTTPClient(skipTLS)
	if err != nil {
		return "", err
	}

	return fetchRootInfo(ctx, httpClient, apiEndpoint)
}

// NewWithEndpoint creates a new client with just an API endpoint (no auth).
func NewWithEndpoint(ctx context.Context, endpoint string) (transfer.Client, error) {
	return New(ctx, &transfer.Config{
		APIEndpoint: endpoint,
	})
}

// NewWithToken creates a new client with an API endpoint and access token.
func NewWithToken(ctx context.Context, endpoint, token string) (transfer.Client, error) {
	return New(ctx, &transfer.Config{
		APIEndpoint: endpoint,
		AccessToken: token,
	})
}

// NewWithClientCredentials creates a new client using OAuth2 client
// credentials. scopes is the space-separated scope string for the grant.
func NewWithClientCredentials(ctx context.Context, endpoint, clientID, clientSecret, scopes string) (transfer.Client, error) {
	return New(ctx, &transfer.Config{
		APIEndpoint:  endpoint,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       scopes,
	})
}

// NewWithRefreshToken creates a new client that renews access tokens with
// a refresh token grant.
func NewWithRefreshToken(ctx context.Context, endpoint, clientID, clientSecret, refreshToken string) (transfer.Client, error) {
	return New(ctx, &transfer.Config{
		APIEndpoint:  endpoint,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RefreshToken: refreshToken,
	})
}
