package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/gridway-io/transfer-client/internal/constants"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// oauthError is the error body the token endpoint returns.
type oauthError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// AuthClient talks to the auth service's token endpoint. It never retries
// 4xx responses: a rejected grant is a configuration problem, not a
// transient one.
type AuthClient struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// NewAuthClient creates a token-endpoint client with retrying transport
// for transient failures.
func NewAuthClient(tokenURL, clientID, clientSecret string) *AuthClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.LowRetryMax
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.ShortHTTPTimeout
	retryClient.Logger = nil

	return &AuthClient{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   retryClient.StandardClient(),
	}
}

// ClientCredentialsGrant requests a token via the client_credentials
// grant, scoped to the given scopes.
func (c *AuthClient) ClientCredentialsGrant(ctx context.Context, scopes []string) (*transfer.TokenGrant, error) {
	form := url.Values{
		"grant_type": []string{"client_credentials"},
	}
	if len(scopes) > 0 {
		form.Set("scope", strings.Join(scopes, " "))
	}

	return c.requestToken(ctx, form)
}

// RefreshTokenGrant exchanges a refresh token for a fresh access token.
func (c *AuthClient) RefreshTokenGrant(ctx context.Context, refreshToken string) (*transfer.TokenGrant, error) {
	form := url.Values{
		"grant_type":    []string{"refresh_token"},
		"refresh_token": []string{refreshToken},
	}

	return c.requestToken(ctx, form)
}

func (c *AuthClient) requestToken(ctx context.Context, form url.Values) (*transfer.TokenGrant, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var oauthErr oauthError
		if json.Unmarshal(body, &oauthErr) == nil && oauthErr.Error != "" {
			return nil, fmt.Errorf("token request failed: %s: %s", oauthErr.Error, oauthErr.ErrorDescription)
		}

		return nil, fmt.Errorf("token request failed with status %d", resp.StatusCode)
	}

	var grant transfer.TokenGrant

	err = json.Unmarshal(body, &grant)
	if err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &grant, nil
}
