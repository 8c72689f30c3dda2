package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// TokenSource produces fresh tokens on demand. Implementations perform a
// network round trip on every call; callers are expected to cache.
type TokenSource interface {
	Token(ctx context.Context) (*Token, *transfer.TokenGrant, error)
}

// ClientCredentialsTokenSource fetches tokens via the client_credentials
// grant for a fixed scope set.
type ClientCredentialsTokenSource struct {
	client *AuthClient
	scopes []string
}

// NewClientCredentialsTokenSource creates a source bound to one client
// identity and scope set.
func NewClientCredentialsTokenSource(client *AuthClient, scopes []string) *ClientCredentialsTokenSource {
	return &ClientCredentialsTokenSource{
		client: client,
		scopes: scopes,
	}
}

// Token fetches a new token. A response carrying tokens for more than one
// resource server means the configured scopes are ambiguous: that is a
// configuration error in the caller's inputs, so it is surfaced naming the
// scopes and never retried.
func (s *ClientCredentialsTokenSource) Token(ctx context.Context) (*Token, *transfer.TokenGrant, error) {
	grant, err := s.client.ClientCredentialsGrant(ctx, s.scopes)
	if err != nil {
		return nil, nil, err
	}

	if len(grant.OtherTokens) > 0 {
		return nil, nil, fmt.Errorf("%w: requested scopes %q map to resource servers %s",
			transfer.ErrAmbiguousScopes,
			strings.Join(s.scopes, " "),
			strings.Join(grantResourceServers(grant), ", "))
	}

	return tokenFromGrant(grant), grant, nil
}

// RefreshTokenSource exchanges a stored refresh token for access tokens,
// carrying forward the rotated refresh token when the service issues one.
type RefreshTokenSource struct {
	client       *AuthClient
	refreshToken string
}

// NewRefreshTokenSource creates a source seeded with a refresh token.
func NewRefreshTokenSource(client *AuthClient, refreshToken string) *RefreshTokenSource {
	return &RefreshTokenSource{
		client:       client,
		refreshToken: refreshToken,
	}
}

// Token exchanges the refresh token for a fresh access token.
func (s *RefreshTokenSource) Token(ctx context.Context) (*Token, *transfer.TokenGrant, error) {
	grant, err := s.client.RefreshTokenGrant(ctx, s.refreshToken)
	if err != nil {
		return nil, nil, err
	}

	if grant.RefreshToken != "" {
		s.refreshToken = grant.RefreshToken
	}

	return tokenFromGrant(grant), grant, nil
}

func tokenFromGrant(grant *transfer.TokenGrant) *Token {
	token := &Token{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		TokenType:    grant.TokenType,
		ExpiresIn:    grant.ExpiresIn,
		Scope:        grant.Scope,
	}

	if grant.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(grant.ExpiresIn) * time.Second)
	}

	return token
}

func grantResourceServers(grant *transfer.TokenGrant) []string {
	servers := make([]string, 0, len(grant.OtherTokens)+1)
	servers = append(servers, grant.ResourceServer)

	for _, other := range grant.OtherTokens {
		servers = append(servers, other.ResourceServer)
	}

	return servers
}
