package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridway-io/transfer-client/internal/auth"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

func tokenEndpoint(t *testing.T, requests *atomic.Int64, grant transfer.TokenGrant) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(grant)
	}))
	t.Cleanup(server.Close)

	return server
}

func TestClientCredentialsTokenSource(t *testing.T) {
	t.Run("single resource server yields a usable token", func(t *testing.T) {
		var requests atomic.Int64

		server := tokenEndpoint(t, &requests, transfer.TokenGrant{
			AccessToken:    "access-token",
			TokenType:      "bearer",
			ExpiresIn:      3600,
			Scope:          "transfer:all",
			ResourceServer: "transfer.gridway.org",
		})

		client := auth.NewAuthClient(server.URL, "client-id", "client-secret")
		source := auth.NewClientCredentialsTokenSource(client, []string{"transfer:all"})

		token, grant, err := source.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "access-token", token.AccessToken)
		assert.Equal(t, "transfer.gridway.org", grant.ResourceServer)
		assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)
	})

	t.Run("multiple resource servers is a configuration error", func(t *testing.T) {
		var requests atomic.Int64

		server := tokenEndpoint(t, &requests, transfer.TokenGrant{
			AccessToken:    "access-token",
			TokenType:      "bearer",
			ExpiresIn:      3600,
			ResourceServer: "transfer.gridway.org",
			OtherTokens: []transfer.TokenGrant{
				{
					AccessToken:    "other-token",
					ResourceServer: "groups.gridway.org",
				},
			},
		})

		client := auth.NewAuthClient(server.URL, "client-id", "client-secret")
		source := auth.NewClientCredentialsTokenSource(client, []string{"transfer:all", "groups:read"})

		_, _, err := source.Token(context.Background())
		require.ErrorIs(t, err, transfer.ErrAmbiguousScopes)

		// The message names the offending scopes and the servers they
		// resolved to, so the caller can fix the configuration.
		assert.Contains(t, err.Error(), "transfer:all groups:read")
		assert.Contains(t, err.Error(), "transfer.gridway.org")
		assert.Contains(t, err.Error(), "groups.gridway.org")

		// A configuration error is never retried.
		assert.Equal(t, int64(1), requests.Load())
	})

	t.Run("scopes are sent space-joined", func(t *testing.T) {
		var scope string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			scope = r.PostForm.Get("scope")
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

			_ = json.NewEncoder(w).Encode(transfer.TokenGrant{AccessToken: "token"})
		}))
		defer server.Close()

		client := auth.NewAuthClient(server.URL, "client-id", "client-secret")
		source := auth.NewClientCredentialsTokenSource(client, []string{"transfer:all", "transfer:monitor"})

		_, _, err := source.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "transfer:all transfer:monitor", scope)
	})
}

func TestRefreshTokenSource(t *testing.T) {
	t.Run("exchanges the refresh token", func(t *testing.T) {
		var refreshToken string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			refreshToken = r.PostForm.Get("refresh_token")

			_ = json.NewEncoder(w).Encode(transfer.TokenGrant{
				AccessToken: "fresh-token",
				ExpiresIn:   3600,
			})
		}))
		defer server.Close()

		client := auth.NewAuthClient(server.URL, "client-id", "client-secret")
		source := auth.NewRefreshTokenSource(client, "initial-refresh")

		token, _, err := source.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", token.AccessToken)
		assert.Equal(t, "initial-refresh", refreshToken)
	})

	t.Run("carries a rotated refresh token forward", func(t *testing.T) {
		var seen []string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			seen = append(seen, r.PostForm.Get("refresh_token"))

			_ = json.NewEncoder(w).Encode(transfer.TokenGrant{
				AccessToken:  "fresh-token",
				RefreshToken: "rotated-refresh",
			})
		}))
		defer server.Close()

		client := auth.NewAuthClient(server.URL, "client-id", "client-secret")
		source := auth.NewRefreshTokenSource(client, "initial-refresh")

		_, _, err := source.Token(context.Background())
		require.NoError(t, err)

		_, _, err = source.Token(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []string{"initial-refresh", "rotated-refresh"}, seen)
	})
}

func TestAuthClient_RequestToken(t *testing.T) {
	t.Run("sends basic auth credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "client-id", user)
			assert.Equal(t, "client-secret", pass)

			_ = json.NewEncoder(w).Encode(transfer.TokenGrant{AccessToken: "token"})
		}))
		defer server.Close()

		client := auth.NewAuthClient(server.URL, "client-id", "client-secret")

		grant, err := client.ClientCredentialsGrant(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "token", grant.AccessToken)
	})

	t.Run("surfaces the oauth error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": "invalid_client", "error_description": "client authentication failed"}`))
		}))
		defer server.Close()

		client := auth.NewAuthClient(server.URL, "bad-id", "bad-secret")

		_, err := client.ClientCredentialsGrant(context.Background(), []string{"transfer:all"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid_client")
		assert.Contains(t, err.Error(), "client authentication failed")
	})

	t.Run("reports the status when the error body is opaque", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := auth.NewAuthClient(server.URL, "client-id", "client-secret")

		_, err := client.ClientCredentialsGrant(context.Background(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 400")
	})
}
