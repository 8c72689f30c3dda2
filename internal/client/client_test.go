package client_test

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

	"github.com/gridway-io/transfer-client/internal/client"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires a config", func(t *testing.T) {
		t.Parallel()

		_, err := client.New(nil)
		require.ErrorIs(t, err, transfer.ErrConfigRequired)
	})

	t.Run("requires an API endpoint", func(t *testing.T) {
		t.Parallel()

		_, err := client.New(&transfer.Config{})
		require.ErrorIs(t, err, transfer.ErrAPIEndpointRequired)
	})

	t.Run("creates a client with an access token", func(t *testing.T) {
		t.Parallel()

		c, err := client.New(&transfer.Config{
			APIEndpoint: "https://transfer.example.org",
			AccessToken: "test-token",
		})
		require.NoError(t, err)
		assert.NotNil(t, c)
		assert.NotNil(t, c.Endpoints())
		assert.NotNil(t, c.Tasks())
		assert.NotNil(t, c.Submissions())
		assert.NotNil(t, c.Manager())
	})

	t.Run("creates a client with client credentials", func(t *testing.T) {
		t.Parallel()

		c, err := client.New(&transfer.Config{
			APIEndpoint:  "https://transfer.example.org",
			TokenURL:     "https://auth.example.org/oauth2/token",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Scopes:       "transfer:all",
		})
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("creates an unauthenticated client", func(t *testing.T) {
		t.Parallel()

		c, err := client.New(&transfer.Config{
			APIEndpoint: "https://transfer.example.org",
		})
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("rejects a refresh token without client credentials", func(t *testing.T) {
		t.Parallel()

		_, err := client.New(&transfer.Config{
			APIEndpoint:  "https://transfer.example.org",
			RefreshToken: "refresh-token",
		})
		require.ErrorIs(t, err, transfer.ErrNoCredentialsAvailable)
	})
}

func TestClientAuthorization(t *testing.T) {
	t.Parallel()

	t.Run("static token is sent as a bearer header", func(t *testing.T) {
		t.Parallel()

		var captured string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(transfer.ListPage[transfer.Bookmark]{})
		}))
		defer server.Close()

		c, err := client.New(&transfer.Config{
			APIEndpoint: server.URL,
			AccessToken: "static-token",
		})
		require.NoError(t, err)

		_, err = c.Bookmarks().List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer static-token", captured)
	})

	t.Run("client credentials fetch a token before the first request", func(t *testing.T) {
		t.Parallel()

		var tokenRequests atomic.Int64

		authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenRequests.Add(1)
			_ = json.NewEncoder(w).Encode(transfer.TokenGrant{
				AccessToken: "granted-token",
				TokenType:   "bearer",
				ExpiresIn:   3600,
			})
		}))
		defer authServer.Close()

		apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer granted-token", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(transfer.ListPage[transfer.Bookmark]{})
		}))
		defer apiServer.Close()

		c, err := client.New(&transfer.Config{
			APIEndpoint:  apiServer.URL,
			TokenURL:     authServer.URL,
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Scopes:       "transfer:all",
		})
		require.NoError(t, err)

		_, err = c.Bookmarks().List(context.Background())
		require.NoError(t, err)

		_, err = c.Bookmarks().List(context.Background())
		require.NoError(t, err)

		// The token is cached across requests.
		assert.Equal(t, int64(1), tokenRequests.Load())
	})

	t.Run("renewal callback observes the grant", func(t *testing.T) {
		t.Parallel()

		authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(transfer.TokenGrant{
				AccessToken: "granted-token",
				ExpiresIn:   3600,
			})
		}))
		defer authServer.Close()

		apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(transfer.ListPage[transfer.Bookmark]{})
		}))
		defer apiServer.Close()

		var grants []*transfer.TokenGrant

		c, err := client.New(&transfer.Config{
			APIEndpoint:  apiServer.URL,
			TokenURL:     authServer.URL,
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			OnTokenRenewal: func(grant *transfer.TokenGrant) error {
				grants = append(grants, grant)

				return nil
			},
		})
		require.NoError(t, err)

		_, err = c.Bookmarks().List(context.Background())
		require.NoError(t, err)

		require.Len(t, grants, 1)
		assert.Equal(t, "granted-token", grants[0].AccessToken)
	})

	t.Run("seeded token defers the first renewal", func(t *testing.T) {
		t.Parallel()

		authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no token request expected while the seeded token is fresh")
		}))
		defer authServer.Close()

		apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer seeded-token", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(transfer.ListPage[transfer.Bookmark]{})
		}))
		defer apiServer.Close()

		c, err := client.New(&transfer.Config{
			APIEndpoint:          apiServer.URL,
			TokenURL:             authServer.URL,
			ClientID:             "client-id",
			ClientSecret:         "client-secret",
			AccessToken:          "seeded-token",
			AccessTokenExpiresAt: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)

		_, err = c.Bookmarks().List(context.Background())
		require.NoError(t, err)
	})
}

func TestClientInterceptors(t *testing.T) {
	t.Parallel()

	var captured http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		_ = json.NewEncoder(w).Encode(transfer.ListPage[transfer.Bookmark]{})
	}))
	defer server.Close()

	chain := transfer.NewInterceptorChain()
	chain.AddRequestInterceptor(transfer.HeaderInterceptor(map[string]string{
		"X-Trace-Id": "trace-42",
	}))

	var observedStatus int

	chain.AddResponseInterceptor(func(_ context.Context, _ *transfer.Request, resp *transfer.Response) error {
		observedStatus = resp.StatusCode

		return nil
	})

	c, err := client.New(&transfer.Config{
		APIEndpoint:  server.URL,
		Interceptors: chain,
	})
	require.NoError(t, err)

	_, err = c.Bookmarks().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "trace-42", captured.Get("X-Trace-Id"))
	assert.Equal(t, http.StatusOK, observedStatus)
}
