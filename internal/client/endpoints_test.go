package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/gridway-io/transfer-client/internal/http"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

func newTestEndpointsClient(t *testing.T, handler http.Handler) *EndpointsClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewEndpointsClient(internalhttp.NewClient(server.URL, nil))
}

func TestEndpointsClient_Get(t *testing.T) {
	t.Run("fetches an endpoint", func(t *testing.T) {
		client := newTestEndpointsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/endpoint/ep-123", r.URL.Path)

			_ = json.NewEncoder(w).Encode(transfer.Endpoint{
				ID:          "ep-123",
				DisplayName: "Cluster Scratch",
				Activated:   true,
			})
		}))

		endpoint, err := client.Get(context.Background(), "ep-123")
		require.NoError(t, err)
		assert.Equal(t, "ep-123", endpoint.ID)
		assert.Equal(t, "Cluster Scratch", endpoint.DisplayName)
		assert.True(t, endpoint.Activated)
	})

	t.Run("requires an endpoint ID", func(t *testing.T) {
		client := newTestEndpointsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))

		_, err := client.Get(context.Background(), "")
		require.ErrorIs(t, err, transfer.ErrMissingEndpointID)
	})
}

func TestEndpointsClient_Search(t *testing.T) {
	t.Run("sends filters and paging parameters", func(t *testing.T) {
		client := newTestEndpointsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/endpoint_search", r.URL.Path)

			query := r.URL.Query()
			assert.Equal(t, "cluster", query.Get("filter_fulltext"))
			assert.Equal(t, "my-endpoints", query.Get("filter_scope"))
			assert.Equal(t, "10", query.Get("limit"))
			assert.Equal(t, "0", query.Get("offset"))

			_ = json.NewEncoder(w).Encode(transfer.ListPage[transfer.Endpoint]{
				Items: []transfer.Endpoint{
					{ID: "ep-1", DisplayName: "Cluster A"},
					{ID: "ep-2", DisplayName: "Cluster B"},
				},
			})
		}))

		params := transfer.NewQueryParams()
		params.WithFulltext("cluster")
		params.WithScope("my-endpoints")

		results, err := client.Search(context.Background(), params, 10)
		require.NoError(t, err)

		items, err := results.All()
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "ep-1", items[0].ID)
	})

	t.Run("rejects searches past the service cap", func(t *testing.T) {
		requests := 0

		client := newTestEndpointsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
		}))

		_, err := client.Search(context.Background(), nil, 5000)
		require.ErrorIs(t, err, transfer.ErrPaginationOverrun)
		assert.Equal(t, 0, requests)
	})
}

func TestEndpointsClient_Autoactivate(t *testing.T) {
	client := newTestEndpointsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/endpoint/ep-123/autoactivate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "3600", r.URL.Query().Get("if_expires_in"))

		_ = json.NewEncoder(w).Encode(transfer.OperationResult{
			Code:    "AutoActivated.CachedCredential",
			Message: "activated",
		})
	}))

	result, err := client.Autoactivate(context.Background(), "ep-123", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "AutoActivated.CachedCredential", result.Code)
}

func TestEndpointsClient_Servers(t *testing.T) {
	t.Run("lists servers", func(t *testing.T) {
		client := newTestEndpointsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/endpoint/ep-123/server_list", r.URL.Path)

			_ = json.NewEncoder(w).Encode(transfer.ListPage[transfer.Server]{
				Items: []transfer.Server{
					{ID: 1, Hostname: "gridftp1.example.org", Port: 2811},
					{ID: 2, Hostname: "gridftp2.example.org", Port: 2811},
				},
			})
		}))

		servers, err := client.ListServers(context.Background(), "ep-123")
		require.NoError(t, err)
		require.Len(t, servers, 2)
		assert.Equal(t, "gridftp1.example.org", servers[0].Hostname)
	})

	t.Run("gets one server by numeric ID", func(t *testing.T) {
		client := newTestEndpointsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/endpoint/ep-123/server/42", r.URL.Path)

			_ = json.NewEncoder(w).Encode(transfer.Server{ID: 42, Hostname: "gridftp42.example.org"})
		}))

		server, err := client.GetServer(context.Background(), "ep-123", 42)
		require.NoError(t, err)
		assert.Equal(t, 42, server.ID)
	})
}

func TestEndpointsClient_Delete(t *testing.T) {
	client := newTestEndpointsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/endpoint/ep-123", r.URL.Path)
		assert.Equal(t, http.MethodDelete, r.Method)

		_ = json.NewEncoder(w).Encode(transfer.OperationResult{Code: "Deleted"})
	}))

	result, err := client.Delete(context.Background(), "ep-123")
	require.NoError(t, err)
	assert.Equal(t, "Deleted", result.Code)
}
