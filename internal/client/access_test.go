package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/gridway-io/transfer-client/internal/http"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

func newTestAccessClient(t *testing.T, handler http.Handler) *AccessClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewAccessClient(internalhttp.NewClient(server.URL, nil))
}

func TestAccessClient_List(t *testing.T) {
	client := newTestAccessClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/endpoint/ep-123/access_list", r.URL.Path)

		_ = json.NewEncoder(w).Encode(transfer.ListPage[transfer.AccessRule]{
			Items: []transfer.AccessRule{
				{ID: "rule-1", PrincipalType: "identity", Principal: "user-1", Path: "/shared/", Permissions: "r"},
			},
		})
	}))

	rules, err := client.List(context.Background(), "ep-123")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "r", rules[0].Permissions)
}

func TestAccessClient_Add(t *testing.T) {
	client := newTestAccessClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/endpoint/ep-123/access", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var submitted transfer.AccessRule
		require.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
		assert.Equal(t, "rw", submitted.Permissions)

		_ = json.NewEncoder(w).Encode(transfer.OperationResult{Code: "Created", ID: "rule-new"})
	}))

	result, err := client.Add(context.Background(), "ep-123", &transfer.AccessRule{
		PrincipalType: "identity",
		Principal:     "user-2",
		Path:          "/shared/",
		Permissions:   "rw",
	})
	require.NoError(t, err)
	assert.Equal(t, "rule-new", result.ID)
}

func TestAccessClient_Delete(t *testing.T) {
	client := newTestAccessClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/endpoint/ep-123/access/rule-1", r.URL.Path)
		assert.Equal(t, http.MethodDelete, r.Method)

		_ = json.NewEncoder(w).Encode(transfer.OperationResult{Code: "Deleted"})
	}))

	result, err := client.Delete(context.Background(), "ep-123", "rule-1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted", result.Code)
}

func TestRolesClient(t *testing.T) {
	t.Run("lists roles", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/endpoint/ep-123/role_list", r.URL.Path)

			_ = json.NewEncoder(w).Encode(transfer.ListPage[transfer.Role]{
				Items: []transfer.Role{
					{ID: "role-1", Principal: "user-1", Role: "administrator"},
				},
			})
		}))
		t.Cleanup(server.Close)

		client := NewRolesClient(internalhttp.NewClient(server.URL, nil))

		roles, err := client.List(context.Background(), "ep-123")
		require.NoError(t, err)
		require.Len(t, roles, 1)
		assert.Equal(t, "administrator", roles[0].Role)
	})

	t.Run("deletes a role", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/endpoint/ep-123/role/role-1", r.URL.Path)
			assert.Equal(t, http.MethodDelete, r.Method)

			_ = json.NewEncoder(w).Encode(transfer.OperationResult{Code: "Deleted"})
		}))
		t.Cleanup(server.Close)

		client := NewRolesClient(internalhttp.NewClient(server.URL, nil))

		result, err := client.Delete(context.Background(), "ep-123", "role-1")
		require.NoError(t, err)
		assert.Equal(t, "Deleted", result.Code)
	})
}
