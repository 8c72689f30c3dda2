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

func newTestOperationsClient(t *testing.T, handler http.Handler) *OperationsClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewOperationsClient(internalhttp.NewClient(server.URL, nil))
}

func TestOperationsClient_Ls(t *testing.T) {
	client := newTestOperationsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/operation/endpoint/ep-123/ls", r.URL.Path)
		assert.Equal(t, "/home/user/", r.URL.Query().Get("path"))

		_ = json.NewEncoder(w).Encode(transfer.DirectoryListing{
			Path:       "/home/user/",
			EndpointID: "ep-123",
			Entries: []transfer.FileEntry{
				{Name: "data", Type: "dir", Permissions: "0755"},
				{Name: "results.csv", Type: "file", Size: 2048},
			},
		})
	}))

	params := transfer.NewQueryParams()
	params.WithPath("/home/user/")

	listing, err := client.Ls(context.Background(), "ep-123", params)
	require.NoError(t, err)
	assert.Equal(t, "/home/user/", listing.Path)
	require.Len(t, listing.Entries, 2)
	assert.Equal(t, "dir", listing.Entries[0].Type)
	assert.Equal(t, int64(2048), listing.Entries[1].Size)
}

func TestOperationsClient_Mkdir(t *testing.T) {
	client := newTestOperationsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/operation/endpoint/ep-123/mkdir", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "/home/user/new-dir", body["path"])

		_ = json.NewEncoder(w).Encode(transfer.OperationResult{Code: "DirectoryCreated"})
	}))

	result, err := client.Mkdir(context.Background(), "ep-123", "/home/user/new-dir")
	require.NoError(t, err)
	assert.Equal(t, "DirectoryCreated", result.Code)
}

func TestOperationsClient_Rename(t *testing.T) {
	client := newTestOperationsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/operation/endpoint/ep-123/rename", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "/old/name.txt", body["old_path"])
		assert.Equal(t, "/new/name.txt", body["new_path"])

		_ = json.NewEncoder(w).Encode(transfer.OperationResult{Code: "FileRenamed"})
	}))

	result, err := client.Rename(context.Background(), "ep-123", "/old/name.txt", "/new/name.txt")
	require.NoError(t, err)
	assert.Equal(t, "FileRenamed", result.Code)
}

func TestOperationsClient_RequiresEndpointID(t *testing.T) {
	client := newTestOperationsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := client.Ls(context.Background(), "", nil)
	require.ErrorIs(t, err, transfer.ErrMissingEndpointID)

	_, err = client.Mkdir(context.Background(), "", "/path")
	require.ErrorIs(t, err, transfer.ErrMissingEndpointID)

	_, err = client.Rename(context.Background(), "", "/a", "/b")
	require.ErrorIs(t, err, transfer.ErrMissingEndpointID)
}
