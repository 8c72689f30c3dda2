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

func newTestSubmissionsClient(t *testing.T, handler http.Handler) *SubmissionsClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewSubmissionsClient(internalhttp.NewClient(server.URL, nil))
}

func TestSubmissionsClient_SubmissionID(t *testing.T) {
	client := newTestSubmissionsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/submission_id", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)

		_ = json.NewEncoder(w).Encode(transfer.SubmissionID{Value: "sub-abc"})
	}))

	id, err := client.SubmissionID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sub-abc", id.Value)
}

func TestSubmissionsClient_SubmitTransfer(t *testing.T) {
	t.Run("fetches a submission ID when the request lacks one", func(t *testing.T) {
		var submitted transfer.TransferRequest

		client := newTestSubmissionsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/v2/submission_id":
				_ = json.NewEncoder(w).Encode(transfer.SubmissionID{Value: "sub-abc"})
			case "/v2/transfer":
				require.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
				_ = json.NewEncoder(w).Encode(transfer.TaskSubmission{
					TaskID:       "task-123",
					SubmissionID: submitted.SubmissionID,
					Code:         "Accepted",
				})
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))

		request := &transfer.TransferRequest{
			SourceEndpointID:      "src-ep",
			DestinationEndpointID: "dst-ep",
		}
		request.AddItem("/data/file.txt", "/backup/file.txt", false)

		submission, err := client.SubmitTransfer(context.Background(), request)
		require.NoError(t, err)
		assert.Equal(t, "task-123", submission.TaskID)
		assert.Equal(t, "sub-abc", submitted.SubmissionID)
		require.Len(t, submitted.Items, 1)
		assert.Equal(t, "/data/file.txt", submitted.Items[0].SourcePath)
	})

	t.Run("keeps a caller-supplied submission ID", func(t *testing.T) {
		client := newTestSubmissionsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v2/transfer", r.URL.Path)

			var submitted transfer.TransferRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
			assert.Equal(t, "caller-sub", submitted.SubmissionID)

			_ = json.NewEncoder(w).Encode(transfer.TaskSubmission{TaskID: "task-456"})
		}))

		request := &transfer.TransferRequest{
			SubmissionID:          "caller-sub",
			SourceEndpointID:      "src-ep",
			DestinationEndpointID: "dst-ep",
		}

		_, err := client.SubmitTransfer(context.Background(), request)
		require.NoError(t, err)
	})
}

func TestSubmissionsClient_SubmitDelete(t *testing.T) {
	client := newTestSubmissionsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/submission_id":
			_ = json.NewEncoder(w).Encode(transfer.SubmissionID{Value: "sub-del"})
		case "/v2/delete":
			var submitted transfer.DeleteRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
			assert.Equal(t, "sub-del", submitted.SubmissionID)
			require.Len(t, submitted.Items, 2)

			_ = json.NewEncoder(w).Encode(transfer.TaskSubmission{
				TaskID: "task-789",
				Code:   "Accepted",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	request := &transfer.DeleteRequest{EndpointID: "ep-1"}
	request.AddItem("/tmp/old1")
	request.AddItem("/tmp/old2")

	submission, err := client.SubmitDelete(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, "task-789", submission.TaskID)
}
