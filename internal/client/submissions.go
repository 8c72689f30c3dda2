package client

import (
	"context"
	"encoding/json"
	"fmt"

	internalhttp "github.com/gridway-io/transfer-client/internal/http"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// SubmissionsClient implements transfer.SubmissionsClient.
type SubmissionsClient struct {
	httpClient *internalhttp.Client
}

// NewSubmissionsClient creates a new submissions client.
func NewSubmissionsClient(httpClient *internalhttp.Client) *SubmissionsClient {
	return &SubmissionsClient{httpClient: httpClient}
}

// SubmissionID implements transfer.SubmissionsClient.SubmissionID. Each
// value is single-use: the service deduplicates task submissions on it.
func (c *SubmissionsClient) SubmissionID(ctx context.Context) (*transfer.SubmissionID, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/submission_id", nil)
	if err != nil {
		return nil, fmt.Errorf("getting submission ID: %w", err)
	}

	var id transfer.SubmissionID
	if err := json.Unmarshal(resp.Body, &id); err != nil {
		return nil, fmt.Errorf("parsing submission ID response: %w", err)
	}

	return &id, nil
}

// SubmitTransfer implements transfer.SubmissionsClient.SubmitTransfer.
// A submission ID is fetched automatically when the request lacks one.
func (c *SubmissionsClient) SubmitTransfer(ctx context.Context, request *transfer.TransferRequest) (*transfer.TaskSubmission, error) {
	if request.SubmissionID == "" {
		id, err := c.SubmissionID(ctx)
		if err != nil {
			return nil, err
		}

		request.SubmissionID = id.Value
	}

	resp, err := c.httpClient.Post(ctx, "/v2/transfer", request)
	if err != nil {
		return nil, fmt.Errorf("submitting transfer: %w", err)
	}

	var submission transfer.TaskSubmission
	if err := json.Unmarshal(resp.Body, &submission); err != nil {
		return nil, fmt.Errorf("parsing transfer submission response: %w", err)
	}

	return &submission, nil
}

// SubmitDelete implements transfer.SubmissionsClient.SubmitDelete.
// A submission ID is fetched automatically when the request lacks one.
func (c *SubmissionsClient) SubmitDelete(ctx context.Context, request *transfer.DeleteRequest) (*transfer.TaskSubmission, error) {
	if request.SubmissionID == "" {
		id, err := c.SubmissionID(ctx)
		if err != nil {
			return nil, err
		}

		request.SubmissionID = id.Value
	}

	resp, err := c.httpClient.Post(ctx, "/v2/delete", request)
	if err != nil {
		return nil, fmt.Errorf("submitting delete: %w", err)
	}

	var submission transfer.TaskSubmission
	if err := json.Unmarshal(resp.Body, &submission); err != nil {
		return nil, fmt.Errorf("parsing delete submission response: %w", err)
	}

	return &submission, nil
}
