package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	internalhttp "github.com/gridway-io/transfer-client/internal/http"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// OperationsClient implements transfer.OperationsClient. All operations
// run synchronously on an activated endpoint.
type OperationsClient struct {
	httpClient *internalhttp.Client
}

// NewOperationsClient creates a new filesystem-operations client.
func NewOperationsClient(httpClient *internalhttp.Client) *OperationsClient {
	return &OperationsClient{httpClient: httpClient}
}

// Ls implements transfer.OperationsClient.Ls. Use params.WithPath to list
// a directory other than the endpoint's default.
func (c *OperationsClient) Ls(ctx context.Context, endpointID string, params *transfer.QueryParams) (*transfer.DirectoryListing, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/v2/operation/endpoint/"+endpointID+"/ls", query)
	if err != nil {
		return nil, fmt.Errorf("listing directory: %w", err)
	}

	var listing transfer.DirectoryListing
	if err := json.Unmarshal(resp.Body, &listing); err != nil {
		return nil, fmt.Errorf("parsing directory listing response: %w", err)
	}

	return &listing, nil
}

// Mkdir implements transfer.OperationsClient.Mkdir.
func (c *OperationsClient) Mkdir(ctx context.Context, endpointID, path string) (*transfer.OperationResult, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	body := map[string]string{"path": path}

	resp, err := c.httpClient.Post(ctx, "/v2/operation/endpoint/"+endpointID+"/mkdir", body)
	if err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// Rename implements transfer.OperationsClient.Rename.
func (c *OperationsClient) Rename(ctx context.Context, endpointID, oldPath, newPath string) (*transfer.OperationResult, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	body := map[string]string{
		"old_path": oldPath,
		"new_path": newPath,
	}

	resp, err := c.httpClient.Post(ctx, "/v2/operation/endpoint/"+endpointID+"/rename", body)
	if err != nil {
		return nil, fmt.Errorf("renaming path: %w", err)
	}

	return parseOperationResult(resp.Body)
}
