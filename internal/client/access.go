package client

import (
	"context"
	"encoding/json"
	"fmt"

	internalhttp "github.com/gridway-io/transfer-client/internal/http"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// AccessClient implements transfer.AccessClient.
type AccessClient struct {
	httpClient *internalhttp.Client
}

// NewAccessClient creates a new access-rules client.
func NewAccessClient(httpClient *internalhttp.Client) *AccessClient {
	return &AccessClient{httpClient: httpClient}
}

// List implements transfer.AccessClient.List.
func (c *AccessClient) List(ctx context.Context, endpointID string) ([]transfer.AccessRule, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Get(ctx, "/v2/endpoint/"+endpointID+"/access_list", nil)
	if err != nil {
		return nil, fmt.Errorf("listing access rules: %w", err)
	}

	var page transfer.ListPage[transfer.AccessRule]
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("parsing access list response: %w", err)
	}

	return page.Items, nil
}

// Get implements transfer.AccessClient.Get.
func (c *AccessClient) Get(ctx context.Context, endpointID, ruleID string) (*transfer.AccessRule, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Get(ctx, "/v2/endpoint/"+endpointID+"/access/"+ruleID, nil)
	if err != nil {
		return nil, fmt.Errorf("getting access rule: %w", err)
	}

	var rule transfer.AccessRule
	if err := json.Unmarshal(resp.Body, &rule); err != nil {
		return nil, fmt.Errorf("parsing access rule response: %w", err)
	}

	return &rule, nil
}

// Add implements transfer.AccessClient.Add.
func (c *AccessClient) Add(ctx context.Context, endpointID string, rule *transfer.AccessRule) (*transfer.OperationResult, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Post(ctx, "/v2/endpoint/"+endpointID+"/access", rule)
	if err != nil {
		return nil, fmt.Errorf("adding access rule: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// Update implements transfer.AccessClient.Update.
func (c *AccessClient) Update(ctx context.Context, endpointID, ruleID string, rule *transfer.AccessRule) (*transfer.OperationResult, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Put(ctx, "/v2/endpoint/"+endpointID+"/access/"+ruleID, rule)
	if err != nil {
		return nil, fmt.Errorf("updating access rule: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// Delete implements transfer.AccessClient.Delete.
func (c *AccessClient) Delete(ctx context.Context, endpointID, ruleID string) (*transfer.OperationResult, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Delete(ctx, "/v2/endpoint/"+endpointID+"/access/"+ruleID)
	if err != nil {
		return nil, fmt.Errorf("deleting access rule: %w", err)
	}

	return parseOperationResult(resp.Body)
}
