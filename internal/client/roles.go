package client

import (
	"context"
	"encoding/json"
	"fmt"

	internalhttp "github.com/gridway-io/transfer-client/internal/http"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// RolesClient implements transfer.RolesClient.
type RolesClient struct {
	httpClient *internalhttp.Client
}

// NewRolesClient creates a new roles client.
func NewRolesClient(httpClient *internalhttp.Client) *RolesClient {
	return &RolesClient{httpClient: httpClient}
}

// List implements transfer.RolesClient.List.
func (c *RolesClient) List(ctx context.Context, endpointID string) ([]transfer.Role, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Get(ctx, "/v2/endpoint/"+endpointID+"/role_list", nil)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}

	var page transfer.ListPage[transfer.Role]
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("parsing role list response: %w", err)
	}

	return page.Items, nil
}

// Get implements transfer.RolesClient.Get.
func (c *RolesClient) Get(ctx context.Context, endpointID, roleID string) (*transfer.Role, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Get(ctx, "/v2/endpoint/"+endpointID+"/role/"+roleID, nil)
	if err != nil {
		return nil, fmt.Errorf("getting role: %w", err)
	}

	var role transfer.Role
	if err := json.Unmarshal(resp.Body, &role); err != nil {
		return nil, fmt.Errorf("parsing role response: %w", err)
	}

	return &role, nil
}

// Add implements transfer.RolesClient.Add.
func (c *RolesClient) Add(ctx context.Context, endpointID string, role *transfer.Role) (*transfer.OperationResult, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Post(ctx, "/v2/endpoint/"+endpointID+"/role", role)
	if err != nil {
		return nil, fmt.Errorf("adding role: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// Delete implements transfer.RolesClient.Delete.
func (c *RolesClient) Delete(ctx context.Context, endpointID, roleID string) (*transfer.OperationResult, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Delete(ctx, "/v2/endpoint/"+endpointID+"/role/"+roleID)
	if err != nil {
		return nil, fmt.Errorf("deleting role: %w", err)
	}

	return parseOperationResult(resp.Body)
}
