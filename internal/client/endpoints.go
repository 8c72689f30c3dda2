package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/gridway-io/transfer-client/internal/constants"
	internalhttp "github.com/gridway-io/transfer-client/internal/http"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// EndpointsClient implements transfer.EndpointsClient.
type EndpointsClient struct {
	httpClient *internalhttp.Client
}

// NewEndpointsClient creates a new endpoints client.
func NewEndpointsClient(httpClient *internalhttp.Client) *EndpointsClient {
	return &EndpointsClient{httpClient: httpClient}
}

// Get implements transfer.EndpointsClient.Get.
func (c *EndpointsClient) Get(ctx context.Context, endpointID string) (*transfer.Endpoint, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Get(ctx, "/v2/endpoint/"+endpointID, nil)
	if err != nil {
		return nil, fmt.Errorf("getting endpoint: %w", err)
	}

	var endpoint transfer.Endpoint
	if err := json.Unmarshal(resp.Body, &endpoint); err != nil {
		return nil, fmt.Errorf("parsing endpoint response: %w", err)
	}

	return &endpoint, nil
}

// Create implements transfer.EndpointsClient.Create.
func (c *EndpointsClient) Create(ctx context.Context, endpoint *transfer.Endpoint) (*transfer.OperationResult, error) {
	resp, err := c.httpClient.Post(ctx, "/v2/endpoint", endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating endpoint: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// Update implements transfer.EndpointsClient.Update.
func (c *EndpointsClient) Update(ctx context.Context, endpointID string, endpoint *transfer.Endpoint) (*transfer.OperationResult, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Put(ctx, "/v2/endpoint/"+endpointID, endpoint)
	if err != nil {
		return nil, fmt.Errorf("updating endpoint: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// Delete implements transfer.EndpointsClient.Delete.
func (c *EndpointsClient) Delete(ctx context.Context, endpointID string) (*transfer.OperationResult, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Delete(ctx, "/v2/endpoint/"+endpointID)
	if err != nil {
		return nil, fmt.Errorf("deleting endpoint: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// Search implements transfer.EndpointsClient.Search. The service pages
// searches with limit/offset and hard-caps any single search at 1000
// results.
func (c *EndpointsClient) Search(ctx context.Context, params *transfer.QueryParams, numResults int) (*transfer.PaginatedResource[transfer.Endpoint], error) {
	var base url.Values
	if params != nil {
		base = params.ToValues()
	}

	fetch := func(ctx context.Context, query url.Values) (*transfer.ListPage[transfer.Endpoint], error) {
		resp, err := c.httpClient.Get(ctx, "/v2/endpoint_search", query)
		if err != nil {
			return nil, fmt.Errorf("searching endpoints: %w", err)
		}

		var page transfer.ListPage[transfer.Endpoint]
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return nil, fmt.Errorf("parsing endpoint search response: %w", err)
		}

		return &page, nil
	}

	return transfer.NewPaginatedResource(ctx, fetch, base, transfer.PagingOptions{
		NumResults:        resolveNumResults(numResults),
		MaxResultsPerCall: constants.SearchResultsPerCall,
		MaxTotalResults:   constants.SearchMaxTotalResults,
		Style:             transfer.PagingStyleLimitOffset,
	})
}

// Autoactivate implements transfer.EndpointsClient.Autoactivate.
func (c *EndpointsClient) Autoactivate(ctx context.Context, endpointID string, ifExpiresIn time.Duration) (*transfer.OperationResult, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	path := "/v2/endpoint/" + endpointID + "/autoactivate"
	if ifExpiresIn > 0 {
		path += "?if_expires_in=" + strconv.Itoa(int(ifExpiresIn.Seconds()))
	}

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("autoactivating endpoint: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// Activate implements transfer.EndpointsClient.Activate.
func (c *EndpointsClient) Activate(ctx context.Context, endpointID string, requirements *transfer.ActivationRequirements) (*transfer.OperationResult, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Post(ctx, "/v2/endpoint/"+endpointID+"/activate", requirements)
	if err != nil {
		return nil, fmt.Errorf("activating endpoint: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// Deactivate implements transfer.EndpointsClient.Deactivate.
func (c *EndpointsClient) Deactivate(ctx context.Context, endpointID string) (*transfer.OperationResult, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Post(ctx, "/v2/endpoint/"+endpointID+"/deactivate", nil)
	if err != nil {
		return nil, fmt.Errorf("deactivating endpoint: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// ActivationRequirements implements transfer.EndpointsClient.ActivationRequirements.
func (c *EndpointsClient) ActivationRequirements(ctx context.Context, endpointID string) (*transfer.ActivationRequirements, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Get(ctx, "/v2/endpoint/"+endpointID+"/activation_requirements", nil)
	if err != nil {
		return nil, fmt.Errorf("getting activation requirements: %w", err)
	}

	var requirements transfer.ActivationRequirements
	if err := json.Unmarshal(resp.Body, &requirements); err != nil {
		return nil, fmt.Errorf("parsing activation requirements response: %w", err)
	}

	return &requirements, nil
}

// ListServers implements transfer.EndpointsClient.ListServers.
func (c *EndpointsClient) ListServers(ctx context.Context, endpointID string) ([]transfer.Server, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Get(ctx, "/v2/endpoint/"+endpointID+"/server_list", nil)
	if err != nil {
		return nil, fmt.Errorf("listing servers: %w", err)
	}

	var page transfer.ListPage[transfer.Server]
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("parsing server list response: %w", err)
	}

	return page.Items, nil
}

// GetServer implements transfer.EndpointsClient.GetServer.
func (c *EndpointsClient) GetServer(ctx context.Context, endpointID string, serverID int) (*transfer.Server, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	path := fmt.Sprintf("/v2/endpoint/%s/server/%d", endpointID, serverID)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting server: %w", err)
	}

	var server transfer.Server
	if err := json.Unmarshal(resp.Body, &server); err != nil {
		return nil, fmt.Errorf("parsing server response: %w", err)
	}

	return &server, nil
}

// AddServer implements transfer.EndpointsClient.AddServer.
func (c *EndpointsClient) AddServer(ctx context.Context, endpointID string, server *transfer.Server) (*transfer.OperationResult, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Post(ctx, "/v2/endpoint/"+endpointID+"/server", server)
	if err != nil {
		return nil, fmt.Errorf("adding server: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// UpdateServer implements transfer.EndpointsClient.UpdateServer.
func (c *EndpointsClient) UpdateServer(ctx context.Context, endpointID string, serverID int, server *transfer.Server) (*transfer.OperationResult, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	path := fmt.Sprintf("/v2/endpoint/%s/server/%d", endpointID, serverID)

	resp, err := c.httpClient.Put(ctx, path, server)
	if err != nil {
		return nil, fmt.Errorf("updating server: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// DeleteServer implements transfer.EndpointsClient.DeleteServer.
func (c *EndpointsClient) DeleteServer(ctx context.Context, endpointID string, serverID int) (*transfer.OperationResult, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	path := fmt.Sprintf("/v2/endpoint/%s/server/%d", endpointID, serverID)

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting server: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// MySharedEndpoints implements transfer.EndpointsClient.MySharedEndpoints.
func (c *EndpointsClient) MySharedEndpoints(ctx context.Context, hostEndpointID string) ([]transfer.Endpoint, error) {
	if hostEndpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Get(ctx, "/v2/endpoint/"+hostEndpointID+"/my_shared_endpoint_list", nil)
	if err != nil {
		return nil, fmt.Errorf("listing shared endpoints: %w", err)
	}

	var page transfer.ListPage[transfer.Endpoint]
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("parsing shared endpoint list response: %w", err)
	}

	return page.Items, nil
}

// CreateShared implements transfer.EndpointsClient.CreateShared. The
// endpoint must carry HostEndpointID and HostPath.
func (c *EndpointsClient) CreateShared(ctx context.Context, endpoint *transfer.Endpoint) (*transfer.OperationResult, error) {
	resp, err := c.httpClient.Post(ctx, "/v2/shared_endpoint", endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating shared endpoint: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// EffectivePauseRules implements transfer.EndpointsClient.EffectivePauseRules.
func (c *EndpointsClient) EffectivePauseRules(ctx context.Context, endpointID string) ([]transfer.PauseRule, error) {
	if endpointID == "" {
		return nil, transfer.ErrMissingEndpointID
	}

	resp, err := c.httpClient.Get(ctx, "/v2/endpoint/"+endpointID+"/my_effective_pause_rule_list", nil)
	if err != nil {
		return nil, fmt.Errorf("listing pause rules: %w", err)
	}

	var page transfer.ListPage[transfer.PauseRule]
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("parsing pause rule list response: %w", err)
	}

	return page.Items, nil
}
