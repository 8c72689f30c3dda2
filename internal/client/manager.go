package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gridway-io/transfer-client/internal/constants"
	internalhttp "github.com/gridway-io/transfer-client/internal/http"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// ManagerClient implements transfer.ManagerClient. These views require an
// endpoint-manager role on at least one endpoint.
type ManagerClient struct {
	httpClient *internalhttp.Client
}

// NewManagerClient creates a new endpoint-manager client.
func NewManagerClient(httpClient *internalhttp.Client) *ManagerClient {
	return &ManagerClient{httpClient: httpClient}
}

// MonitoredEndpoints implements transfer.ManagerClient.MonitoredEndpoints.
func (c *ManagerClient) MonitoredEndpoints(ctx context.Context, params *transfer.QueryParams) ([]transfer.Endpoint, error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/v2/endpoint_manager/monitored_endpoints", query)
	if err != nil {
		return nil, fmt.Errorf("listing monitored endpoints: %w", err)
	}

	var page transfer.ListPage[transfer.Endpoint]
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("parsing monitored endpoints response: %w", err)
	}

	return page.Items, nil
}

// TaskList implements transfer.ManagerClient.TaskList. The manager task
// view pages with a continuation marker rather than offsets.
func (c *ManagerClient) TaskList(ctx context.Context, params *transfer.QueryParams, numResults int) (*transfer.PaginatedResource[transfer.Task], error) {
	var base url.Values
	if params != nil {
		base = params.ToValues()
	}

	fetch := func(ctx context.Context, query url.Values) (*transfer.ListPage[transfer.Task], error) {
		resp, err := c.httpClient.Get(ctx, "/v2/endpoint_manager/task_list", query)
		if err != nil {
			return nil, fmt.Errorf("listing managed tasks: %w", err)
		}

		var page transfer.ListPage[transfer.Task]
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return nil, fmt.Errorf("parsing managed task list response: %w", err)
		}

		return &page, nil
	}

	return transfer.NewPaginatedResource(ctx, fetch, base, transfer.PagingOptions{
		NumResults:        resolveNumResults(numResults),
		MaxResultsPerCall: constants.TaskListResultsPerCall,
		Style:             transfer.PagingStyleHasNext,
	})
}
