package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gridway-io/transfer-client/internal/constants"
	internalhttp "github.com/gridway-io/transfer-client/internal/http"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// TasksClient implements transfer.TasksClient.
type TasksClient struct {
	httpClient *internalhttp.Client
}

// NewTasksClient creates a new tasks client.
func NewTasksClient(httpClient *internalhttp.Client) *TasksClient {
	return &TasksClient{httpClient: httpClient}
}

// List implements transfer.TasksClient.List.
func (c *TasksClient) List(ctx context.Context, params *transfer.QueryParams, numResults int) (*transfer.PaginatedResource[transfer.Task], error) {
	var base url.Values
	if params != nil {
		base = params.ToValues()
	}

	fetch := func(ctx context.Context, query url.Values) (*transfer.ListPage[transfer.Task], error) {
		resp, err := c.httpClient.Get(ctx, "/v2/task_list", query)
		if err != nil {
			return nil, fmt.Errorf("listing tasks: %w", err)
		}

		var page transfer.ListPage[transfer.Task]
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return nil, fmt.Errorf("parsing task list response: %w", err)
		}

		return &page, nil
	}

	return transfer.NewPaginatedResource(ctx, fetch, base, transfer.PagingOptions{
		NumResults:        resolveNumResults(numResults),
		MaxResultsPerCall: constants.TaskListResultsPerCall,
		Style:             transfer.PagingStyleTotal,
	})
}

// Get implements transfer.TasksClient.Get.
func (c *TasksClient) Get(ctx context.Context, taskID string) (*transfer.Task, error) {
	if taskID == "" {
		return nil, transfer.ErrMissingTaskID
	}

	resp, err := c.httpClient.Get(ctx, "/v2/task/"+taskID, nil)
	if err != nil {
		return nil, fmt.Errorf("getting task: %w", err)
	}

	var task transfer.Task
	if err := json.Unmarshal(resp.Body, &task); err != nil {
		return nil, fmt.Errorf("parsing task response: %w", err)
	}

	return &task, nil
}

// Update implements transfer.TasksClient.Update. Only label and deadline
// are mutable on a submitted task.
func (c *TasksClient) Update(ctx context.Context, taskID string, task *transfer.Task) (*transfer.OperationResult, error) {
	if taskID == "" {
		return nil, transfer.ErrMissingTaskID
	}

	resp, err := c.httpClient.Put(ctx, "/v2/task/"+taskID, task)
	if err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// Cancel implements transfer.TasksClient.Cancel.
func (c *TasksClient) Cancel(ctx context.Context, taskID string) (*transfer.OperationResult, error) {
	if taskID == "" {
		return nil, transfer.ErrMissingTaskID
	}

	resp, err := c.httpClient.Post(ctx, "/v2/task/"+taskID+"/cancel", nil)
	if err != nil {
		return nil, fmt.Errorf("cancelling task: %w", err)
	}

	return parseOperationResult(resp.Body)
}

// EventList implements transfer.TasksClient.EventList.
func (c *TasksClient) EventList(ctx context.Context, taskID string, numResults int) (*transfer.PaginatedResource[transfer.TaskEvent], error) {
	if taskID == "" {
		return nil, transfer.ErrMissingTaskID
	}

	fetch := func(ctx context.Context, query url.Values) (*transfer.ListPage[transfer.TaskEvent], error) {
		resp, err := c.httpClient.Get(ctx, "/v2/task/"+taskID+"/event_list", query)
		if err != nil {
			return nil, fmt.Errorf("listing task events: %w", err)
		}

		var page transfer.ListPage[transfer.TaskEvent]
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return nil, fmt.Errorf("parsing task event list response: %w", err)
		}

		return &page, nil
	}

	return transfer.NewPaginatedResource(ctx, fetch, nil, transfer.PagingOptions{
		NumResults:        resolveNumResults(numResults),
		MaxResultsPerCall: constants.TaskListResultsPerCall,
		Style:             transfer.PagingStyleTotal,
	})
}

// PauseInfo implements transfer.TasksClient.PauseInfo.
func (c *TasksClient) PauseInfo(ctx context.Context, taskID string) (*transfer.PauseInfo, error) {
	if taskID == "" {
		return nil, transfer.ErrMissingTaskID
	}

	resp, err := c.httpClient.Get(ctx, "/v2/task/"+taskID+"/pause_info", nil)
	if err != nil {
		return nil, fmt.Errorf("getting task pause info: %w", err)
	}

	var info transfer.PauseInfo
	if err := json.Unmarshal(resp.Body, &info); err != nil {
		return nil, fmt.Errorf("parsing pause info response: %w", err)
	}

	return &info, nil
}

// Wait implements transfer.TasksClient.Wait. Both bounds are validated
// before any request goes out, and the polling interval is clamped to the
// timeout. The task is polled immediately, then once per interval; the
// elapsed budget is checked after each poll, so a timeout equal to the
// interval still allows a second poll before giving up.
func (c *TasksClient) Wait(ctx context.Context, taskID string, opts *transfer.TaskWaitOptions) (bool, error) {
	if taskID == "" {
		return false, transfer.ErrMissingTaskID
	}

	timeout := constants.DefaultTaskWaitTimeout
	interval := constants.DefaultTaskPollInterval

	if opts != nil {
		if opts.Timeout != 0 {
			timeout = opts.Timeout
		}

		if opts.PollingInterval != 0 {
			interval = opts.PollingInterval
		}
	}

	if timeout < constants.MinTaskWaitBound {
		return false, fmt.Errorf("%w: got %s", transfer.ErrInvalidTimeout, timeout)
	}

	if interval < constants.MinTaskWaitBound {
		return false, fmt.Errorf("%w: got %s", transfer.ErrInvalidPollingInterval, interval)
	}

	if interval > timeout {
		interval = timeout
	}

	var waited time.Duration

	for {
		task, err := c.Get(ctx, taskID)
		if err != nil {
			return false, err
		}

		if task.Status != transfer.TaskStatusActive {
			return true, nil
		}

		waited += interval
		if waited > timeout {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(interval):
		}
	}
}
