package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/gridway-io/transfer-client/internal/http"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

func newTestTasksClient(t *testing.T, handler http.Handler) *TasksClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewTasksClient(internalhttp.NewClient(server.URL, nil))
}

func TestTasksClient_Get(t *testing.T) {
	client := newTestTasksClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/task/task-123", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)

		_ = json.NewEncoder(w).Encode(transfer.Task{
			TaskID: "task-123",
			Type:   "TRANSFER",
			Status: transfer.TaskStatusSucceeded,
		})
	}))

	task, err := client.Get(context.Background(), "task-123")
	require.NoError(t, err)
	assert.Equal(t, "task-123", task.TaskID)
	assert.Equal(t, transfer.TaskStatusSucceeded, task.Status)
}

func TestTasksClient_Cancel(t *testing.T) {
	client := newTestTasksClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/task/task-123/cancel", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		_ = json.NewEncoder(w).Encode(transfer.OperationResult{
			Code:    "Canceled",
			Message: "task canceled",
		})
	}))

	result, err := client.Cancel(context.Background(), "task-123")
	require.NoError(t, err)
	assert.Equal(t, "Canceled", result.Code)
}

func TestTasksClient_List(t *testing.T) {
	client := newTestTasksClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/task_list", r.URL.Path)
		assert.Equal(t, "ACTIVE", r.URL.Query().Get("filter_status"))

		_ = json.NewEncoder(w).Encode(transfer.ListPage[transfer.Task]{
			Items: []transfer.Task{
				{TaskID: "task-1", Status: transfer.TaskStatusActive},
				{TaskID: "task-2", Status: transfer.TaskStatusActive},
			},
			Total: 2,
		})
	}))

	params := transfer.NewQueryParams()
	params.WithStatus("ACTIVE")

	tasks, err := client.List(context.Background(), params, 0)
	require.NoError(t, err)

	items, err := tasks.All()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "task-1", items[0].TaskID)
}

func TestTasksClient_EventList(t *testing.T) {
	client := newTestTasksClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/task/task-123/event_list", r.URL.Path)

		_ = json.NewEncoder(w).Encode(transfer.ListPage[transfer.TaskEvent]{
			Items: []transfer.TaskEvent{
				{Code: "STARTED", Description: "transfer started"},
				{Code: "PROGRESS", Description: "10 files done"},
			},
			Total: 2,
		})
	}))

	events, err := client.EventList(context.Background(), "task-123", 0)
	require.NoError(t, err)

	items, err := events.All()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "STARTED", items[0].Code)
}

// taskStatusSequence serves one status per poll, holding the last status
// once the sequence runs out.
func taskStatusSequence(polls *atomic.Int64, statuses ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := polls.Add(1)

		idx := int(n) - 1
		if idx >= len(statuses) {
			idx = len(statuses) - 1
		}

		_ = json.NewEncoder(w).Encode(transfer.Task{
			TaskID: "task-123",
			Status: statuses[idx],
		})
	})
}

func TestTasksClient_Wait(t *testing.T) {
	t.Run("returns immediately when the task is already done", func(t *testing.T) {
		var polls atomic.Int64

		client := newTestTasksClient(t, taskStatusSequence(&polls, transfer.TaskStatusSucceeded))

		start := time.Now()
		done, err := client.Wait(context.Background(), "task-123", &transfer.TaskWaitOptions{
			Timeout:         2 * time.Second,
			PollingInterval: 2 * time.Second,
		})
		require.NoError(t, err)
		assert.True(t, done)
		assert.Equal(t, int64(1), polls.Load())

		// No sleep happens before the first poll or after a terminal one.
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("polls until the task leaves ACTIVE", func(t *testing.T) {
		var polls atomic.Int64

		client := newTestTasksClient(t, taskStatusSequence(&polls,
			transfer.TaskStatusActive,
			transfer.TaskStatusActive,
			transfer.TaskStatusSucceeded,
		))

		done, err := client.Wait(context.Background(), "task-123", &transfer.TaskWaitOptions{
			Timeout:         30 * time.Second,
			PollingInterval: time.Second,
		})
		require.NoError(t, err)
		assert.True(t, done)
		assert.Equal(t, int64(3), polls.Load())
	})

	t.Run("timeout equal to the interval allows a second poll", func(t *testing.T) {
		var polls atomic.Int64

		client := newTestTasksClient(t, taskStatusSequence(&polls, transfer.TaskStatusActive))

		done, err := client.Wait(context.Background(), "task-123", &transfer.TaskWaitOptions{
			Timeout:         time.Second,
			PollingInterval: time.Second,
		})
		require.NoError(t, err)
		assert.False(t, done)

		// waited reaches 1s after the first poll, which is not beyond the
		// 1s budget, so one more poll happens before giving up.
		assert.Equal(t, int64(2), polls.Load())
	})

	t.Run("interval longer than the timeout is clamped", func(t *testing.T) {
		var polls atomic.Int64

		client := newTestTasksClient(t, taskStatusSequence(&polls, transfer.TaskStatusActive))

		start := time.Now()
		done, err := client.Wait(context.Background(), "task-123", &transfer.TaskWaitOptions{
			Timeout:         time.Second,
			PollingInterval: time.Minute,
		})
		require.NoError(t, err)
		assert.False(t, done)
		assert.Equal(t, int64(2), polls.Load())
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("rejects a sub-second timeout before polling", func(t *testing.T) {
		var polls atomic.Int64

		client := newTestTasksClient(t, taskStatusSequence(&polls, transfer.TaskStatusActive))

		_, err := client.Wait(context.Background(), "task-123", &transfer.TaskWaitOptions{
			Timeout:         500 * time.Millisecond,
			PollingInterval: time.Second,
		})
		require.ErrorIs(t, err, transfer.ErrInvalidTimeout)
		assert.Equal(t, int64(0), polls.Load())
	})

	t.Run("rejects a sub-second polling interval before polling", func(t *testing.T) {
		var polls atomic.Int64

		client := newTestTasksClient(t, taskStatusSequence(&polls, transfer.TaskStatusActive))

		_, err := client.Wait(context.Background(), "task-123", &transfer.TaskWaitOptions{
			Timeout:         time.Second,
			PollingInterval: 100 * time.Millisecond,
		})
		require.ErrorIs(t, err, transfer.ErrInvalidPollingInterval)
		assert.Equal(t, int64(0), polls.Load())
	})

	t.Run("cancellation interrupts the sleep", func(t *testing.T) {
		var polls atomic.Int64

		client := newTestTasksClient(t, taskStatusSequence(&polls, transfer.TaskStatusActive))

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			time.Sleep(100 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		_, err := client.Wait(ctx, "task-123", &transfer.TaskWaitOptions{
			Timeout:         30 * time.Second,
			PollingInterval: 10 * time.Second,
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("requires a task ID", func(t *testing.T) {
		var polls atomic.Int64

		client := newTestTasksClient(t, taskStatusSequence(&polls, transfer.TaskStatusActive))

		_, err := client.Wait(context.Background(), "", nil)
		require.ErrorIs(t, err, transfer.ErrMissingTaskID)
	})
}
