package transfer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gridway-io/transfer-client/internal/constants"
)

// Static errors for batch execution.
var (
	ErrUnsupportedBatchOperation = errors.New("unsupported batch operation")
	ErrBatchOperationCancelled   = errors.New("batch operation cancelled")
)

// BatchOperationType identifies one kind of batch submission.
type BatchOperationType string

const (
	BatchOperationTransfer       BatchOperationType = "transfer"
	BatchOperationDelete         BatchOperationType = "delete"
	BatchOperationCancelTask     BatchOperationType = "cancel_task"
	BatchOperationDeleteBookmark BatchOperationType = "delete_bookmark"
	BatchOperationDeleteEndpoint BatchOperationType = "delete_endpoint"
)

// BatchOperation is one unit of work for the batch executor. Exactly one
// of the request fields is set, matching Type.
type BatchOperation struct {
	// ID is a caller-assigned identifier echoed back in the result.
	ID string

	Type BatchOperationType

	Transfer   *TransferRequest
	Delete     *DeleteRequest
	TaskID     string
	BookmarkID string
	EndpointID string
}

// BatchResult is the outcome of one batch operation.
type BatchResult struct {
	ID      string
	Success bool
	Data    interface{}
	Error   error
}

// BatchExecutor runs independent operations concurrently against one
// client. Results come back in the same order as the input operations.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates an executor with the given per-batch
// concurrency limit.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout overrides the per-operation timeout.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs all operations and collects their results. Individual
// failures are reported per result, not as an Execute error.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for i, operation := range operations {
		waitGroup.Add(1)

		go func(index int, operation BatchOperation) {
			defer waitGroup.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			results[index] = *b.executeOperation(opCtx, operation)
		}(i, operation)
	}

	waitGroup.Wait()

	return results, nil
}

func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	if ctx.Err() != nil {
		result.Error = fmt.Errorf("%w: %w", ErrBatchOperationCancelled, ctx.Err())

		return result
	}

	var (
		data interface{}
		err  error
	)

	switch operation.Type {
	case BatchOperationTransfer:
		data, err = b.client.Submissions().SubmitTransfer(ctx, operation.Transfer)
	case BatchOperationDelete:
		data, err = b.client.Submissions().SubmitDelete(ctx, operation.Delete)
	case BatchOperationCancelTask:
		data, err = b.client.Tasks().Cancel(ctx, operation.TaskID)
	case BatchOperationDeleteBookmark:
		data, err = b.client.Bookmarks().Delete(ctx, operation.BookmarkID)
	case BatchOperationDeleteEndpoint:
		data, err = b.client.Endpoints().Delete(ctx, operation.EndpointID)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedBatchOperation, operation.Type)
	}

	result.Success = err == nil
	result.Data = data
	result.Error = err

	return result
}

// BatchBuilder assembles a batch of operations fluently.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddTransfer queues a transfer submission.
func (b *BatchBuilder) AddTransfer(id string, request *TransferRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     BatchOperationTransfer,
		Transfer: request,
	})

	return b
}

// AddDelete queues a delete submission.
func (b *BatchBuilder) AddDelete(id string, request *DeleteRequest) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:     id,
		Type:   BatchOperationDelete,
		Delete: request,
	})

	return b
}

// AddCancelTask queues a task cancellation.
func (b *BatchBuilder) AddCancelTask(id, taskID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:     id,
		Type:   BatchOperationCancelTask,
		TaskID: taskID,
	})

	return b
}

// AddDeleteBookmark queues a bookmark deletion.
func (b *BatchBuilder) AddDeleteBookmark(id, bookmarkID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:         id,
		Type:       BatchOperationDeleteBookmark,
		BookmarkID: bookmarkID,
	})

	return b
}

// AddDeleteEndpoint queues an endpoint deletion.
func (b *BatchBuilder) AddDeleteEndpoint(id, endpointID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:         id,
		Type:       BatchOperationDeleteEndpoint,
		EndpointID: endpointID,
	})

	return b
}

// Operations returns the assembled batch.
func (b *BatchBuilder) Operations() []BatchOperation {
	return b.operations
}
