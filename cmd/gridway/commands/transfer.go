package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// NewTransferCommand creates the transfer command group.
func NewTransferCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Submit transfer and delete tasks",
		Long:  "Submit file transfer and delete tasks between endpoints",
	}

	cmd.AddCommand(newTransferSubmitCommand())
	cmd.AddCommand(newTransferDeleteCommand())

	return cmd
}

func newTransferSubmitCommand() *cobra.Command {
	var (
		sourceEndpoint string
		destEndpoint   string
		label          string
		recursive      bool
		syncLevel      int
		verifyChecksum bool
		wait           bool
		waitTimeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit <source-path> <destination-path>",
		Short: "Submit a transfer task",
		Long:  "Submit a transfer task copying source-path on the source endpoint to destination-path on the destination endpoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sourceEndpoint == "" {
				return ErrSourceRequired
			}

			if destEndpoint == "" {
				return ErrDestinationRequired
			}

			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			request := &transfer.TransferRequest{
				SourceEndpointID:      sourceEndpoint,
				DestinationEndpointID: destEndpoint,
				Label:                 label,
				VerifyChecksum:        verifyChecksum,
			}
			if cmd.Flags().Changed("sync-level") {
				request.SyncLevel = &syncLevel
			}

			request.AddItem(args[0], args[1], recursive)

			submission, err := client.Submissions().SubmitTransfer(ctx, request)
			if err != nil {
				return fmt.Errorf("failed to submit transfer: %w", err)
			}

			fmt.Printf("Task submitted: %s\n", submission.TaskID)

			if !wait {
				return nil
			}

			return waitForTask(ctx, client, submission.TaskID, waitTimeout)
		},
	}

	cmd.Flags().StringVar(&sourceEndpoint, "source", "", "source endpoint ID (required)")
	cmd.Flags().StringVar(&destEndpoint, "destination", "", "destination endpoint ID (required)")
	cmd.Flags().StringVar(&label, "label", "", "task label")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "transfer directories recursively")
	cmd.Flags().IntVar(&syncLevel, "sync-level", 0, "sync level (0-3)")
	cmd.Flags().BoolVar(&verifyChecksum, "verify-checksum", false, "verify file checksums after transfer")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the task to complete")
	cmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 10*time.Minute, "maximum time to wait with --wait")

	return cmd
}

func newTransferDeleteCommand() *cobra.Command {
	var (
		endpointID  string
		label       string
		recursive   bool
		wait        bool
		waitTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "delete <path>...",
		Short: "Submit a delete task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if endpointID == "" {
				return ErrEndpointIDRequired
			}

			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			request := &transfer.DeleteRequest{
				EndpointID: endpointID,
				Label:      label,
				Recursive:  recursive,
			}

			for _, path := range args {
				request.AddItem(path)
			}

			submission, err := client.Submissions().SubmitDelete(ctx, request)
			if err != nil {
				return fmt.Errorf("failed to submit delete: %w", err)
			}

			fmt.Printf("Task submitted: %s\n", submission.TaskID)

			if !wait {
				return nil
			}

			return waitForTask(ctx, client, submission.TaskID, waitTimeout)
		},
	}

	cmd.Flags().StringVar(&endpointID, "endpoint", "", "endpoint ID (required)")
	cmd.Flags().StringVar(&label, "label", "", "task label")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "delete directories recursively")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the task to complete")
	cmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 10*time.Minute, "maximum time to wait with --wait")

	return cmd
}

func waitForTask(ctx context.Context, client transfer.Client, taskID string, timeout time.Duration) error {
	fmt.Printf("Waiting for task %s...\n", taskID)

	done, err := client.Tasks().Wait(ctx, taskID, &transfer.TaskWaitOptions{Timeout: timeout})
	if err != nil {
		return fmt.Errorf("failed waiting for task: %w", err)
	}

	if !done {
		fmt.Println("Timed out waiting for task")
		os.Exit(1)
	}

	task, err := client.Tasks().Get(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	fmt.Printf("Task %s finished with status %s\n", task.TaskID, task.Status)

	return nil
}
