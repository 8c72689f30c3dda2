package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// NewTasksCommand creates the tasks command group.
func NewTasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Manage transfer tasks",
		Long:    "List, inspect, wait on, and cancel transfer tasks",
	}

	cmd.AddCommand(newTasksListCommand())
	cmd.AddCommand(newTasksGetCommand())
	cmd.AddCommand(newTasksEventsCommand())
	cmd.AddCommand(newTasksWaitCommand())
	cmd.AddCommand(newTasksCancelCommand())

	return cmd
}

func newTasksListCommand() *cobra.Command {
	var (
		status     string
		numResults int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			var params *transfer.QueryParams
			if status != "" {
				params = transfer.NewQueryParams().WithStatus(status)
			}

			results, err := client.Tasks().List(ctx, params, numResults)
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}

			tasks, err := results.All()
			if err != nil {
				return fmt.Errorf("failed to fetch tasks: %w", err)
			}

			if handled, err := renderStructured(tasks); handled {
				return err
			}

			if len(tasks) == 0 {
				fmt.Println("No tasks found")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Task ID", "Type", "Status", "Label", "Source", "Destination")

			for _, task := range tasks {
				_ = table.Append(task.TaskID, task.Type, task.Status, task.Label,
					task.SourceEndpointID, task.DestinationEndpointID)
			}

			_ = table.Render()

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (ACTIVE, INACTIVE, SUCCEEDED, FAILED)")
	cmd.Flags().IntVar(&numResults, "num-results", 0, "maximum results to fetch (0 for default)")

	return cmd
}

func newTasksGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <task-id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			task, err := client.Tasks().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get task: %w", err)
			}

			if handled, err := renderStructured(task); handled {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")
			_ = table.Append("Task ID", task.TaskID)
			_ = table.Append("Type", task.Type)
			_ = table.Append("Status", task.Status)
			_ = table.Append("Label", task.Label)
			_ = table.Append("Source", task.SourceEndpointID)
			_ = table.Append("Destination", task.DestinationEndpointID)
			_ = table.Append("Files", fmt.Sprintf("%d", task.Files))
			_ = table.Append("Files Transferred", fmt.Sprintf("%d", task.FilesTransferred))
			_ = table.Append("Bytes Transferred", fmt.Sprintf("%d", task.BytesTransferred))
			_ = table.Render()

			return nil
		},
	}
}

func newTasksEventsCommand() *cobra.Command {
	var numResults int

	cmd := &cobra.Command{
		Use:   "events <task-id>",
		Short: "Show a task's event log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			results, err := client.Tasks().EventList(ctx, args[0], numResults)
			if err != nil {
				return fmt.Errorf("failed to list task events: %w", err)
			}

			events, err := results.All()
			if err != nil {
				return fmt.Errorf("failed to fetch task events: %w", err)
			}

			if handled, err := renderStructured(events); handled {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Time", "Code", "Error", "Description")

			for _, event := range events {
				_ = table.Append(event.Time.Format(time.RFC3339), event.Code,
					yesNo(event.IsError), event.Description)
			}

			_ = table.Render()

			return nil
		},
	}

	cmd.Flags().IntVar(&numResults, "num-results", 0, "maximum results to fetch (0 for default)")

	return cmd
}

func newTasksWaitCommand() *cobra.Command {
	var (
		timeout         time.Duration
		pollingInterval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "wait <task-id>",
		Short: "Wait for a task to finish",
		Long:  "Poll a task until it leaves the ACTIVE state or the timeout elapses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			done, err := client.Tasks().Wait(ctx, args[0], &transfer.TaskWaitOptions{
				Timeout:         timeout,
				PollingInterval: pollingInterval,
			})
			if err != nil {
				return fmt.Errorf("failed to wait for task: %w", err)
			}

			if !done {
				fmt.Printf("Task %s still active after %s\n", args[0], timeout)
				os.Exit(1)
			}

			task, err := client.Tasks().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get task: %w", err)
			}

			fmt.Printf("Task %s finished with status %s\n", task.TaskID, task.Status)

			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "how long to wait in total")
	cmd.Flags().DurationVar(&pollingInterval, "interval", 10*time.Second, "how often to poll")

	return cmd
}

func newTasksCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <task-id>",
		Short: "Cancel a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			result, err := client.Tasks().Cancel(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to cancel task: %w", err)
			}

			fmt.Printf("%s: %s\n", result.Code, result.Message)

			return nil
		},
	}
}
