package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// NewBookmarksCommand creates the bookmarks command group.
func NewBookmarksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmarks",
		Aliases: []string{"bookmark", "bm"},
		Short:   "Manage bookmarks",
		Long:    "List and manage saved endpoint/path bookmarks",
	}

	cmd.AddCommand(newBookmarksListCommand())
	cmd.AddCommand(newBookmarksCreateCommand())
	cmd.AddCommand(newBookmarksDeleteCommand())

	return cmd
}

func newBookmarksListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			bookmarks, err := client.Bookmarks().List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list bookmarks: %w", err)
			}

			if handled, err := renderStructured(bookmarks); handled {
				return err
			}

			if len(bookmarks) == 0 {
				fmt.Println("No bookmarks found")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Endpoint", "Path")

			for _, bookmark := range bookmarks {
				_ = table.Append(bookmark.ID, bookmark.Name, bookmark.EndpointID, bookmark.Path)
			}

			_ = table.Render()

			return nil
		},
	}
}

func newBookmarksCreateCommand() *cobra.Command {
	var (
		endpointID string
		path       string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if endpointID == "" {
				return ErrEndpointIDRequired
			}

			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			bookmark, err := client.Bookmarks().Create(ctx, &transfer.Bookmark{
				Name:       args[0],
				EndpointID: endpointID,
				Path:       path,
			})
			if err != nil {
				return fmt.Errorf("failed to create bookmark: %w", err)
			}

			fmt.Printf("Created bookmark %s (%s)\n", bookmark.Name, bookmark.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&endpointID, "endpoint", "", "endpoint ID (required)")
	cmd.Flags().StringVar(&path, "path", "/", "path on the endpoint")

	return cmd
}

func newBookmarksDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <bookmark-id>",
		Short: "Delete a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			result, err := client.Bookmarks().Delete(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete bookmark: %w", err)
			}

			fmt.Printf("%s: %s\n", result.Code, result.Message)

			return nil
		},
	}
}
