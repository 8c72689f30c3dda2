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

// NewEndpointsCommand creates the endpoints command group.
func NewEndpointsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "endpoints",
		Aliases: []string{"endpoint", "ep"},
		Short:   "Manage endpoints",
		Long:    "Search, inspect, and manage transfer endpoints",
	}

	cmd.AddCommand(newEndpointsSearchCommand())
	cmd.AddCommand(newEndpointsGetCommand())
	cmd.AddCommand(newEndpointsActivateCommand())
	cmd.AddCommand(newEndpointsDeleteCommand())
	cmd.AddCommand(newEndpointsLsCommand())
	cmd.AddCommand(newEndpointsServersCommand())

	return cmd
}

func newEndpointsSearchCommand() *cobra.Command {
	var (
		scope      string
		numResults int
	)

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search endpoints",
		Long:  "Full-text search over endpoints visible to you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			params := transfer.NewQueryParams().WithFulltext(args[0])
			if scope != "" {
				params = params.WithScope(scope)
			}

			results, err := client.Endpoints().Search(ctx, params, numResults)
			if err != nil {
				return fmt.Errorf("failed to search endpoints: %w", err)
			}

			endpoints, err := results.All()
			if err != nil {
				return fmt.Errorf("failed to fetch endpoints: %w", err)
			}

			if handled, err := renderStructured(endpoints); handled {
				return err
			}

			if len(endpoints) == 0 {
				fmt.Println("No endpoints found")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Display Name", "Owner", "Activated", "Public")

			for _, endpoint := range endpoints {
				_ = table.Append(endpoint.ID, endpoint.DisplayName, endpoint.Owner,
					yesNo(endpoint.Activated), yesNo(endpoint.Public))
			}

			_ = table.Render()

			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "search scope (all, my-endpoints, shared-with-me)")
	cmd.Flags().IntVar(&numResults, "num-results", 0, "maximum results to fetch (0 for default)")

	return cmd
}

func newEndpointsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <endpoint-id>",
		Short: "Show endpoint details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			endpoint, err := client.Endpoints().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get endpoint: %w", err)
			}

			if handled, err := renderStructured(endpoint); handled {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")
			_ = table.Append("ID", endpoint.ID)
			_ = table.Append("Display Name", endpoint.DisplayName)
			_ = table.Append("Owner", endpoint.Owner)
			_ = table.Append("Organization", endpoint.Organization)
			_ = table.Append("Description", endpoint.Description)
			_ = table.Append("Activated", yesNo(endpoint.Activated))
			_ = table.Append("Public", yesNo(endpoint.Public))
			_ = table.Append("Default Directory", endpoint.DefaultDirectory)
			_ = table.Render()

			return nil
		},
	}
}

func newEndpointsActivateCommand() *cobra.Command {
	var ifExpiresIn int

	cmd := &cobra.Command{
		Use:   "activate <endpoint-id>",
		Short: "Autoactivate an endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			result, err := client.Endpoints().Autoactivate(ctx, args[0], time.Duration(ifExpiresIn)*time.Second)
			if err != nil {
				return fmt.Errorf("failed to activate endpoint: %w", err)
			}

			fmt.Printf("%s: %s\n", result.Code, result.Message)

			return nil
		},
	}

	cmd.Flags().IntVar(&ifExpiresIn, "if-expires-in", 0, "only reactivate if the activation expires within this many seconds")

	return cmd
}

func newEndpointsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <endpoint-id>",
		Short: "Delete an endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			result, err := client.Endpoints().Delete(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete endpoint: %w", err)
			}

			fmt.Printf("%s: %s\n", result.Code, result.Message)

			return nil
		},
	}
}

func newEndpointsLsCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "ls <endpoint-id>",
		Short: "List a directory on an endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			var params *transfer.QueryParams
			if path != "" {
				params = transfer.NewQueryParams().WithPath(path)
			}

			listing, err := client.Operations().Ls(ctx, args[0], params)
			if err != nil {
				return fmt.Errorf("failed to list directory: %w", err)
			}

			if handled, err := renderStructured(listing); handled {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Name", "Type", "Size", "Permissions", "Last Modified")

			for _, entry := range listing.Entries {
				_ = table.Append(entry.Name, entry.Type, fmt.Sprintf("%d", entry.Size),
					entry.Permissions, entry.LastModified.Format(time.RFC3339))
			}

			_ = table.Render()

			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "directory path to list")

	return cmd
}

func newEndpointsServersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "servers <endpoint-id>",
		Short: "List an endpoint's servers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}

			servers, err := client.Endpoints().ListServers(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to list servers: %w", err)
			}

			if handled, err := renderStructured(servers); handled {
				return err
			}

			if len(servers) == 0 {
				fmt.Println("No servers found")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Hostname", "Port", "Scheme", "Connected")

			for _, server := range servers {
				_ = table.Append(fmt.Sprintf("%d", server.ID), server.Hostname,
					fmt.Sprintf("%d", server.Port), server.Scheme, yesNo(server.IsConnected))
			}

			_ = table.Render()

			return nil
		},
	}
}
