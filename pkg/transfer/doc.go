// Package transfer provides types, interfaces, and helpers for working with
// the Gridway Transfer API.
//
// # Overview
//
// The transfer package defines the domain types (e.g., Endpoint, Task,
// Bookmark, AccessRule) and the interfaces for resource-oriented clients
// (e.g., EndpointsClient, TasksClient). A concrete implementation of these
// clients is provided by the gridclient package, which wires configuration,
// transport, authentication, and auth-URL discovery. Most consumers should
// import gridclient to construct a client and then interact with the
// resource client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/gridway-io/transfer-client/pkg/gridclient"
//	  "github.com/gridway-io/transfer-client/pkg/transfer"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := gridclient.New(ctx, &transfer.Config{APIEndpoint: "https://transfer.example.com"})
//	  if err != nil { log.Fatal(err) }
//
//	  task, err := cli.Tasks().Get(ctx, "taskid")
//	  if err != nil { log.Fatal(err) }
//	  _ = task
//	}
//
// # Queries and pagination
//
// Use QueryParams to express common list options (fulltext and scope
// filters, order_by, field selection). List operations that page on the
// server return a PaginatedResource, a lazy sequence that fetches pages as
// it is consumed:
//
//	it, err := cli.Endpoints().Search(ctx, transfer.NewQueryParams().WithFulltext("cluster"), 0)
//	if err != nil { /* handle error */ }
//	for it.HasNext() {
//	  ep, err := it.Next()
//	  if err != nil { break }
//	  _ = ep
//	}
//
// or materialize the remainder at once with it.All().
//
// # Errors
//
// API errors are represented by APIError. Helpers such as IsNotFound,
// IsUnauthorized, and IsForbidden make it easy to branch on common error
// cases. Sentinel errors (ErrPaginationOverrun, ErrAmbiguousScopes, and
// friends) report client-side misuse before any request is sent.
//
// # Interceptors and caching
//
// Config.Interceptors installs request/response interceptors for logging,
// rate limiting, and circuit breaking, and Config.Cache supplies an optional
// Cache (in-memory or NATS JetStream KV) for GET responses.
package transfer
