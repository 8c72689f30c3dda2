package client

import (
	"context"
	"encoding/json"
	"fmt"

	internalhttp "github.com/gridway-io/transfer-client/internal/http"
	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// BookmarksClient implements transfer.BookmarksClient.
type BookmarksClient struct {
	httpClient *internalhttp.Client
}

// NewBookmarksClient creates a new bookmarks client.
func NewBookmarksClient(httpClient *internalhttp.Client) *BookmarksClient {
	return &BookmarksClient{httpClient: httpClient}
}

// List implements transfer.BookmarksClient.List.
func (c *BookmarksClient) List(ctx context.Context) ([]transfer.Bookmark, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/bookmark_list", nil)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}

	var page transfer.ListPage[transfer.Bookmark]
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("parsing bookmark list response: %w", err)
	}

	return page.Items, nil
}

// Get implements transfer.BookmarksClient.Get.
func (c *BookmarksClient) Get(ctx context.Context, bookmarkID string) (*transfer.Bookmark, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/bookmark/"+bookmarkID, nil)
	if err != nil {
		return nil, fmt.Errorf("getting bookmark: %w", err)
	}

	var bookmark transfer.Bookmark
	if err := json.Unmarshal(resp.Body, &bookmark); err != nil {
		return nil, fmt.Errorf("parsing bookmark response: %w", err)
	}

	return &bookmark, nil
}

// Create implements transfer.BookmarksClient.Create.
func (c *BookmarksClient) Create(ctx context.Context, bookmark *transfer.Bookmark) (*transfer.Bookmark, error) {
	resp, err := c.httpClient.Post(ctx, "/v2/bookmark", bookmark)
	if err != nil {
		return nil, fmt.Errorf("creating bookmark: %w", err)
	}

	var created transfer.Bookmark
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return nil, fmt.Errorf("parsing bookmark response: %w", err)
	}

	return &created, nil
}

// Update implements transfer.BookmarksClient.Update.
func (c *BookmarksClient) Update(ctx context.Context, bookmarkID string, bookmark *transfer.Bookmark) (*transfer.Bookmark, error) {
	resp, err := c.httpClient.Put(ctx, "/v2/bookmark/"+bookmarkID, bookmark)
	if err != nil {
		return nil, fmt.Errorf("updating bookmark: %w", err)
	}

	var updated transfer.Bookmark
	if err := json.Unmarshal(resp.Body, &updated); err != nil {
		return nil, fmt.Errorf("parsing bookmark response: %w", err)
	}

	return &updated, nil
}

// Delete implements transfer.BookmarksClient.Delete.
func (c *BookmarksClient) Delete(ctx context.Context, bookmarkID string) (*transfer.OperationResult, error) {
	resp, err := c.httpClient.Delete(ctx, "/v2/bookmark/"+bookmarkID)
	if err != nil {
		return nil, fmt.Errorf("deleting bookmark: %w", err)
	}

	return parseOperationResult(resp.Body)
}
