package transfer

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gridway-io/transfer-client/internal/constants"
)

// PagingStyle selects the server paging convention a list endpoint uses.
type PagingStyle int

const (
	// PagingStyleLimitOffset pages with limit/offset parameters and stops
	// when the server returns a short page.
	PagingStyleLimitOffset PagingStyle = iota

	// PagingStyleTotal pages with limit/offset parameters against a total
	// count reported in every response.
	PagingStyleTotal

	// PagingStyleHasNext follows an opaque continuation marker until the
	// server reports no further page.
	PagingStyleHasNext
)

// ListPage is one page of a list response. Total, Offset and Limit are
// populated for total-count paging; HasNextPage and Marker for cursor
// paging.
type ListPage[T any] struct {
	Items       []T    `json:"data"`
	Total       int    `json:"total,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
	HasNextPage bool   `json:"has_next_page,omitempty"`
	Marker      string `json:"marker,omitempty"`
}

// PageFunc fetches one page of results with the given query parameters.
type PageFunc[T any] func(ctx context.Context, query url.Values) (*ListPage[T], error)

// PagingOptions configures a PaginatedResource.
type PagingOptions struct {
	// NumResults caps the number of items the sequence yields. Nil means
	// unbounded (still subject to MaxTotalResults).
	NumResults *int

	// MaxResultsPerCall is the server-side page size ceiling.
	MaxResultsPerCall int

	// MaxTotalResults is the hard cap the service enforces across the whole
	// sequence. Zero means no cap beyond NumResults. Yielding past it fails
	// with ErrPaginationOverrun instead of silently truncating.
	MaxTotalResults int

	// Style selects the page-advance algorithm.
	Style PagingStyle
}

// pageMeta is the style-relevant portion of a fetched page.
type pageMeta struct {
	count   int
	total   int
	hasNext bool
	marker  string
}

// pagingStrategy advances the generator position for one paging style.
// params produces the query parameters for the next request; advance
// consumes a page's metadata and reports whether the server is exhausted.
type pagingStrategy interface {
	params(limit int) url.Values
	advance(meta pageMeta, requested int) bool
}

type limitOffsetStrategy struct {
	offset int
}

func (s *limitOffsetStrategy) params(limit int) url.Values {
	return url.Values{
		"limit":  []string{strconv.Itoa(limit)},
		"offset": []string{strconv.Itoa(s.offset)},
	}
}

func (s *limitOffsetStrategy) advance(meta pageMeta, requested int) bool {
	s.offset += meta.count

	// A short page means the server ran out of results.
	return meta.count < requested
}

type totalStrategy struct {
	offset int
}

func (s *totalStrategy) params(limit int) url.Values {
	return url.Values{
		"limit":  []string{strconv.Itoa(limit)},
		"offset": []string{strconv.Itoa(s.offset)},
	}
}

func (s *totalStrategy) advance(meta pageMeta, requested int) bool {
	s.offset += meta.count

	return s.offset >= meta.total
}

type hasNextStrategy struct {
	marker string
}

func (s *hasNextStrategy) params(limit int) url.Values {
	values := url.Values{
		"limit": []string{strconv.Itoa(limit)},
	}
	if s.marker != "" {
		values.Set("marker", s.marker)
	}

	return values
}

func (s *hasNextStrategy) advance(meta pageMeta, requested int) bool {
	s.marker = meta.marker

	return !meta.hasNext
}

// PaginatedResource is a lazy, finite view over a paged list endpoint.
// Pages are fetched sequentially as the sequence is consumed, so item order
// matches the server's exactly. A PaginatedResource is not restartable:
// re-iterating requires constructing a new one, which re-issues requests
// from the beginning. It is not safe for concurrent use.
type PaginatedResource[T any] struct {
	ctx      context.Context
	fetch    PageFunc[T]
	base     url.Values
	strategy pagingStrategy

	numResults *int
	perCall    int
	maxTotal   int

	buf     []T
	idx     int
	yielded int
	done    bool
	err     error
}

// NewPaginatedResource wraps a bound list operation in a lazy sequence.
// Base query values are sent with every request; paging parameters are
// merged in per the selected style. A NumResults above MaxTotalResults is a
// client-side programming error and fails with ErrPaginationOverrun before
// any request is sent.
func NewPaginatedResource[T any](ctx context.Context, fetch PageFunc[T], base url.Values, opts PagingOptions) (*PaginatedResource[T], error) {
	if opts.NumResults != nil && *opts.NumResults < 0 {
		return nil, fmt.Errorf("%w: num results %d is negative", ErrInvalidNumResults, *opts.NumResults)
	}

	if opts.NumResults != nil && opts.MaxTotalResults > 0 && *opts.NumResults > opts.MaxTotalResults {
		return nil, fmt.Errorf("%w: %d requested, the service delivers at most %d",
			ErrPaginationOverrun, *opts.NumResults, opts.MaxTotalResults)
	}

	perCall := opts.MaxResultsPerCall
	if perCall <= 0 {
		perCall = constants.DefaultNumResults
	}

	var strategy pagingStrategy

	switch opts.Style {
	case PagingStyleTotal:
		strategy = &totalStrategy{}
	case PagingStyleHasNext:
		strategy = &hasNextStrategy{}
	case PagingStyleLimitOffset:
		strategy = &limitOffsetStrategy{}
	default:
		strategy = &limitOffsetStrategy{}
	}

	if base == nil {
		base = url.Values{}
	}

	return &PaginatedResource[T]{
		ctx:        ctx,
		fetch:      fetch,
		base:       base,
		strategy:   strategy,
		numResults: opts.NumResults,
		perCall:    perCall,
		maxTotal:   opts.MaxTotalResults,
	}, nil
}

// HasNext reports whether Next will produce another item or a pending
// error. It may issue a page fetch to find out.
func (p *PaginatedResource[T]) HasNext() bool {
	if p.idx < len(p.buf) || p.err != nil {
		return true
	}

	if p.done {
		return false
	}

	p.fetchNext()

	return p.idx < len(p.buf) || p.err != nil
}

// Next returns the next item in the sequence. It returns ErrNoMoreItems
// once the sequence is exhausted, and ErrPaginationOverrun if the sequence
// would run past MaxTotalResults.
func (p *PaginatedResource[T]) Next() (T, error) {
	var zero T

	if p.idx >= len(p.buf) {
		if p.err == nil && !p.done {
			p.fetchNext()
		}

		if p.err != nil {
			return zero, p.err
		}

		if p.idx >= len(p.buf) {
			return zero, ErrNoMoreItems
		}
	}

	// The cap is checked before yielding, so exactly MaxTotalResults items
	// can be consumed before the overrun surfaces.
	if p.maxTotal > 0 && p.yielded >= p.maxTotal {
		p.err = fmt.Errorf("%w: sequence exceeded the service cap of %d results",
			ErrPaginationOverrun, p.maxTotal)

		return zero, p.err
	}

	item := p.buf[p.idx]
	p.idx++
	p.yielded++

	return item, nil
}

// All eagerly materializes the remainder of the sequence.
func (p *PaginatedResource[T]) All() ([]T, error) {
	var items []T

	for p.HasNext() {
		item, err := p.Next()
		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	return items, nil
}

// ForEach applies fn to each remaining item, stopping on the first error
// from fn or from the sequence itself.
func (p *PaginatedResource[T]) ForEach(fn func(T) error) error {
	for p.HasNext() {
		item, err := p.Next()
		if err != nil {
			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return nil
}

// ItemResult carries one streamed item or a terminal error.
type ItemResult[T any] struct {
	Item T
	Err  error
}

// Stream drains the sequence on a background goroutine and delivers items
// over a channel. The channel closes after the terminal item or error, or
// when ctx is cancelled.
func (p *PaginatedResource[T]) Stream() <-chan ItemResult[T] {
	results := make(chan ItemResult[T], constants.BufferSize)

	go func() {
		defer close(results)

		for p.HasNext() {
			item, err := p.Next()
			if err != nil {
				select {
				case results <- ItemResult[T]{Err: err}:
				case <-p.ctx.Done():
				}

				return
			}

			select {
			case results <- ItemResult[T]{Item: item}:
			case <-p.ctx.Done():
				return
			}
		}
	}()

	return results
}

// fetchNext issues the next page request, clamping the page size to both
// the per-call ceiling and the remaining wanted results.
func (p *PaginatedResource[T]) fetchNext() {
	if p.maxTotal > 0 && p.yielded >= p.maxTotal && !p.done {
		p.err = fmt.Errorf("%w: sequence exceeded the service cap of %d results",
			ErrPaginationOverrun, p.maxTotal)

		return
	}

	limit := p.perCall

	if p.numResults != nil {
		remaining := *p.numResults - p.yielded
		if remaining <= 0 {
			p.done = true

			return
		}

		if remaining < limit {
			limit = remaining
		}
	}

	query := url.Values{}
	for key, vals := range p.base {
		query[key] = vals
	}

	for key, vals := range p.strategy.params(limit) {
		query[key] = vals
	}

	page, err := p.fetch(p.ctx, query)
	if err != nil {
		p.err = err

		return
	}

	p.buf = page.Items
	p.idx = 0

	meta := pageMeta{
		count:   len(page.Items),
		total:   page.Total,
		hasNext: page.HasNextPage,
		marker:  page.Marker,
	}

	p.done = p.strategy.advance(meta, limit)
	if meta.count == 0 {
		p.done = true
	}
}
