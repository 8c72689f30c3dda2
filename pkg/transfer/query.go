package transfer

import (
	"net/url"
	"strings"
)

// QueryParams represents common query options for Transfer API requests.
type QueryParams struct {
	// FilterFulltext matches endpoint names and descriptions.
	FilterFulltext string

	// FilterScope restricts a search to a named scope, e.g. "my-endpoints",
	// "shared-with-me", "all".
	FilterScope string

	// FilterStatus restricts task listings to the given statuses.
	FilterStatus []string

	// Path is the directory path for filesystem operations.
	Path string

	// OrderBy is a field name, optionally prefixed with "-" for descending.
	OrderBy string

	// Fields limits the returned document fields.
	Fields []string

	// Filters holds any additional filter parameters verbatim; values for
	// the same key are joined with commas.
	Filters map[string][]string
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string][]string),
	}
}

// WithFulltext sets the fulltext filter.
func (q *QueryParams) WithFulltext(text string) *QueryParams {
	q.FilterFulltext = text

	return q
}

// WithScope sets the search scope filter.
func (q *QueryParams) WithScope(scope string) *QueryParams {
	q.FilterScope = scope

	return q
}

// WithStatus adds task status filters.
func (q *QueryParams) WithStatus(statuses ...string) *QueryParams {
	q.FilterStatus = append(q.FilterStatus, statuses...)

	return q
}

// WithPath sets the path for filesystem operations.
func (q *QueryParams) WithPath(path string) *QueryParams {
	q.Path = path

	return q
}

// WithOrderBy sets the sort order.
func (q *QueryParams) WithOrderBy(orderBy string) *QueryParams {
	q.OrderBy = orderBy

	return q
}

// WithFilter adds a raw filter parameter.
func (q *QueryParams) WithFilter(key string, values ...string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[key] = append(q.Filters[key], values...)

	return q
}

// ToValues converts the params to url.Values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q.FilterFulltext != "" {
		values.Set("filter_fulltext", q.FilterFulltext)
	}

	if q.FilterScope != "" {
		values.Set("filter_scope", q.FilterScope)
	}

	if len(q.FilterStatus) > 0 {
		values.Set("filter_status", strings.Join(q.FilterStatus, ","))
	}

	if q.Path != "" {
		values.Set("path", q.Path)
	}

	if q.OrderBy != "" {
		values.Set("orderby", q.OrderBy)
	}

	if len(q.Fields) > 0 {
		values.Set("fields", strings.Join(q.Fields, ","))
	}

	for key, vals := range q.Filters {
		if len(vals) > 0 {
			values.Set(key, strings.Join(vals, ","))
		}
	}

	return values
}
