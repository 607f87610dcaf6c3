package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage      = 1
	DefaultSize      = 10
	DefaultSortField = "createdAt"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Params carries already-validated paging and sorting values for a list
// query. Build it with ParseParams, which applies all fallbacks.
type Params struct {
	Page          int
	Size          int
	SortBy        string
	SortDirection SortDirection
}

// ParseParams reads pageNumber, pageSize, sortBy and sortDirection from the
// request query. Absent, non-numeric or non-positive paging values fall back
// to the defaults. A sortBy outside the resource's sortable field set falls
// back to createdAt, and anything but "desc" sorts ascending.
func ParseParams(query url.Values, sortableFields map[string]bool) Params {
	page, err := strconv.Atoi(query.Get("pageNumber"))
	if err != nil || page < 1 {
		page = DefaultPage
	}
	size, err := strconv.Atoi(query.Get("pageSize"))
	if err != nil || size < 1 {
		size = DefaultSize
	}

	sortBy := query.Get("sortBy")
	if !sortableFields[sortBy] {
		sortBy = DefaultSortField
	}

	direction := SortAsc
	if query.Get("sortDirection") == string(SortDesc) {
		direction = SortDesc
	}

	return Params{
		Page:          page,
		Size:          size,
		SortBy:        sortBy,
		SortDirection: direction,
	}
}

// Skip returns the number of items preceding the requested page.
func (p Params) Skip() int {
	return (p.Page - 1) * p.Size
}

// Paginated wraps one page of items together with the paging metadata.
type Paginated[T any] struct {
	PagesCount int `json:"pagesCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	Items      []T `json:"items"`
}

// NewPaginated builds the envelope for one page of items. PagesCount is
// ceil(totalCount/size), never below 1, and Items is never nil.
func NewPaginated[T any](items []T, params Params, totalCount int) Paginated[T] {
	pagesCount := (totalCount + params.Size - 1) / params.Size
	if pagesCount < 1 {
		pagesCount = 1
	}
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		PagesCount: pagesCount,
		Page:       params.Page,
		PageSize:   params.Size,
		TotalCount: totalCount,
		Items:      items,
	}
}
