package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testSortable = map[string]bool{
	"name":      true,
	"createdAt": true,
}

func TestParseParams_Defaults(t *testing.T) {
	testCases := []struct {
		name  string
		query url.Values
	}{
		{name: "empty query", query: url.Values{}},
		{name: "non numeric paging", query: url.Values{
			"pageNumber": {"two"}, "pageSize": {"ten"},
		}},
		{name: "non positive paging", query: url.Values{
			"pageNumber": {"0"}, "pageSize": {"-5"},
		}},
		{name: "unknown sort field and direction", query: url.Values{
			"sortBy": {"__proto__"}, "sortDirection": {"sideways"},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			params := ParseParams(tc.query, testSortable)
			assert.Equal(t, DefaultPage, params.Page)
			assert.Equal(t, DefaultSize, params.Size)
			assert.Equal(t, DefaultSortField, params.SortBy)
			assert.Equal(t, SortAsc, params.SortDirection)
		})
	}
}

func TestParseParams_ExplicitValues(t *testing.T) {
	params := ParseParams(url.Values{
		"pageNumber":    {"3"},
		"pageSize":      {"25"},
		"sortBy":        {"name"},
		"sortDirection": {"desc"},
	}, testSortable)

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 25, params.Size)
	assert.Equal(t, "name", params.SortBy)
	assert.Equal(t, SortDesc, params.SortDirection)
	assert.Equal(t, 50, params.Skip())
}

func TestNewPaginated_PagesCount(t *testing.T) {
	testCases := []struct {
		name           string
		totalCount     int
		size           int
		wantPagesCount int
	}{
		{name: "empty collection", totalCount: 0, size: 10, wantPagesCount: 1},
		{name: "single partial page", totalCount: 7, size: 10, wantPagesCount: 1},
		{name: "exact pages", totalCount: 20, size: 10, wantPagesCount: 2},
		{name: "remainder adds a page", totalCount: 21, size: 10, wantPagesCount: 3},
		{name: "page size one", totalCount: 5, size: 1, wantPagesCount: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page := NewPaginated([]int{}, Params{Page: 1, Size: tc.size}, tc.totalCount)
			assert.Equal(t, tc.wantPagesCount, page.PagesCount)
			assert.Equal(t, tc.totalCount, page.TotalCount)
		})
	}
}

func TestNewPaginated_EmptyEnvelope(t *testing.T) {
	var items []string
	page := NewPaginated(items, Params{Page: 1, Size: 10}, 0)

	assert.Equal(t, 1, page.PagesCount)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 0, page.TotalCount)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}
