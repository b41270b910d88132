// CBarrera | 2026
// handler_test.go

package catalog

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseListParamsDefaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/products", nil)

	params, err := parseListParams(req)
	require.NoError(t, err)
	require.Empty(t, params.Category)
	require.Nil(t, params.MinPrice)
	require.Nil(t, params.MaxPrice)

	params.Normalize()
	require.Equal(t, 1, params.Page)
	require.Equal(t, defaultPageSize, params.Limit)
}

func TestParseListParamsFull(t *testing.T) {
	req := httptest.NewRequest("GET",
		"/products?category=Electronics&minPrice=10&maxPrice=99.5&sort=price:desc&page=3&limit=24", nil)

	params, err := parseListParams(req)
	require.NoError(t, err)
	require.Equal(t, "Electronics", params.Category)
	require.Equal(t, 10.0, *params.MinPrice)
	require.Equal(t, 99.5, *params.MaxPrice)
	require.Equal(t, "price", params.SortField)
	require.False(t, params.SortAsc)
	require.Equal(t, 3, params.Page)
	require.Equal(t, 24, params.Limit)
}

func TestParseListParamsSortDefaultsAscending(t *testing.T) {
	req := httptest.NewRequest("GET", "/products?sort=name", nil)

	params, err := parseListParams(req)
	require.NoError(t, err)
	require.Equal(t, "name", params.SortField)
	require.True(t, params.SortAsc)
}

func TestParseListParamsRejectsUnknownCategory(t *testing.T) {
	req := httptest.NewRequest("GET", "/products?category=Furniture", nil)

	_, err := parseListParams(req)
	require.Error(t, err)
}

func TestParseListParamsRejectsBadNumbers(t *testing.T) {
	for _, target := range []string{
		"/products?minPrice=cheap",
		"/products?maxPrice=expensive",
		"/products?page=first",
		"/products?limit=lots",
	} {
		req := httptest.NewRequest("GET", target, nil)
		_, err := parseListParams(req)
		require.Error(t, err, target)
	}
}

func TestNormalizeClampsLimit(t *testing.T) {
	params := ListParams{Page: -2, Limit: 10_000}
	params.Normalize()
	require.Equal(t, 1, params.Page)
	require.Equal(t, maxPageSize, params.Limit)
}

func TestSortFieldWhitelist(t *testing.T) {
	require.Equal(t, "created_at", sortFields["createdAt"])
	_, ok := sortFields["password_hash"]
	require.False(t, ok)
}
