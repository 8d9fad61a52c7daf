package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPagination(t *testing.T) {
	cases := []struct {
		url   string
		page  int64
		limit int64
	}{
		{"/api/assignments", 1, 10},
		{"/api/assignments?page=3&limit=25", 3, 25},
		{"/api/assignments?page=0&limit=0", 1, 10},
		{"/api/assignments?page=-2&limit=-5", 1, 10},
		{"/api/assignments?limit=500", 1, 10},
		{"/api/assignments?limit=100", 1, 100},
		{"/api/assignments?page=abc&limit=xyz", 1, 10},
	}
	for _, c := range cases {
		page, limit := pagination(httptest.NewRequest("GET", c.url, nil))
		assert.Equal(t, c.page, page, c.url)
		assert.Equal(t, c.limit, limit, c.url)
	}
}

func TestNewListPage(t *testing.T) {
	page := newListPage([]int{1, 2, 3}, 31, 2, 10)
	assert.Equal(t, int64(31), page.Total)
	assert.Equal(t, int64(4), page.TotalPages)
	assert.Equal(t, int64(2), page.CurrentPage)

	exact := newListPage([]int{}, 30, 1, 10)
	assert.Equal(t, int64(3), exact.TotalPages)
}

func TestDayBounds(t *testing.T) {
	noon := time.Date(2026, 3, 14, 12, 30, 45, 0, time.UTC)
	start, end := dayBounds(noon)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), end)

	// A timestamp exactly at midnight stays put.
	midnight := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	start, end = dayBounds(midnight)
	assert.Equal(t, midnight, start)
	assert.Equal(t, midnight.AddDate(0, 0, 1), end)
}
