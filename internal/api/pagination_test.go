package api

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		total       int
		wantPage    int
		wantLimit   int
		wantOffset  int
		wantEnd     int
		wantPages   int
	}{
		{"defaults", 0, 0, 250, 1, 100, 0, 100, 3},
		{"supported size", 2, 25, 60, 2, 25, 25, 50, 3},
		{"unsupported size falls back", 1, 30, 60, 1, 100, 0, 60, 1},
		{"page beyond last clamps", 9, 50, 120, 3, 50, 100, 120, 3},
		{"negative page", -4, 200, 10, 1, 200, 0, 10, 1},
		{"empty list", 3, 500, 0, 1, 500, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
			assert.Equal(t, tt.wantEnd, p.End)
			assert.Equal(t, tt.wantPages, p.TotalPages)
		})
	}
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest("GET", "/?page=2&limit=50", nil)
	p := ParsePagination(req, 75)

	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 50, p.Limit)
	assert.Equal(t, 50, p.Offset)
	assert.Equal(t, 75, p.End)
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]string{"a"}, Paginate(2, 25, 30), 30)
	assert.Equal(t, 26, resp.Pagination.ShowingFrom)
	assert.Equal(t, 30, resp.Pagination.ShowingTo)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.False(t, resp.Pagination.HasMore)

	empty := NewPaginatedResponse([]string{}, Paginate(1, 100, 0), 0)
	assert.Equal(t, 0, empty.Pagination.ShowingFrom)
	assert.Equal(t, 0, empty.Pagination.ShowingTo)
	assert.Equal(t, 1, empty.Pagination.TotalPages)
}
