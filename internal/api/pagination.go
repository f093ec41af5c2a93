package api

import (
	"net/http"
	"strconv"
)

// PageSizes are the accepted values of the limit query parameter.
var PageSizes = []int{25, 50, 100, 200, 500}

// DefaultPageSize is used when limit is missing or not one of PageSizes.
const DefaultPageSize = 100

// PaginationParams holds parsed pagination values from query params.
type PaginationParams struct {
	Page       int
	Limit      int
	Offset     int
	End        int
	TotalPages int
}

// PaginatedResponse wraps any list data with pagination metadata.
type PaginatedResponse struct {
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// PaginationMeta contains pagination metadata for the response.
type PaginationMeta struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"total_pages"`
	HasMore     bool `json:"has_more"`
	ShowingFrom int  `json:"showing_from"`
	ShowingTo   int  `json:"showing_to"`
}

// ParsePagination extracts page and limit from query params for a list of
// total items. An unsupported limit falls back to DefaultPageSize and the
// page is clamped to [1, TotalPages].
func ParsePagination(r *http.Request, total int) PaginationParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return Paginate(page, limit, total)
}

// Paginate computes the window of a page over total items.
func Paginate(page, limit, total int) PaginationParams {
	if !validPageSize(limit) {
		limit = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}

	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	offset := (page - 1) * limit
	end := offset + limit
	if end > total {
		end = total
	}
	return PaginationParams{
		Page:       page,
		Limit:      limit,
		Offset:     offset,
		End:        end,
		TotalPages: totalPages,
	}
}

func validPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// NewPaginatedResponse builds a PaginatedResponse from data, params, and total count.
func NewPaginatedResponse(data interface{}, params PaginationParams, total int) PaginatedResponse {
	meta := PaginationMeta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: params.TotalPages,
		HasMore:    params.Page < params.TotalPages,
	}
	if total > 0 {
		meta.ShowingFrom = params.Offset + 1
		meta.ShowingTo = params.End
	}
	return PaginatedResponse{Data: data, Pagination: meta}
}
