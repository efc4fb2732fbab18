package helpers

import (
	"net/http"
	"strconv"

	"conferencecentral/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads page and page_size from the request query string,
// clamps them to valid ranges, and returns domain.PaginationParams.
// Invalid or missing values fall back to defaults.
func ParsePagination(r *http.Request) domain.PaginationParams {
	page := DefaultPage
	if s := r.URL.Query().Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			page = v
		}
	}
	pageSize := DefaultPageSize
	if s := r.URL.Query().Get("page_size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			pageSize = min(v, MaxPageSize)
		}
	}
	return domain.PaginationParams{Page: page, PageSize: pageSize}
}

// ParseOptionalPagination is ParsePagination for endpoints that return every
// row unless a page is asked for. Without page and page_size it returns the
// zero PaginationParams.
func ParseOptionalPagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	if !q.Has("page") && !q.Has("page_size") {
		return domain.PaginationParams{}
	}
	return ParsePagination(r)
}
