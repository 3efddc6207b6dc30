// AngelaMos | 2026
// pagination.go

package core

import (
	"net/http"
	"strconv"
)

// Pagination describes one page of a 1-indexed page-number listing.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	PageSize    int  `json:"pageSize"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

func NewPagination(page, pageSize, total int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return Pagination{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// PageParams is a page request after defaults and bounds are applied.
type PageParams struct {
	Page     int
	PageSize int
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Normalize clamps page to >= 1 and pageSize to [1, maxSize], falling back
// to defaultSize when pageSize is unset.
func (p PageParams) Normalize(defaultSize, maxSize int) PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	if p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	return p
}

func QueryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

// QueryIntPtr returns nil when key is absent or not an integer.
func QueryIntPtr(r *http.Request, key string) *int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return nil
	}

	return &parsed
}

func QueryFloatPtr(r *http.Request, key string) *float64 {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}

	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil
	}

	return &parsed
}
