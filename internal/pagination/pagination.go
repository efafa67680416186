// Package pagination holds list paging parameters and the response envelope.
package pagination

import (
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Defaults fills in missing values and clamps out-of-range ones, so callers
// that bypass request binding still get a usable page.
func (p *PageRequest) Defaults() {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse wraps a paginated list of items with metadata.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// NewPageResponse creates a PageResponse from the given data and total count.
func NewPageResponse[T any](data []T, req PageRequest, totalItems int64) PageResponse[T] {
	req.Defaults()
	size := int64(req.PageSize)
	totalPages := int((totalItems + size - 1) / size)
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{
		Data:       data,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
	}
}

// Map converts every item of a page, keeping its metadata.
func Map[T, U any](page PageResponse[T], fn func(T) U) PageResponse[U] {
	out := make([]U, 0, len(page.Data))
	for _, item := range page.Data {
		out = append(out, fn(item))
	}
	return PageResponse[U]{
		Data:       out,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
		HasNext:    page.HasNext,
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		req.Defaults()
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}
