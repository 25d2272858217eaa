package pagination

import (
	"math"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination represents pagination metadata
type Pagination struct {
	Page     int   `json:"current_page"`
	Limit    int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
	Offset   int   `json:"-"`
}

// PaginationRequest represents a pagination request from client
type PaginationRequest struct {
	Page  int `form:"page"`
	Limit int `form:"per_page"`
}

// New creates a new pagination instance
func New(page, limit int, total int64) *Pagination {
	page, limit = normalize(page, limit)

	pages := int(math.Ceil(float64(total) / float64(limit)))
	if pages < 1 {
		pages = 1
	}

	return &Pagination{
		Page:     page,
		Limit:    limit,
		Total:    total,
		LastPage: pages,
		Offset:   (page - 1) * limit,
	}
}

// FromRequest creates pagination from HTTP request parameters
func FromRequest(pageStr, limitStr string) *PaginationRequest {
	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)
	page, limit = normalize(page, limit)

	return &PaginationRequest{
		Page:  page,
		Limit: limit,
	}
}

// Offset returns the row offset for the requested page
func (r *PaginationRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

func normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// HasNext reports whether another page follows this one
func (p *Pagination) HasNext() bool {
	return p.Page < p.LastPage
}
