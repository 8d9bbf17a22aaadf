// Package pagination implements page-number pagination for list endpoints.
package pagination

import (
	"errors"
	"math"
)

// ErrInvalidPage is returned for a negative page or page size, or a page
// whose offset does not fit in an int.
var ErrInvalidPage = errors.New("invalid pagination parameters")

// Params is the page request bound from the query string.
type Params struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Meta describes the returned page.
type Meta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// Page is a page of items together with its metadata.
type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// Normalize fills defaults and clamps PageSize to maxSize. Zero values mean
// "not provided".
func (p Params) Normalize(defaultSize, maxSize int) (Params, error) {
	if p.Page < 0 || p.PageSize < 0 {
		return Params{}, ErrInvalidPage
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = defaultSize
	}
	if p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	if p.PageSize > 0 && p.Page-1 > math.MaxInt/p.PageSize {
		return Params{}, ErrInvalidPage
	}
	return p, nil
}

// Offset returns the number of rows to skip.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Limit returns the number of rows to take.
func (p Params) Limit() int {
	return p.PageSize
}

// New builds a page. A nil slice is replaced by an empty one so that JSON
// renders [] instead of null.
func New[T any](data []T, p Params, total int64) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data: data,
		Meta: Meta{Page: p.Page, PageSize: p.PageSize, Total: total},
	}
}
