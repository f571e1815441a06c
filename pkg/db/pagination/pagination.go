package pagination

import (
	"errors"
	"fmt"
)

// MaxPage bounds Page so the computed offset cannot overflow.
const MaxPage = 1_000_000

var (
	ErrInvalidPage     = errors.New("invalid_page")
	ErrInvalidPageSize = errors.New("invalid_page_size")
	ErrPageTooLarge    = fmt.Errorf("%w: page above %d", ErrInvalidPage, MaxPage)
)

// Pagination is the offset window requested by a listing call. Page is
// 1-based.
type Pagination struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"pageSize" json:"pageSize"`
}

// Normalize fills zero values with defaults and caps PageSize at maxSize.
// Negative values and pages beyond MaxPage are rejected.
func (p Pagination) Normalize(defaultSize, maxSize int) (Pagination, error) {
	if p.Page < 0 {
		return Pagination{}, ErrInvalidPage
	}
	if p.Page > MaxPage {
		return Pagination{}, ErrPageTooLarge
	}
	if p.PageSize < 0 {
		return Pagination{}, ErrInvalidPageSize
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = defaultSize
	}
	if maxSize > 0 && p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	return p, nil
}

// Violation names the query field behind a Normalize error and the message
// reported for it.
func Violation(err error) (field, message string) {
	switch {
	case errors.Is(err, ErrInvalidPageSize):
		return "pageSize", "pageSize must not be negative"
	case errors.Is(err, ErrPageTooLarge):
		return "page", fmt.Sprintf("page must not exceed %d", MaxPage)
	default:
		return "page", "page must not be negative"
	}
}

func (p Pagination) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

func (p Pagination) Limit() int {
	return p.PageSize
}

// Page is the listing envelope returned to clients.
type Page[T any] struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Items    []T   `json:"items"`
}

// NewPage echoes the window back together with the filtered total.
func NewPage[T any](items []T, total int64, p Pagination) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
		Items:    items,
	}
}

// Map projects the items of a page while keeping its envelope.
func Map[T, R any](page Page[T], fn func(T) R) Page[R] {
	out := make([]R, 0, len(page.Items))
	for _, item := range page.Items {
		out = append(out, fn(item))
	}
	return Page[R]{
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
		Items:    out,
	}
}
