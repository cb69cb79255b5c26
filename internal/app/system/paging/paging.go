// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged lists.
// Keep this as an int because most call sites multiply it with a page
// number and then cast to int64 for Mongo Find().SetSkip()/SetLimit().
const PageSize = 10

// MaxPageSize caps a caller-supplied page size.
const MaxPageSize = 100

// Result is one page of records plus the totals needed to render
// pagination controls. A Result is produced fresh by each fetch and is
// never mutated after it is returned.
type Result[T any] struct {
	Items       []T
	CurrentPage int
	TotalPages  int
	TotalCount  int64
}

// NewResult builds a Result, deriving TotalPages from the total count.
func NewResult[T any](items []T, page, pageSize int, total int64) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items:       items,
		CurrentPage: page,
		TotalPages:  TotalPages(total, pageSize),
		TotalCount:  total,
	}
}

// TotalPages returns the number of pages needed for total rows.
// An empty result still has one (empty) page.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	if total <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// Skip returns the number of rows to skip for a 1-based page.
func Skip(page, pageSize int) int64 {
	if page < 1 {
		page = 1
	}
	return int64((page - 1) * pageSize)
}

// Clamp keeps page inside [1, totalPages]. A totalPages of 0 means
// "not known yet" and only the lower bound is applied.
func Clamp(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages > 0 && page > totalPages {
		return totalPages
	}
	return page
}

// NormalizeSize returns a usable page size, falling back to PageSize.
func NormalizeSize(n int) int {
	if n <= 0 {
		return PageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start int // 1-based index of the first row shown (0 if no results)
	End   int // 1-based index of the last row shown (0 if no results)
}

// ComputeRange calculates the "Showing Start–End of N" values for a page.
func ComputeRange(page, pageSize, shown int) Range {
	if shown == 0 {
		return Range{}
	}
	start := int(Skip(page, pageSize)) + 1
	return Range{Start: start, End: start + shown - 1}
}
