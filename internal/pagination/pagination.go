// Package pagination holds the offset arithmetic and page-window layout shared
// by the server listing and the client state machine.
package pagination

import "math"

// MaxVisiblePages is the number of page-number slots a window shows.
const MaxVisiblePages = 5

// DefaultMaxPageSize caps the page size of listings that are not configured
// otherwise.
const DefaultMaxPageSize = 100

// Overflows reports whether (page-1)*pageSize does not fit in an int.
func Overflows(page, pageSize int) bool {
	return page > 1 && pageSize > 0 && page-1 > math.MaxInt/pageSize
}

// Offset returns the number of items before page. It saturates at
// math.MaxInt instead of wrapping and never goes below 0.
func Offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if Overflows(page, pageSize) {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

// TotalPages returns ceil(total/pageSize), which is 0 for an empty result.
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 0
	}
	pages := int(total / int64(pageSize))
	if total%int64(pageSize) > 0 {
		pages++
	}
	return pages
}

// Clamp keeps page inside [1, totalPages]. With no pages it returns 1.
func Clamp(page, totalPages int) int {
	if totalPages < 1 || page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Slice returns the [start, end) indexes of page within n items.
func Slice(n, page, pageSize int) (int, int) {
	start := Offset(page, pageSize)
	if start > n {
		start = n
	}
	end := n
	if pageSize >= 0 && pageSize < n-start {
		end = start + pageSize
	}
	return start, end
}

type Window struct {
	Pages            []int `json:"pages"`
	ShowFirst        bool  `json:"showFirst"`
	LeadingEllipsis  bool  `json:"leadingEllipsis"`
	ShowLast         bool  `json:"showLast"`
	TrailingEllipsis bool  `json:"trailingEllipsis"`
}

func (w Window) Start() int {
	if len(w.Pages) == 0 {
		return 0
	}
	return w.Pages[0]
}

func (w Window) End() int {
	if len(w.Pages) == 0 {
		return 0
	}
	return w.Pages[len(w.Pages)-1]
}

// NewWindow lays out at most MaxVisiblePages page numbers around current.
// The first page is pinned (with an ellipsis when there is a gap) once the
// window moves past it, and the last page likewise.
func NewWindow(current, totalPages int) Window {
	if totalPages < 1 {
		return Window{}
	}
	current = Clamp(current, totalPages)

	var start, end int
	if totalPages <= MaxVisiblePages {
		start, end = 1, totalPages
	} else {
		before := MaxVisiblePages / 2
		after := (MaxVisiblePages+1)/2 - 1
		switch {
		case current <= before:
			start, end = 1, MaxVisiblePages
		case current+after >= totalPages:
			start, end = totalPages-MaxVisiblePages+1, totalPages
		default:
			start, end = current-before, current+after
		}
	}

	w := Window{Pages: make([]int, 0, end-start+1)}
	for i := start; i <= end; i++ {
		w.Pages = append(w.Pages, i)
	}
	if start > 1 {
		w.ShowFirst = true
		w.LeadingEllipsis = start > 2
	}
	if end < totalPages {
		w.ShowLast = true
		w.TrailingEllipsis = end < totalPages-1
	}
	return w
}
