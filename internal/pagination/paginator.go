// Package pagination splits ordered result sets into fixed-size, 1-indexed pages.
package pagination

import "strconv"

// Window locates one page inside a result set of known size.
type Window struct {
	Number     int
	Offset     int
	Limit      int
	TotalPages int
}

// Page is one slice of an ordered result set plus navigation metadata.
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page"`
	Size       int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ParsePage reads a page number from a query parameter.
// Missing, malformed, zero and negative values all mean page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Locate clamps requested into [1, TotalPages] and returns the matching offset and limit.
// An empty result set still has one (empty) page.
func Locate(total, requested, size int) Window {
	if size < 1 {
		size = 1
	}
	if total < 0 {
		total = 0
	}

	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}

	return Window{
		Number:     number,
		Offset:     (number - 1) * size,
		Limit:      size,
		TotalPages: pages,
	}
}

// Paginate returns the requested page of items.
func Paginate[T any](items []T, requested, size int) Page[T] {
	w := Locate(len(items), requested, size)

	end := w.Offset + w.Limit
	if end > len(items) {
		end = len(items)
	}
	start := w.Offset
	if start > end {
		start = end
	}

	return NewPage(items[start:end], w, len(items), size)
}

// NewPage wraps items already fetched for w, such as a LIMIT/OFFSET query result.
func NewPage[T any](items []T, w Window, total, size int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Number:     w.Number,
		Size:       size,
		Total:      total,
		TotalPages: w.TotalPages,
	}
}

// Len is the number of items on this page.
func (p Page[T]) Len() int { return len(p.Items) }

func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

func (p Page[T]) HasPrevious() bool { return p.Number > 1 }

// HasOtherPages reports whether navigation controls are needed at all.
func (p Page[T]) HasOtherPages() bool { return p.HasNext() || p.HasPrevious() }

func (p Page[T]) NextNumber() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.Number
}

func (p Page[T]) PreviousNumber() int {
	if p.HasPrevious() {
		return p.Number - 1
	}
	return p.Number
}

// Pages lists every page number, for rendering navigation.
func (p Page[T]) Pages() []int {
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
