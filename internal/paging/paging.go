// Package paging windows an in-memory list into fixed-size pages.
package paging

// Paginator holds a list and the current page number. Everything else is
// derived on demand.
type Paginator[T any] struct {
	data    []T
	perPage int
	current int
}

// New creates a paginator. nil data is treated as empty; perPage below 1
// becomes 1; initialPage is clamped into range.
func New[T any](data []T, perPage, initialPage int) *Paginator[T] {
	if perPage < 1 {
		perPage = 1
	}
	p := &Paginator[T]{data: data, perPage: perPage, current: 1}
	if initialPage >= 1 && initialPage <= p.TotalPages() {
		p.current = initialPage
	}
	return p
}

// TotalItems returns the list length.
func (p *Paginator[T]) TotalItems() int {
	return len(p.data)
}

// PerPage returns the page size.
func (p *Paginator[T]) PerPage() int {
	return p.perPage
}

// TotalPages is ceil(len/perPage). An empty list has zero pages.
func (p *Paginator[T]) TotalPages() int {
	return (len(p.data) + p.perPage - 1) / p.perPage
}

// CurrentPage is 1-based.
func (p *Paginator[T]) CurrentPage() int {
	return p.current
}

// StartIndex is the inclusive start of the current window.
func (p *Paginator[T]) StartIndex() int {
	return (p.current - 1) * p.perPage
}

// EndIndex is the exclusive end of the current window.
func (p *Paginator[T]) EndIndex() int {
	end := p.StartIndex() + p.perPage
	if end > len(p.data) {
		end = len(p.data)
	}
	return end
}

// CurrentItems returns the current window. It shares the backing array.
func (p *Paginator[T]) CurrentItems() []T {
	start := p.StartIndex()
	if start >= len(p.data) {
		return []T{}
	}
	return p.data[start:p.EndIndex()]
}

// GoToPage moves to page n; pages outside [1, TotalPages] are ignored.
func (p *Paginator[T]) GoToPage(n int) {
	if n < 1 || n > p.TotalPages() {
		return
	}
	p.current = n
}

func (p *Paginator[T]) NextPage() {
	p.GoToPage(p.current + 1)
}

func (p *Paginator[T]) PrevPage() {
	p.GoToPage(p.current - 1)
}

func (p *Paginator[T]) CanGoNext() bool {
	return p.current < p.TotalPages()
}

func (p *Paginator[T]) CanGoPrev() bool {
	return p.current > 1
}

// Page is the JSON shape of one window.
type Page[T any] struct {
	Items       []T  `json:"items"`
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	PerPage     int  `json:"itemsPerPage"`
	StartIndex  int  `json:"startIndex"`
	EndIndex    int  `json:"endIndex"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// Snapshot captures the current window.
func (p *Paginator[T]) Snapshot() Page[T] {
	return Page[T]{
		Items:       p.CurrentItems(),
		CurrentPage: p.current,
		TotalPages:  p.TotalPages(),
		TotalItems:  len(p.data),
		PerPage:     p.perPage,
		StartIndex:  p.StartIndex(),
		EndIndex:    p.EndIndex(),
		HasNext:     p.CanGoNext(),
		HasPrev:     p.CanGoPrev(),
	}
}
