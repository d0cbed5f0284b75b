// Package pagination holds the two list controllers used by the API:
// numbered pages for admin tables and a growing window for browse rows.
package pagination

// All is the page size that shows every row on a single page.
const All = -1

// Pager tracks a numbered page over a list of Total rows.
type Pager struct {
	Total    int
	PageSize int
	Page     int
}

// NewPager returns a pager positioned on the first page.
func NewPager(total, pageSize int) *Pager {
	if pageSize == 0 {
		pageSize = All
	}
	return &Pager{Total: total, PageSize: pageSize, Page: 1}
}

// TotalPages is ceil(Total/PageSize), never less than one.
func (p *Pager) TotalPages() int {
	if p.PageSize <= 0 || p.Total <= 0 {
		return 1
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// Goto moves to page n. Pages outside [1, TotalPages] are ignored.
func (p *Pager) Goto(n int) bool {
	if n < 1 || n > p.TotalPages() {
		return false
	}
	p.Page = n
	return true
}

func (p *Pager) Next() bool  { return p.Goto(p.Page + 1) }
func (p *Pager) Prev() bool  { return p.Goto(p.Page - 1) }
func (p *Pager) First() bool { return p.Goto(1) }
func (p *Pager) Last() bool  { return p.Goto(p.TotalPages()) }

// SetPageSize changes the page size and returns to the first page.
func (p *Pager) SetPageSize(size int) {
	if size == 0 || size < All {
		size = All
	}
	p.PageSize = size
	p.Page = 1
}

// Bounds returns the half-open [start, end) slice range of the current page.
func (p *Pager) Bounds() (int, int) {
	if p.PageSize <= 0 {
		return 0, max(p.Total, 0)
	}
	start := (p.Page - 1) * p.PageSize
	if start > p.Total {
		start = p.Total
	}
	end := start + p.PageSize
	if end > p.Total {
		end = p.Total
	}
	return start, end
}

// Page returns the current page of items.
func Page[T any](p *Pager, items []T) []T {
	start, end := p.Bounds()
	if end > len(items) {
		end = len(items)
	}
	if start > end {
		start = end
	}
	return items[start:end]
}

// Window is an infinite-scroll counter. Visible only grows, by Step per
// Advance, and never exceeds Total.
type Window struct {
	Total   int
	Step    int
	Visible int
}

// NewWindow returns a window showing the first step (or everything when
// the list is shorter).
func NewWindow(total, step int) *Window {
	w := &Window{Total: total, Step: step}
	w.Advance()
	return w
}

// Advance reveals the next Step items.
func (w *Window) Advance() {
	if w.Step <= 0 {
		w.Visible = w.Total
		return
	}
	w.Visible = min(w.Visible+w.Step, w.Total)
}

// AdvanceTo grows the window until at least n items are visible.
func (w *Window) AdvanceTo(n int) {
	for w.Visible < n && w.HasMore() {
		w.Advance()
	}
}

// HasMore reports whether another Advance would reveal items.
func (w *Window) HasMore() bool {
	return w.Visible < w.Total
}

// Visible returns the visible prefix of items.
func Visible[T any](w *Window, items []T) []T {
	return items[:min(w.Visible, len(items))]
}
