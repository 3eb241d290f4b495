package pagination

// Params holds page-number pagination inputs. A zero PageSize means "no
// limit": the entire matching set is returned as a single page. Admin
// fetch-all callers rely on that fallback.
type Params struct {
	Page     int
	PageSize int
}

// Meta describes the slice a query returned.
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size,omitempty"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// Normalize clamps the page to at least 1 and a negative page size to zero.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 0 {
		p.PageSize = 0
	}
	return p
}

// Unlimited reports whether the caller asked for the whole result set.
func (p Params) Unlimited() bool {
	return p.PageSize <= 0
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	if n.Unlimited() {
		return 0
	}
	return (n.Page - 1) * n.PageSize
}

// MetaFor computes page metadata for a total row count.
func (p Params) MetaFor(total int64) Meta {
	n := p.Normalize()
	if n.Unlimited() {
		return Meta{Page: 1, TotalCount: total, TotalPages: 1}
	}
	pages := int((total + int64(n.PageSize) - 1) / int64(n.PageSize))
	if pages < 1 {
		pages = 1
	}
	return Meta{
		Page:       n.Page,
		PageSize:   n.PageSize,
		TotalCount: total,
		TotalPages: pages,
	}
}
