package service

import "math"

// MaxPage bounds the page number so OFFSET arithmetic stays in range.
const MaxPage = math.MaxInt32

// Paging clamps client supplied page parameters.
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// DefaultPaging is 20 per page, at most 100.
var DefaultPaging = Paging{DefaultSize: 20, MaxSize: 100}

// Clamp maps non-positive values to page 1 / DefaultSize, caps the size at MaxSize
// and the page at MaxPage.
func (p Paging) Clamp(page, pageSize int) (int, int) {
	if p.DefaultSize <= 0 {
		p = DefaultPaging
	}
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize < 1 {
		pageSize = p.DefaultSize
	}
	if p.MaxSize > 0 && pageSize > p.MaxSize {
		pageSize = p.MaxSize
	}
	return page, pageSize
}
