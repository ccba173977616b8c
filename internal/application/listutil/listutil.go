// Package listutil pages list views such as the admin profile table.
package listutil

import (
	"net/url"
	"strconv"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100}

// PageParams carries pagination parameters parsed from a request.
// The zero value means "no paging": every row on one page.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int
}

// Enabled reports whether p asks for a page rather than the full list.
func (p PageParams) Enabled() bool {
	return p.PerPage > 0
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ParsePageParams extracts page and per_page from URL query values.
// An unknown per_page falls back to DefaultPerPage.
// POST: returns PageParams with Page >= 1 and PerPage one of PerPageOptions
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !isValidPerPage(perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// ParseOptionalPageParams is ParsePageParams for endpoints that list everything
// unless the client asks for a page.
func ParseOptionalPageParams(q url.Values) PageParams {
	if !q.Has("page") && !q.Has("per_page") {
		return PageParams{}
	}
	return ParsePageParams(q)
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: returns PageInfo with TotalPages >= 1 and Page clamped to [1, TotalPages]
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number on the current page, 0 when empty.
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
func (p PageInfo) EndRow() int {
	end := p.Offset() + p.PerPage
	if end > p.Total {
		end = p.Total
	}
	return end
}

// PrevPage returns the previous page number, or 0 on the first page.
func (p PageInfo) PrevPage() int {
	if p.Page <= 1 {
		return 0
	}
	return p.Page - 1
}

// NextPage returns the next page number, or 0 on the last page.
func (p PageInfo) NextPage() int {
	if p.Page >= p.TotalPages {
		return 0
	}
	return p.Page + 1
}

// PageNumbers returns at most five page numbers centred on the current page.
func (p PageInfo) PageNumbers() []int {
	const maxButtons = 5
	start := p.Page - maxButtons/2
	if start < 1 {
		start = 1
	}
	end := start + maxButtons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = end - maxButtons + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination returns true if pagination controls should be displayed.
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage
}

// Window returns the rows of items that fall on page info.
// The result aliases items.
func Window[T any](items []T, info PageInfo) []T {
	start := info.Offset()
	if start >= len(items) {
		return items[:0]
	}
	end := info.EndRow()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}
