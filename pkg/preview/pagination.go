// pkg/preview/pagination.go
package preview

import (
	"github.com/insightlab/dataprep/pkg/model"
)

// DefaultPageSize matches the dashboard's five rows per page
const DefaultPageSize = 5

// Pager slices a preview's row collection for display
type Pager struct {
	pageSize int
}

// NewPager creates a pager; a non-positive size falls back to the default
func NewPager(pageSize int) Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Pager{pageSize: pageSize}
}

// PageSize returns the configured rows per page
func (p Pager) PageSize() int {
	return p.pageSize
}

// PageCount returns the number of pages for the given row count. An empty
// collection still has one (empty) page.
func (p Pager) PageCount(totalRows int) int {
	if totalRows <= 0 {
		return 1
	}
	return (totalRows + p.pageSize - 1) / p.pageSize
}

// Clamp restricts a 1-indexed page number to the valid range for the given
// row count
func (p Pager) Clamp(page, totalRows int) int {
	if page < 1 {
		return 1
	}
	if last := p.PageCount(totalRows); page > last {
		return last
	}
	return page
}

// Slice returns the rows of the requested page and the page number actually
// used after clamping
func (p Pager) Slice(rows []model.Row, page int) ([]model.Row, int) {
	page = p.Clamp(page, len(rows))

	start := p.pageSize * (page - 1)
	end := start + p.pageSize
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}

	return rows[start:end], page
}
