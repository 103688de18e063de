package request

import "blog-platform/pkg/utils"

// PaginatedRequest carries the page/per_page query values. Out of range values
// are clamped, never rejected.
type PaginatedRequest struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Clamped returns page >= 1 and perPage in [1, 100].
func (p PaginatedRequest) Clamped() (page, perPage int) {
	return utils.ClampPage(p.Page, p.PerPage)
}

// Offset is the row offset of the clamped page.
func (p PaginatedRequest) Offset() int {
	page, perPage := p.Clamped()
	return utils.CalculateOffset(page, perPage)
}
