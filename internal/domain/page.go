package domain

// Paging defaults for the saved-trip listing. A library spanning years of
// scans accumulates trips faster than a single response should carry, so the
// listing is paged and the limit is capped.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams selects one page of the saved-trip listing.
// Page is 1-based.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams normalizes the optional page/limit query values.
// Nil or non-positive values fall back to page 1 and DefaultPageSize;
// the limit never exceeds MaxPageSize.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageSize}
	if page != nil && *page > 0 {
		p.Page = *page
	}
	if limit != nil && *limit > 0 {
		p.Limit = min(*limit, MaxPageSize)
	}
	return p
}

// Offset converts the page number into the row offset for LIMIT/OFFSET
// queries against the trips table.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
