package domain

// Page sizes for paged listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest selects one page of a listing. Page is 1-based.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest builds a PageRequest from optional query values.
// Missing or non-positive values take page 1 and DefaultPageSize;
// Limit never exceeds MaxPageSize.
func NewPageRequest(page, limit *int) PageRequest {
	p := PageRequest{Page: 1, Limit: DefaultPageSize}
	if page != nil && *page > 0 {
		p.Page = *page
	}
	if limit != nil && *limit > 0 {
		p.Limit = min(*limit, MaxPageSize)
	}
	return p
}

// Window returns the half-open bounds [lo, hi) of the page within n items.
// A page past the end yields lo == hi == n.
func (p PageRequest) Window(n int) (lo, hi int) {
	lo = min((p.Page-1)*p.Limit, n)
	hi = min(lo+p.Limit, n)
	return lo, hi
}
