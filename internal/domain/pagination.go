package domain

// PaginationParams holds offset-based pagination parameters for list queries.
// Page is 1-based as received over HTTP.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * PageSize.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// ZeroBasedPage converts the 1-based page to the index used by PagedResult.
func (p PaginationParams) ZeroBasedPage() int {
	if p.Page < 1 {
		return 0
	}
	return p.Page - 1
}

// PagedResult is one page of an ordered result. Page is 0-based.
type PagedResult[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
}

// TotalPages is ceil(TotalItems/PageSize), never less than 1.
func (p PagedResult[T]) TotalPages() int {
	if p.PageSize <= 0 || p.TotalItems == 0 {
		return 1
	}
	return (p.TotalItems + p.PageSize - 1) / p.PageSize
}

func (p PagedResult[T]) HasNext() bool     { return p.Page+1 < p.TotalPages() }
func (p PagedResult[T]) HasPrevious() bool { return p.Page > 0 }

// Paginate slices items (already filtered and ordered) into page/pageSize.
// A page past the end yields no items but keeps TotalItems.
func Paginate[T any](items []T, page, pageSize int) PagedResult[T] {
	if page < 0 {
		page = 0
	}
	res := PagedResult[T]{Items: []T{}, Page: page, PageSize: pageSize, TotalItems: len(items)}
	if pageSize <= 0 {
		return res
	}
	start := page * pageSize
	if start >= len(items) {
		return res
	}
	end := min(start+pageSize, len(items))
	res.Items = append(res.Items, items[start:end]...)
	return res
}
