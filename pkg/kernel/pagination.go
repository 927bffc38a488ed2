package kernel

// PaginationOptions is a 1-based page request.
type PaginationOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Normalize clamps the options: page defaults to 1, size to def, and size is
// capped at max.
func (p PaginationOptions) Normalize(def, max int) PaginationOptions {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = def
	}
	if p.PageSize > max {
		p.PageSize = max
	}
	return p
}

func (p PaginationOptions) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type Page struct {
	Number int `json:"number"`
	Size   int `json:"size"`
	Total  int `json:"total"`
	Pages  int `json:"pages"`
}

type Paginated[T any] struct {
	Items   []T  `json:"items"`
	Page    Page `json:"page"`
	Empty   bool `json:"empty"`
	HasMore bool `json:"has_more"`
}

// NewPaginated builds a page. HasMore is true while rows remain past this
// page: offset + len(items) < total.
func NewPaginated[T any](items []T, opts PaginationOptions, total int) *Paginated[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if opts.PageSize > 0 {
		pages = (total + opts.PageSize - 1) / opts.PageSize
	}
	return &Paginated[T]{
		Items: items,
		Page: Page{
			Number: opts.Page,
			Size:   opts.PageSize,
			Total:  total,
			Pages:  pages,
		},
		Empty:   len(items) == 0,
		HasMore: opts.Offset()+len(items) < total,
	}
}
