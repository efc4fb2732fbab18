package domain

// PaginationParams holds offset-based pagination parameters for list queries.
// The zero value means "no pagination".
type PaginationParams struct {
	Page     int
	PageSize int
}

// IsSet reports whether a page size was requested.
func (p PaginationParams) IsSet() bool {
	return p.PageSize > 0
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * PageSize.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
