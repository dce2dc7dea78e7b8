package shared

// Filter holds common list query options shared by all repositories
type Filter struct {
	Search   string
	Filters  map[string]interface{}
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	if f.Page <= 0 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// HasPagination reports whether pagination was requested
func (f Filter) HasPagination() bool {
	return f.Page > 0 && f.PageSize > 0
}
