package utils

import "strconv"

// Pagination bounds applied to every list endpoint.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination carries the clamped page/limit pair and the derived offset.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationParams parses the raw page/limit query values and clamps them:
// page >= 1 (default 1), limit in [1,100] (default 10). Invalid or absent
// values fall back to the defaults. Offset is (page-1)*limit.
func PaginationParams(pageRaw, limitRaw string) Pagination {
	page := DefaultPage
	if n, err := strconv.Atoi(pageRaw); err == nil && n >= 1 {
		page = n
	}
	limit := DefaultLimit
	if n, err := strconv.Atoi(limitRaw); err == nil && n >= 1 {
		limit = n
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}
}
