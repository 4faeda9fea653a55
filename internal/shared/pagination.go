package shared

import "math"

// Pagination contains metadata for paginated listings. The upstream is the
// authority for totals; NewPagination only fills the gaps when a response
// omits derived fields.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// HasNext reports whether a further page exists. The "next" control is
// disabled once page reaches totalPages.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (p Pagination) HasPrev() bool {
	return p.Page > 1
}
