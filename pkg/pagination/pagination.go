// Package pagination slices list endpoints into pages driven by the page and
// per_page query parameters.
package pagination

import (
	"math"
	"net/url"
	"strconv"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int
	PerPage int
}

// Offset is the index of the first element on the page. It saturates at
// math.MaxInt instead of overflowing for very large pages.
func (p Params) Offset() int {
	if p.PerPage > 0 && p.Page-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PerPage
}

// FromQuery reads page and per_page from q. Absent parameters take their
// defaults; present ones must be positive integers and per_page is capped at
// MaxPerPage. Malformed values yield an INVALID_PARAMETER error.
func FromQuery(q url.Values) (Params, error) {
	p := Params{Page: 1, PerPage: DefaultPerPage}

	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return Params{}, apperrors.InvalidParameter("page", raw)
		}
		p.Page = v
	}

	if raw := q.Get("per_page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return Params{}, apperrors.InvalidParameter("per_page", raw)
		}
		p.PerPage = min(v, MaxPerPage)
	}

	return p, nil
}

// Page is one page of a list together with its position in the whole.
type Page[T any] struct {
	Items      []T  `json:"items"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Slice cuts the requested page out of all. A page past the end is empty,
// never nil, so it encodes as [].
func Slice[T any](all []T, p Params) Page[T] {
	total := len(all)
	totalPages := (total + p.PerPage - 1) / p.PerPage

	start := min(p.Offset(), total)
	end := min(start+p.PerPage, total)
	items := make([]T, end-start)
	copy(items, all[start:end])

	return Page[T]{
		Items:      items,
		TotalCount: total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}
