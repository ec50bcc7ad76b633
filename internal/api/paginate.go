package api

import (
	"errors"
	"net/http"
	"strconv"
)

const (
	defaultPage    = 1
	defaultPerPage = 5
)

// errBadPagination is returned when page or per_page is present but not a
// positive integer.
var errBadPagination = errors.New("page and per_page must be positive integers")

// Meta is the pagination block of every list envelope. PrevPage and NextPage
// are null when there is no such page.
type Meta struct {
	Page       int  `json:"page"`
	Pages      int  `json:"pages"`
	TotalCount int  `json:"total_count"`
	PrevPage   *int `json:"prev_page"`
	NextPage   *int `json:"next_page"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Paginate computes pagination metadata from a total row count and the
// requested window. Pages past the end produce consistent metadata with
// HasNext false rather than an error.
func Paginate(total, page, perPage int) Meta {
	pages := 0
	if total > 0 {
		pages = (total + perPage - 1) / perPage
	}

	m := Meta{
		Page:       page,
		Pages:      pages,
		TotalCount: total,
		HasPrev:    page > 1,
		HasNext:    page < pages,
	}
	if m.HasPrev {
		prev := page - 1
		m.PrevPage = &prev
	}
	if m.HasNext {
		next := page + 1
		m.NextPage = &next
	}
	return m
}

// parsePagination extracts page and per_page from query parameters, with
// defaults 1 and 5. Non-integer or non-positive values are a validation error.
func parsePagination(r *http.Request) (page, perPage int, err error) {
	page, perPage = defaultPage, defaultPerPage

	if v := r.URL.Query().Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, errBadPagination
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		perPage, err = strconv.Atoi(v)
		if err != nil || perPage < 1 {
			return 0, 0, errBadPagination
		}
	}
	return page, perPage, nil
}
