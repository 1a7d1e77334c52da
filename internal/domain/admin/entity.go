// internal/domain/admin/entity.go
package admin

import "storefront/internal/domain/auth"

// Page is the conventional paginated list object.
type Page[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// MaxPerPage bounds the page size accepted from callers.
const MaxPerPage = 100

// NewPage slices items for the given 1-based page. perPage is clamped to
// [1, MaxPerPage]; a page past the end yields an empty Data.
func NewPage[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = 15
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page <= 0 {
		page = 1
	}
	total := len(items)
	last := (total + perPage - 1) / perPage
	if last == 0 {
		last = 1
	}
	start := total
	if page <= last {
		start = (page - 1) * perPage
	}
	end := total
	if total-start > perPage {
		end = start + perPage
	}
	return Page[T]{
		Data:        append([]T{}, items[start:end]...),
		CurrentPage: page,
		LastPage:    last,
		PerPage:     perPage,
		Total:       total,
	}
}

// DashboardStats backs the admin dashboard counters.
type DashboardStats struct {
	Users       int            `json:"users"`
	UsersByRole map[string]int `json:"users_by_role"`
	Products    int            `json:"products"`
	OutOfStock  int            `json:"out_of_stock"`
	Bills       int            `json:"bills"`
	Revenue     string         `json:"revenue"`
}

// UserRecord is a user as stored by the backend, with its credential hash.
type UserRecord struct {
	auth.User
	PasswordHash string `json:"-"`
}
