package domain

import "strings"

// ProductFilter selects products from the catalog. The zero value matches
// every product and applies no pagination.
//
// Filters compose with AND. Search is matched after the category and featured
// restrictions; Offset and Limit are applied last, over the filtered sequence
// in creation order. A Limit of 0 means no limit.
type ProductFilter struct {
	CategoryID *int64
	Featured   bool
	Search     string
	Limit      int
	Offset     int
}

func (f ProductFilter) Validate() error {
	if f.Limit < 0 {
		return Invalid("limit must be non-negative")
	}
	if f.Offset < 0 {
		return Invalid("offset must be non-negative")
	}
	if f.CategoryID != nil && *f.CategoryID <= 0 {
		return Invalid("categoryId must be positive")
	}
	return nil
}

// SearchTerm is the lower-cased search string. Whitespace is significant;
// an empty term matches everything.
func (f ProductFilter) SearchTerm() string {
	return strings.ToLower(f.Search)
}

// Matches reports whether p passes the category, featured and search filters.
func (f ProductFilter) Matches(p Product) bool {
	if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
		return false
	}
	if f.Featured && !p.Featured {
		return false
	}
	term := f.SearchTerm()
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), term)
}

// Window returns the [start, end) bounds of the page within n filtered items.
func (f ProductFilter) Window(n int) (int, int) {
	start := f.Offset
	if start > n {
		start = n
	}
	end := n
	if f.Limit > 0 && start+f.Limit < n {
		end = start + f.Limit
	}
	return start, end
}

// Apply filters and paginates products, which must already be in creation order.
func (f ProductFilter) Apply(products []Product) []Product {
	matched := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			matched = append(matched, p)
		}
	}
	start, end := f.Window(len(matched))
	return matched[start:end]
}

// Unpaged drops Offset and Limit, leaving only the selection criteria.
func (f ProductFilter) Unpaged() ProductFilter {
	f.Limit = 0
	f.Offset = 0
	return f
}
