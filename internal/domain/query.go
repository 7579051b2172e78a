package domain

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var ErrUnknownParameter = errors.New("unknown parameter")

// ProductQuery is the typed form of the product list query string.
type ProductQuery struct {
	CategoryID *int64
	Featured   bool
	Search     string
	Limit      int
	Page       int
}

var productQueryKeys = map[string]bool{
	"categoryId": true,
	"featured":   true,
	"search":     true,
	"limit":      true,
	"page":       true,
}

// ParseProductQuery converts query values to a ProductQuery. Unrecognised
// keys are rejected with ErrUnknownParameter, malformed values with
// ErrInvalidArgument. limit defaults to DefaultPageSize and page to 1.
func ParseProductQuery(values url.Values) (ProductQuery, error) {
	q := ProductQuery{Limit: DefaultPageSize, Page: 1}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !productQueryKeys[k] {
			return q, fmt.Errorf("%w: %q", ErrUnknownParameter, k)
		}
		if len(values[k]) > 1 {
			return q, Invalid("%s given more than once", k)
		}
	}

	if v := strings.TrimSpace(values.Get("categoryId")); v != "" {
		id, err := parseDecimal(v)
		if err != nil || id <= 0 {
			return q, Invalid("categoryId must be a positive integer")
		}
		q.CategoryID = &id
	}
	switch v := values.Get("featured"); v {
	case "", "false":
	case "true":
		q.Featured = true
	default:
		return q, Invalid("featured must be true or false")
	}
	// the term is matched as given; only an empty value disables the search
	q.Search = values.Get("search")
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		n, err := parseDecimal(v)
		if err != nil || n < 1 || n > MaxPageSize {
			return q, Invalid("limit must be between 1 and %d", MaxPageSize)
		}
		q.Limit = int(n)
	}
	if v := strings.TrimSpace(values.Get("page")); v != "" {
		n, err := parseDecimal(v)
		if err != nil || n < 1 {
			return q, Invalid("page must be a positive integer")
		}
		if n-1 > int64(math.MaxInt/q.Limit) {
			return q, Invalid("page is out of range")
		}
		q.Page = int(n)
	}
	return q, nil
}

// parseDecimal accepts base-10 digits only. cast alone would read "010" as
// octal and "0x5" as hex.
func parseDecimal(v string) (int64, error) {
	for _, r := range v {
		if r < '0' || r > '9' {
			return 0, Invalid("%q is not a decimal number", v)
		}
	}
	if trimmed := strings.TrimLeft(v, "0"); trimmed != "" {
		v = trimmed
	} else {
		v = "0"
	}
	return cast.ToInt64E(v)
}

// Filter converts the page-based query to an offset-based filter.
func (q ProductQuery) Filter() ProductFilter {
	return ProductFilter{
		CategoryID: q.CategoryID,
		Featured:   q.Featured,
		Search:     q.Search,
		Limit:      q.Limit,
		Offset:     (q.Page - 1) * q.Limit,
	}
}
