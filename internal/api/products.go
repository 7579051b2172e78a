package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/polestar/storefront/internal/domain"
	"github.com/polestar/storefront/internal/webserver"
)

func (h *Handler) registerProductRoutes(s *webserver.Server) {
	s.ApiGET("/products", h.listProducts)
	s.ApiGET("/products/:slug", h.getProduct)
}

// listProducts accepts categoryId, featured, search, limit and page. The
// total number of matches is returned in X-Total-Count.
func (h *Handler) listProducts(c echo.Context) error {
	q, err := domain.ParseProductQuery(c.QueryParams())
	if errors.Is(err, domain.ErrUnknownParameter) {
		return fail(c, http.StatusBadRequest, "UNKNOWN_PARAMETER", err.Error(), nil)
	} else if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_QUERY", err.Error(), nil)
	}

	ctx := c.Request().Context()
	filter := q.Filter()
	total, err := h.store.CountProducts(ctx, filter)
	if err != nil {
		return storeError(c, err, "Products")
	}
	rows, err := h.store.ListProducts(ctx, filter)
	if err != nil {
		return storeError(c, err, "Products")
	}
	c.Response().Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	return ok(c, rows)
}

func (h *Handler) getProduct(c echo.Context) error {
	p, err := h.store.GetProductBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return storeError(c, err, "Product")
	}
	return ok(c, p)
}
