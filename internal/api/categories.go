package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/polestar/storefront/internal/webserver"
)

func (h *Handler) registerCategoryRoutes(s *webserver.Server) {
	s.ApiGET("/categories", h.listCategories)
	s.ApiGET("/categories/:slug", h.getCategory)
}

func (h *Handler) listCategories(c echo.Context) error {
	rows, err := h.store.ListCategories(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch categories", err.Error())
	}
	return ok(c, rows)
}

func (h *Handler) getCategory(c echo.Context) error {
	cat, err := h.store.GetCategoryBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return storeError(c, err, "Category")
	}
	return ok(c, cat)
}
