package api

import (
	"net/http"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/polestar/storefront/internal/domain"
	"github.com/polestar/storefront/internal/webserver"
)

// registerAdminRoutes registers the back-office catalog and inquiry routes
func (h *Handler) registerAdminRoutes(s *webserver.Server) {
	g := s.Group("/admin", h.requireToken(), requireRole(domain.RoleAdmin))
	g.POST("/categories", h.createCategory)
	g.POST("/products", h.createProduct)
	g.PUT("/products/:id", h.updateProduct)
	g.DELETE("/products/:id", h.deleteProduct)
	g.GET("/inquiries", h.listInquiries)
	g.GET("/inquiries/export", h.exportInquiries)
}

func (h *Handler) createCategory(c echo.Context) error {
	var payload domain.CategoryInput
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Slug = strings.TrimSpace(payload.Slug)
	if err := c.Validate(&payload); err != nil {
		return invalid(c, err)
	}
	cat, err := h.store.CreateCategory(c.Request().Context(), payload)
	if err != nil {
		return storeError(c, err, "Category")
	}
	return created(c, cat)
}

func (h *Handler) createProduct(c echo.Context) error {
	var payload domain.ProductInput
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Slug = strings.TrimSpace(payload.Slug)
	payload.ImageURL = strings.TrimSpace(payload.ImageURL)
	if err := c.Validate(&payload); err != nil {
		return invalid(c, err)
	}
	p, err := h.store.CreateProduct(c.Request().Context(), payload)
	if err != nil {
		return storeError(c, err, "Product")
	}
	return created(c, p)
}

func (h *Handler) updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload domain.ProductPatch
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return invalid(c, err)
	}
	p, err := h.store.UpdateProduct(c.Request().Context(), id, payload)
	if err != nil {
		return storeError(c, err, "Product")
	}
	return ok(c, p)
}

func (h *Handler) deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	deleted, err := h.store.DeleteProduct(c.Request().Context(), id)
	if err != nil {
		return storeError(c, err, "Product")
	}
	if !deleted {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}

func (h *Handler) listInquiries(c echo.Context) error {
	rows, err := h.store.ListInquiries(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch inquiries", err.Error())
	}
	return ok(c, rows)
}

func (h *Handler) exportInquiries(c echo.Context) error {
	rows, err := h.store.ListInquiries(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch inquiries", err.Error())
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export inquiries", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="inquiries.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}
