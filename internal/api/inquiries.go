package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/polestar/storefront/internal/domain"
	"github.com/polestar/storefront/internal/webserver"
)

func (h *Handler) registerInquiryRoutes(s *webserver.Server) {
	s.ApiPOST("/inquiries", h.createInquiry)
}

func (h *Handler) createInquiry(c echo.Context) error {
	var payload domain.InquiryInput
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse inquiry", err.Error())
	}
	payload = payload.Normalize()
	if err := c.Validate(&payload); err != nil {
		return invalid(c, err)
	}

	inq, err := h.store.CreateInquiry(c.Request().Context(), payload)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create inquiry", err.Error())
	}
	if h.events != nil {
		h.events.PublishInquiryCreated(*inq)
	}
	return created(c, inq)
}
