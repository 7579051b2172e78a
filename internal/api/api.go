// Package api exposes the catalog, inquiry and cart stores over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/polestar/storefront/config"
	"github.com/polestar/storefront/internal/domain"
	"github.com/polestar/storefront/internal/events"
	"github.com/polestar/storefront/internal/storage"
	"github.com/polestar/storefront/internal/webserver"
)

// Handler serves the storefront API from an explicitly owned store.
type Handler struct {
	store    storage.Store
	events   *events.Bus
	auth     config.AuthConfig
	sessions sessions.Store
}

// NewHandler creates the API. bus may be nil, in which case no events are published.
func NewHandler(store storage.Store, bus *events.Bus, auth config.AuthConfig, sessionSecret string) *Handler {
	cookies := sessions.NewCookieStore([]byte(sessionSecret))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Handler{store: store, events: bus, auth: auth, sessions: cookies}
}

// Register mounts every route on s.
func (h *Handler) Register(s *webserver.Server) {
	s.ApiGET("/health", health)
	h.registerCategoryRoutes(s)
	h.registerProductRoutes(s)
	h.registerInquiryRoutes(s)
	h.registerCartRoutes(s)
	h.registerAuthRoutes(s)
	h.registerAdminRoutes(s)
}

func health(c echo.Context) error {
	return ok(c, map[string]string{"status": "ok"})
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

// fail writes the error body. detail is logged, never sent to the client.
func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	if detail != nil {
		fields := []zap.Field{
			zap.String("code", code),
			zap.String("uri", c.Request().RequestURI),
			zap.Any("detail", detail),
		}
		if status >= http.StatusInternalServerError {
			zap.L().Error(message, fields...)
		} else {
			zap.L().Debug(message, fields...)
		}
	}
	return c.JSON(status, webserver.ErrorBody{Code: code, Message: message})
}

func invalid(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, webserver.ErrorBody{
		Code:    "VALIDATION_ERROR",
		Message: "Request validation failed",
		Errors:  webserver.FieldErrors(err),
	})
}

// storeError maps store errors to responses; what names the entity in messages.
func storeError(c echo.Context, err error, what string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", what+" not found", nil)
	case errors.Is(err, domain.ErrConflict):
		return fail(c, http.StatusConflict, "CONFLICT", what+" with this slug already exists", nil)
	case errors.Is(err, domain.ErrInvalidReference):
		return fail(c, http.StatusBadRequest, "INVALID_REFERENCE", "categoryId does not reference an existing category", nil)
	case errors.Is(err, domain.ErrInvalidArgument):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	default:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to access "+what, err.Error())
	}
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("%s must be a positive integer", name)
	}
	return id, nil
}
