package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/polestar/storefront/internal/domain"
	"github.com/polestar/storefront/internal/webserver"
)

// Claims are carried by back-office tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) registerAuthRoutes(s *webserver.Server) {
	s.ApiPOST("/auth/login", h.login)
}

func (h *Handler) login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login", err.Error())
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if err := c.Validate(&payload); err != nil {
		return invalid(c, err)
	}

	user, err := h.store.GetUserByUsername(c.Request().Context(), payload.Username)
	if errors.Is(err, domain.ErrNotFound) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query user", err.Error())
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	token, expires, err := h.issueToken(user)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}
	return ok(c, tokenResponse{Token: token, ExpiresAt: expires})
}

func (h *Handler) issueToken(user *domain.User) (string, time.Time, error) {
	ttl := time.Duration(h.auth.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	now := time.Now()
	expires := now.Add(ttl)
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.auth.JwtSecret))
	return signed, expires, err
}

// requireToken validates the bearer token and stores it under "user".
func (h *Handler) requireToken() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(h.auth.JwtSecret),
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(Claims)
		},
	})
}

// requireRole rejects tokens whose role differs from role.
func requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing token", nil)
			}
			claims, ok := token.Claims.(*Claims)
			if !ok || claims.Role != role {
				return fail(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", nil)
			}
			return next(c)
		}
	}
}
