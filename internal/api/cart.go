package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/polestar/storefront/internal/cart"
	"github.com/polestar/storefront/internal/domain"
	"github.com/polestar/storefront/internal/webserver"
)

const (
	cartSessionName = "storefront_cart"
	cartLinesKey    = "lines"
)

// cartLine is what the cookie keeps; products are re-read on every request.
type cartLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type cartView struct {
	Items    []cart.Item `json:"items"`
	Count    int         `json:"count"`
	Subtotal int64       `json:"subtotal"`
}

type addItemPayload struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

type quantityPayload struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func (h *Handler) registerCartRoutes(s *webserver.Server) {
	s.ApiGET("/cart", h.getCart)
	s.ApiPOST("/cart/items", h.addCartItem)
	s.ApiPUT("/cart/items/:productId", h.updateCartItem)
	s.ApiDELETE("/cart/items/:productId", h.removeCartItem)
}

// loadCart rebuilds the session cart. Products that no longer exist are dropped.
func (h *Handler) loadCart(c echo.Context) (*sessions.Session, *cart.Store, error) {
	sess, err := h.sessions.Get(c.Request(), cartSessionName)
	if err != nil {
		// an undecodable cookie yields a fresh session
		zap.L().Debug("discarding cart session", zap.Error(err))
	}
	var lines []cartLine
	if raw, ok := sess.Values[cartLinesKey].(string); ok {
		if err := json.Unmarshal([]byte(raw), &lines); err != nil {
			lines = nil
		}
	}

	state := cart.State{Items: []cart.Item{}}
	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		p, err := h.store.GetProduct(c.Request().Context(), line.ProductID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		} else if err != nil {
			return nil, nil, err
		}
		state.Items = append(state.Items, cart.Item{Product: *p, Quantity: line.Quantity})
	}
	return sess, cart.NewStore(state), nil
}

func (h *Handler) saveCart(c echo.Context, sess *sessions.Session, state cart.State) error {
	lines := make([]cartLine, 0, len(state.Items))
	for _, it := range state.Items {
		lines = append(lines, cartLine{ProductID: it.Product.ID, Quantity: it.Quantity})
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	sess.Values[cartLinesKey] = string(raw)
	return sess.Save(c.Request(), c.Response())
}

func renderCart(c echo.Context, state cart.State) error {
	items := state.Items
	if items == nil {
		items = []cart.Item{}
	}
	return ok(c, cartView{Items: items, Count: state.Count(), Subtotal: state.Subtotal()})
}

// dispatch loads the cart, applies action and persists the result.
// A nil action only re-saves the cart, pruning deleted products.
func (h *Handler) dispatch(c echo.Context, action cart.Action) error {
	sess, store, err := h.loadCart(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load cart", err.Error())
	}
	state := store.State()
	if action != nil {
		state = store.Dispatch(action)
	}
	if err := h.saveCart(c, sess, state); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to save cart", err.Error())
	}
	return renderCart(c, state)
}

func (h *Handler) getCart(c echo.Context) error {
	return h.dispatch(c, nil)
}

func (h *Handler) addCartItem(c echo.Context) error {
	var payload addItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return invalid(c, err)
	}
	p, err := h.store.GetProduct(c.Request().Context(), payload.ProductID)
	if err != nil {
		return storeError(c, err, "Product")
	}
	return h.dispatch(c, cart.AddItem{Product: *p})
}

func (h *Handler) updateCartItem(c echo.Context) error {
	id, err := parseIDParam(c, "productId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload quantityPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quantity", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return invalid(c, err)
	}
	return h.dispatch(c, cart.UpdateQuantity{ProductID: id, Quantity: *payload.Quantity})
}

func (h *Handler) removeCartItem(c echo.Context) error {
	id, err := parseIDParam(c, "productId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	return h.dispatch(c, cart.RemoveItem{ProductID: id})
}
