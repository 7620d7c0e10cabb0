package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/antiquebooks/api/internal/cart"
	"github.com/antiquebooks/api/internal/catalog"
	"github.com/antiquebooks/api/internal/domain"
	"github.com/antiquebooks/api/internal/i18n"
	"github.com/antiquebooks/api/internal/platform/httpx"
	"github.com/antiquebooks/api/internal/view"
)

const (
	cartCookieName   = "cart_id"
	cartCookieMaxAge = 180 * 24 * 60 * 60
	maxCartBodySize  = 4 * 1024
)

// CartHandlers exposes the visitor cart endpoints. Visitors are identified by
// a cart_id cookie minted on first write.
type CartHandlers struct {
	carts     *cart.Store
	store     *catalog.Store
	projector *view.Projector
	bundle    *i18n.Bundle
	newID     func() string
}

// NewCartHandlers constructs handlers over the cart store and catalog.
func NewCartHandlers(carts *cart.Store, store *catalog.Store, projector *view.Projector, bundle *i18n.Bundle) *CartHandlers {
	return &CartHandlers{
		carts:     carts,
		store:     store,
		projector: projector,
		bundle:    bundle,
		newID:     func() string { return ulid.Make().String() },
	}
}

// Routes wires the /cart endpoints onto the provided router.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getCart)
	r.Delete("/", h.clearCart)
	r.Post("/items", h.addItem)
	r.Delete("/items/{itemID}", h.removeItem)
}

type cartLinePayload struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Quantity int    `json:"qty"`
	Missing  bool   `json:"missing,omitempty"`
}

type cartResponse struct {
	Locale        string            `json:"locale"`
	Lines         []cartLinePayload `json:"lines"`
	TotalQuantity int               `json:"total_quantity"`
	TotalPrice    string            `json:"total_price"`
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := h.cartID(r)
	locale := activeLocale(r, h.bundle)
	if !ok {
		writeJSONResponse(w, http.StatusOK, h.buildCartPayload(domain.Cart{}, locale))
		return
	}

	loaded := h.carts.Load(r.Context(), cartID)
	writeJSONResponse(w, http.StatusOK, h.buildCartPayload(loaded, locale))
}

type addItemRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"qty"`
}

func (h *CartHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return
	}

	var req addItemRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	itemID := strings.TrimSpace(req.ID)
	item, found := h.store.Item(itemID)
	if !found {
		httpx.WriteError(ctx, w, httpx.NewError("item_not_found", "item not found", http.StatusNotFound))
		return
	}

	// Availability gating lives here, not in the cart store: the store is a
	// pure quantity ledger.
	if !item.Available() {
		httpx.WriteError(ctx, w, httpx.NewError("item_not_available", "item is no longer available", http.StatusConflict))
		return
	}

	cartID, ok := h.cartID(r)
	if !ok {
		cartID = h.newID()
		h.setCartCookie(w, cartID)
	}

	updated, err := h.carts.Add(ctx, cartID, itemID, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidInput) {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("cart_error", "failed to update cart", http.StatusInternalServerError))
		return
	}

	locale := activeLocale(r, h.bundle)
	writeJSONResponse(w, http.StatusOK, h.buildCartPayload(updated, locale))
}

func (h *CartHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(chi.URLParam(r, "itemID"))
	locale := activeLocale(r, h.bundle)

	cartID, ok := h.cartID(r)
	if !ok {
		writeJSONResponse(w, http.StatusOK, h.buildCartPayload(domain.Cart{}, locale))
		return
	}

	updated := h.carts.Remove(r.Context(), cartID, itemID)
	writeJSONResponse(w, http.StatusOK, h.buildCartPayload(updated, locale))
}

func (h *CartHandlers) clearCart(w http.ResponseWriter, r *http.Request) {
	locale := activeLocale(r, h.bundle)

	if cartID, ok := h.cartID(r); ok {
		h.carts.Clear(r.Context(), cartID)
	}
	writeJSONResponse(w, http.StatusOK, h.buildCartPayload(domain.Cart{}, locale))
}

func (h *CartHandlers) cartID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(cartCookieName)
	if err != nil {
		return "", false
	}
	id := strings.TrimSpace(cookie.Value)
	return id, id != ""
}

func (h *CartHandlers) setCartCookie(w http.ResponseWriter, cartID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    cartID,
		Path:     "/",
		MaxAge:   cartCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *CartHandlers) buildCartPayload(loaded domain.Cart, locale string) cartResponse {
	chain := h.bundle.Chain(locale)

	lines := make([]cartLinePayload, 0, len(loaded.Lines))
	for _, line := range loaded.Lines {
		payload := cartLinePayload{
			ID:       line.ItemID,
			Quantity: line.Quantity,
		}
		item, ok := h.store.Item(line.ItemID)
		if !ok {
			// Referential drift: the item left the catalog since the line was
			// written. Keep the line visible but flag it.
			payload.Missing = true
			lines = append(lines, payload)
			continue
		}
		payload.Title = item.Title.Resolve(chain)
		payload.Price = view.FormatPrice(item.Price, item.Currency, locale)
		lines = append(lines, payload)
	}

	return cartResponse{
		Locale:        locale,
		Lines:         lines,
		TotalQuantity: loaded.TotalQuantity(),
		TotalPrice:    view.FormatPrice(cart.TotalPrice(loaded, h.store), "EUR", locale),
	}
}
