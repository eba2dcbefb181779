package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"shopfront/internal/cart"
	"shopfront/internal/middleware"
	"shopfront/internal/model"
	"shopfront/internal/service"
)

// CartHandler handles cart-related HTTP requests. Every endpoint works
// against the caller's anonymous session; without one the cart is
// inert and reads as empty rather than failing.
type CartHandler struct {
	carts    *cart.Manager
	products service.ProductService
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts *cart.Manager, products service.ProductService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

// AddItemRequest is the payload for POST /api/cart/items.
type AddItemRequest struct {
	ProductID string `json:"productId"`
}

// UpdateItemRequest is the payload for PUT /api/cart/items/{productId}.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// Get handles GET /api/cart. A cart session that has not loaded yet,
// or an explicit ?refresh=1, resynchronizes from the store first.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(r)
	if !ok {
		writeJSON(w, http.StatusOK, model.EmptyCartState())
		return
	}

	var state model.CartState
	if r.URL.Query().Get("refresh") == "1" || sess.Status() == cart.StatusUninitialized {
		state = sess.Refresh(r.Context())
	} else {
		state = sess.State()
	}

	writeJSON(w, http.StatusOK, state)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload", h.logger)
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId is required", h.logger)
		return
	}

	product, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found", h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to look up product", h.logger)
		return
	}

	sess, ok := h.session(r)
	if !ok {
		writeJSON(w, http.StatusOK, model.EmptyCartState())
		return
	}

	writeJSON(w, http.StatusOK, sess.AddItem(r.Context(), *product))
}

// UpdateQuantity handles PUT /api/cart/items/{productId}.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request, productID string) {
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload", h.logger)
		return
	}
	if req.Quantity < 0 {
		writeError(w, http.StatusBadRequest, "quantity must not be negative", h.logger)
		return
	}

	sess, ok := h.session(r)
	if !ok {
		writeJSON(w, http.StatusOK, model.EmptyCartState())
		return
	}

	writeJSON(w, http.StatusOK, sess.SetQuantity(r.Context(), productID, req.Quantity))
}

// RemoveItem handles DELETE /api/cart/items/{productId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request, productID string) {
	sess, ok := h.session(r)
	if !ok {
		writeJSON(w, http.StatusOK, model.EmptyCartState())
		return
	}

	writeJSON(w, http.StatusOK, sess.RemoveItem(r.Context(), productID))
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(r)
	if !ok {
		writeJSON(w, http.StatusOK, model.EmptyCartState())
		return
	}

	writeJSON(w, http.StatusOK, sess.Clear(r.Context()))
}

// Checkout handles POST /api/checkout. Checkout is a stub.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotImplemented, "checkout is not implemented", h.logger)
}

// session resolves the cart session for the request, reporting false
// when no anonymous identity could be established.
func (h *CartHandler) session(r *http.Request) (*cart.Session, bool) {
	identity, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.logger.Debug().Str("path", r.URL.Path).Msg("no session, cart is inert")
		return nil, false
	}
	return h.carts.Session(identity.ID), true
}
