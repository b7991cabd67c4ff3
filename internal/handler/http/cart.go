package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kosynka/storefront/internal/cart"
	"github.com/kosynka/storefront/internal/domain"
	"github.com/kosynka/storefront/internal/session"
	"github.com/kosynka/storefront/pkg/validator"
)

// EventPublisher publishes storefront domain events after cart mutations.
type EventPublisher interface {
	PublishCartUpdated(ctx context.Context, sessionID string, items []domain.LineItem, totals domain.Totals) error
	PublishCartCleared(ctx context.Context, sessionID string) error
	PublishOrderSubmitted(ctx context.Context, sessionID string, orderID int64, total string) error
}

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	sessions *session.Manager
	producer EventPublisher
	logger   *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(sessions *session.Manager, producer EventPublisher, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		producer: producer,
		logger:   logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding a product to the cart.
// Quantity defaults to 1 when omitted.
type AddItemRequest struct {
	Product  *domain.Product `json:"product" validate:"required"`
	Quantity int             `json:"quantity" validate:"gte=0"`
}

// UpdateQuantityRequest is the JSON request body for updating an item's
// quantity. Zero removes the item.
type UpdateQuantityRequest struct {
	Quantity    int    `json:"quantity" validate:"gte=0"`
	VariationID *int64 `json:"variation_id"`
}

// ApplyCouponRequest is the JSON request body for applying a coupon code.
type ApplyCouponRequest struct {
	Code string `json:"code" validate:"required,min=1,max=100"`
}

// --- Response DTOs ---

// CartResponse is the full cart state returned by every cart endpoint.
type CartResponse struct {
	Items            []domain.LineItem     `json:"items"`
	Totals           domain.Totals         `json:"totals"`
	AppliedCoupon    *domain.AppliedCoupon `json:"applied_coupon,omitempty"`
	CouponError      string                `json:"coupon_error,omitempty"`
	IsApplyingCoupon bool                  `json:"is_applying_coupon,omitempty"`
}

// AddItemResponse extends the cart state with the add outcome so the client
// can tell the shopper about a clamp or an out-of-stock rejection.
type AddItemResponse struct {
	CartResponse
	Outcome cart.AddOutcome `json:"outcome"`
	Added   int             `json:"added"`
}

func cartResponse(s *cart.Store) CartResponse {
	return CartResponse{
		Items:            s.Items(),
		Totals:           s.Totals(),
		AppliedCoupon:    s.AppliedCoupon(),
		CouponError:      s.CouponError(),
		IsApplyingCoupon: s.IsApplyingCoupon(),
	}
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sid, _ := sessionIDFromContext(r.Context())
	store := h.sessions.Store(r.Context(), sid)
	writeJSON(w, http.StatusOK, response{Data: cartResponse(store)})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sid, _ := sessionIDFromContext(r.Context())

	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	store := h.sessions.Store(r.Context(), sid)
	result := store.AddToCart(r.Context(), req.Product, req.Quantity)
	if result.Outcome == cart.OutcomeSkipped {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "product id and a positive quantity are required"},
		})
		return
	}

	if result.Outcome != cart.OutcomeOutOfStock {
		h.publishUpdated(r, sid, store)
	}

	writeJSON(w, http.StatusOK, response{Data: AddItemResponse{
		CartResponse: cartResponse(store),
		Outcome:      result.Outcome,
		Added:        result.Added,
	}})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productID}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	sid, _ := sessionIDFromContext(r.Context())

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid product id"},
		})
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	store := h.sessions.Store(r.Context(), sid)
	result := store.UpdateQuantity(r.Context(), productID, req.Quantity, req.VariationID)
	if !result.Found {
		writeJSON(w, http.StatusNotFound, response{
			Error: &errorResponse{Code: "NOT_FOUND", Message: "cart item not found"},
		})
		return
	}

	h.publishUpdated(r, sid, store)
	writeJSON(w, http.StatusOK, response{Data: cartResponse(store)})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sid, _ := sessionIDFromContext(r.Context())

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid product id"},
		})
		return
	}

	var variationID *int64
	if raw := r.URL.Query().Get("variation_id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, response{
				Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid variation id"},
			})
			return
		}
		variationID = &v
	}

	store := h.sessions.Store(r.Context(), sid)
	store.RemoveFromCart(r.Context(), productID, variationID)

	h.publishUpdated(r, sid, store)
	writeJSON(w, http.StatusOK, response{Data: cartResponse(store)})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sid, _ := sessionIDFromContext(r.Context())

	store := h.sessions.Store(r.Context(), sid)
	store.ClearCart(r.Context())

	if err := h.producer.PublishCartCleared(r.Context(), sid); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to publish cart.cleared event",
			slog.String("session_id", sid),
			slog.String("error", err.Error()),
		)
	}

	writeJSON(w, http.StatusOK, response{Data: cartResponse(store)})
}

// ApplyCoupon handles POST /api/v1/cart/coupon. Validation failures are
// state, not errors: the response carries coupon_error and a 200 status.
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	sid, _ := sessionIDFromContext(r.Context())

	var req ApplyCouponRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	store := h.sessions.Store(r.Context(), sid)
	store.ApplyCoupon(r.Context(), req.Code)

	writeJSON(w, http.StatusOK, response{Data: cartResponse(store)})
}

// RemoveCoupon handles DELETE /api/v1/cart/coupon
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	sid, _ := sessionIDFromContext(r.Context())

	store := h.sessions.Store(r.Context(), sid)
	store.RemoveCoupon(r.Context())

	writeJSON(w, http.StatusOK, response{Data: cartResponse(store)})
}

func (h *CartHandler) publishUpdated(r *http.Request, sid string, store *cart.Store) {
	if err := h.producer.PublishCartUpdated(r.Context(), sid, store.Items(), store.Totals()); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to publish cart.updated event",
			slog.String("session_id", sid),
			slog.String("error", err.Error()),
		)
	}
}
