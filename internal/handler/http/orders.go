package http

import (
	"log/slog"
	"net/http"

	"github.com/kosynka/storefront/internal/orders"
	"github.com/kosynka/storefront/internal/session"
	"github.com/kosynka/storefront/pkg/validator"
)

// OrderHandler submits the session's cart as an order.
type OrderHandler struct {
	sessions *session.Manager
	orders   *orders.Client
	producer EventPublisher
	logger   *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(sessions *session.Manager, client *orders.Client, producer EventPublisher, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		sessions: sessions,
		orders:   client,
		producer: producer,
		logger:   logger,
	}
}

// CreateOrderRequest is the JSON request body for order submission.
type CreateOrderRequest struct {
	CustomerNote string `json:"customer_note" validate:"max=1000"`
}

// CreateOrderResponse carries the created order plus the (now empty) cart.
type CreateOrderResponse struct {
	Order *orders.Order `json:"order"`
	Cart  CartResponse  `json:"cart"`
}

// Create handles POST /api/v1/orders. The cart supplies the line items; the
// Telegram init data header authenticates the shopper. On success the cart
// is cleared.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	sid, _ := sessionIDFromContext(r.Context())

	var req CreateOrderRequest
	if r.ContentLength > 0 {
		if err := validator.DecodeAndValidate(r, &req); err != nil {
			writeValidationError(w, err)
			return
		}
	}

	initData := r.Header.Get("X-Telegram-Init-Data")
	if initData == "" {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "UNAUTHORIZED", Message: "X-Telegram-Init-Data header is required"},
		})
		return
	}

	store := h.sessions.Store(r.Context(), sid)
	lines := store.OrderLines()
	if len(lines) == 0 {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "cart is empty"},
		})
		return
	}

	input := orders.CreateOrderInput{
		LineItems:    lines,
		CustomerNote: req.CustomerNote,
	}
	if coupon := store.AppliedCoupon(); coupon != nil {
		input.CouponCode = coupon.Code
	}

	order, err := h.orders.Create(r.Context(), input, initData)
	if err != nil {
		writeError(w, r, err)
		return
	}

	store.ClearCart(r.Context())

	if err := h.producer.PublishOrderSubmitted(r.Context(), sid, order.ID, order.Total); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to publish order.submitted event",
			slog.String("session_id", sid),
			slog.String("error", err.Error()),
		)
	}

	writeJSON(w, http.StatusCreated, response{Data: CreateOrderResponse{
		Order: order,
		Cart:  cartResponse(store),
	}})
}
