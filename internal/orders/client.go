package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kosynka/storefront/internal/cart"
	"github.com/kosynka/storefront/pkg/httpclient"
)

const serviceName = "order-service"

// initDataHeader carries the Telegram Mini App init data the backend uses
// to authenticate the shopper placing the order.
const initDataHeader = "X-Telegram-Init-Data"

// CreateOrderInput is the payload for submitting the cart as an order.
type CreateOrderInput struct {
	LineItems    []cart.OrderLine `json:"line_items"`
	CouponCode   string           `json:"coupon_code,omitempty"`
	CustomerNote string           `json:"customer_note,omitempty"`
}

// Order is the backend's view of a created order.
type Order struct {
	ID       int64  `json:"id"`
	Number   string `json:"number,omitempty"`
	Status   string `json:"status"`
	Total    string `json:"total"`
	Currency string `json:"currency,omitempty"`
}

// Client submits orders to the store backend. The cart core only supplies
// line items and totals; all order protocol detail lives here.
type Client struct {
	http    *httpclient.Client
	baseURL string
	logger  *slog.Logger
}

// NewClient creates an order submission client for the given backend base URL.
func NewClient(http *httpclient.Client, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Create submits the order. initData is the raw Telegram init data string
// forwarded for authentication; orders without line items or init data are
// rejected before any network call.
func (c *Client) Create(ctx context.Context, input CreateOrderInput, initData string) (*Order, error) {
	if len(input.LineItems) == 0 {
		return nil, fmt.Errorf("order requires at least one line item")
	}
	if initData == "" {
		return nil, fmt.Errorf("telegram init data is required")
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(initDataHeader, initData)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}
	defer resp.Body.Close()

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	c.logger.InfoContext(ctx, "order created",
		slog.Int64("order_id", order.ID),
		slog.String("status", order.Status),
	)

	return &order, nil
}
