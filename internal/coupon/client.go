package coupon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kosynka/storefront/pkg/httpclient"
)

const serviceName = "coupon-service"

// Client validates coupon codes against the store backend's
// /coupons/validate endpoint. Calls go through a circuit breaker so a
// misbehaving backend cannot stall every coupon attempt.
type Client struct {
	http    *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a coupon validation client for the given backend base URL.
func NewClient(http *httpclient.CircuitBreakerClient, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

type validateRequest struct {
	Code string `json:"code"`
}

// Validate implements Validator over HTTP.
func (c *Client) Validate(ctx context.Context, code string) (Result, error) {
	body, err := json.Marshal(validateRequest{Code: code})
	if err != nil {
		return Result{}, fmt.Errorf("marshal coupon request: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/coupons/validate", "application/json", bytes.NewReader(body))
	if err != nil {
		c.logger.WarnContext(ctx, "coupon validation request failed",
			slog.String("code", code),
			slog.String("error", err.Error()),
		)
		return Result{}, fmt.Errorf("validate coupon: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, httpclient.ParseResponseError(resp, serviceName)
	}
	defer resp.Body.Close()

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode coupon validation response: %w", err)
	}

	c.logger.DebugContext(ctx, "coupon validated",
		slog.String("code", code),
		slog.Bool("valid", result.Valid),
	)

	return result, nil
}
