package coupon

import "context"

// Result is the outcome of validating a coupon code against the store
// backend. When Valid is true, Code, Amount, and DiscountType carry the
// discount parameters exactly as the backend reported them. When Valid is
// false, Message explains the rejection.
type Result struct {
	Valid        bool   `json:"valid"`
	Code         string `json:"code,omitempty"`
	Amount       string `json:"amount,omitempty"`
	DiscountType string `json:"discount_type,omitempty"`
	Message      string `json:"message,omitempty"`
}

// Validator checks coupon codes against the coupon validation service.
type Validator interface {
	// Validate submits the code for validation. A non-nil error means the
	// service could not be consulted (transport failure, bad status,
	// malformed body); the error text is suitable for presentation.
	Validate(ctx context.Context, code string) (Result, error)
}
