package domain

import "github.com/shopspring/decimal"

// Totals is a snapshot of the derived pricing for a cart. Monetary values
// are rendered with two decimal places.
type Totals struct {
	TotalItems     int    `json:"total_items"`
	Subtotal       string `json:"subtotal"`
	DiscountAmount string `json:"discount_amount"`
	TotalPrice     string `json:"total_price"`
	IsEmpty        bool   `json:"is_empty"`
}

// TotalItems returns the sum of quantities across all line items.
func TotalItems(items []LineItem) int {
	var total int
	for i := range items {
		total += items[i].Quantity
	}
	return total
}

// Subtotal returns the sum of price × quantity over all line items.
// Unparsable prices contribute zero.
func Subtotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		price, err := decimal.NewFromString(items[i].Price)
		if err != nil {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(items[i].Quantity))))
	}
	return total
}

// DiscountAmount returns the discount the applied coupon yields against the
// given subtotal. A fixed_cart discount never exceeds the subtotal. Discount
// types not computable client-side (fixed_product and any future type)
// yield zero; the order backend owns their authoritative computation.
func DiscountAmount(subtotal decimal.Decimal, coupon *AppliedCoupon) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(coupon.Amount)
	if err != nil {
		return decimal.Zero
	}

	switch coupon.DiscountType {
	case DiscountTypePercent:
		return subtotal.Mul(amount).Div(decimal.NewFromInt(100))
	case DiscountTypeFixedCart:
		if amount.GreaterThan(subtotal) {
			return subtotal
		}
		return amount
	default:
		return decimal.Zero
	}
}

// TotalPrice returns the price after discount, never below zero.
func TotalPrice(subtotal, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// CalculateTotals computes the full pricing snapshot for the given line
// items and optional coupon.
func CalculateTotals(items []LineItem, coupon *AppliedCoupon) Totals {
	subtotal := Subtotal(items)
	discount := DiscountAmount(subtotal, coupon)

	return Totals{
		TotalItems:     TotalItems(items),
		Subtotal:       subtotal.StringFixed(2),
		DiscountAmount: discount.StringFixed(2),
		TotalPrice:     TotalPrice(subtotal, discount).StringFixed(2),
		IsEmpty:        len(items) == 0,
	}
}
