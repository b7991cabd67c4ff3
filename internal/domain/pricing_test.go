package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func items(entries ...LineItem) []LineItem { return entries }

func TestSubtotal_SumsPriceTimesQuantity(t *testing.T) {
	got := Subtotal(items(
		LineItem{Price: "10.00", Quantity: 2},
		LineItem{Price: "3.50", Quantity: 3},
	))

	assert.Equal(t, "30.50", got.StringFixed(2))
}

func TestSubtotal_UnparsablePriceContributesZero(t *testing.T) {
	got := Subtotal(items(
		LineItem{Price: "not-a-price", Quantity: 5},
		LineItem{Price: "2.00", Quantity: 1},
	))

	assert.Equal(t, "2.00", got.StringFixed(2))
}

func TestSubtotal_NoFloatDrift(t *testing.T) {
	// 0.1 + 0.2 style accumulation stays exact in decimal arithmetic.
	got := Subtotal(items(
		LineItem{Price: "0.10", Quantity: 1},
		LineItem{Price: "0.20", Quantity: 1},
	))

	assert.True(t, got.Equal(decimal.RequireFromString("0.3")))
}

func TestDiscountAmount_Percent(t *testing.T) {
	subtotal := decimal.RequireFromString("50.00")
	coupon := &AppliedCoupon{Code: "SAVE10", Amount: "10", DiscountType: DiscountTypePercent}

	got := DiscountAmount(subtotal, coupon)

	assert.Equal(t, "5.00", got.StringFixed(2))
}

func TestDiscountAmount_FixedCart(t *testing.T) {
	subtotal := decimal.RequireFromString("50.00")
	coupon := &AppliedCoupon{Code: "FIVE", Amount: "5", DiscountType: DiscountTypeFixedCart}

	got := DiscountAmount(subtotal, coupon)

	assert.Equal(t, "5.00", got.StringFixed(2))
}

func TestDiscountAmount_FixedCartCappedAtSubtotal(t *testing.T) {
	subtotal := decimal.RequireFromString("30.00")
	coupon := &AppliedCoupon{Code: "BIG20", Amount: "100", DiscountType: DiscountTypeFixedCart}

	got := DiscountAmount(subtotal, coupon)

	assert.Equal(t, "30.00", got.StringFixed(2))
}

func TestDiscountAmount_NonComputableTypesYieldZero(t *testing.T) {
	subtotal := decimal.RequireFromString("50.00")

	for _, dt := range []string{DiscountTypeFixedProduct, "buy_x_get_y", ""} {
		coupon := &AppliedCoupon{Code: "X", Amount: "10", DiscountType: dt}
		assert.True(t, DiscountAmount(subtotal, coupon).IsZero(), "type %q", dt)
	}
}

func TestDiscountAmount_NilCouponAndBadAmount(t *testing.T) {
	subtotal := decimal.RequireFromString("50.00")

	assert.True(t, DiscountAmount(subtotal, nil).IsZero())
	assert.True(t, DiscountAmount(subtotal, &AppliedCoupon{Amount: "n/a", DiscountType: DiscountTypePercent}).IsZero())
}

func TestTotalPrice_NeverNegative(t *testing.T) {
	subtotal := decimal.RequireFromString("30.00")
	discount := decimal.RequireFromString("100.00")

	assert.True(t, TotalPrice(subtotal, discount).IsZero())
}

func TestCalculateTotals_EmptyCart(t *testing.T) {
	got := CalculateTotals(nil, nil)

	assert.Equal(t, Totals{
		TotalItems:     0,
		Subtotal:       "0.00",
		DiscountAmount: "0.00",
		TotalPrice:     "0.00",
		IsEmpty:        true,
	}, got)
}

func TestCalculateTotals_PercentCoupon(t *testing.T) {
	coupon := &AppliedCoupon{Code: "SAVE10", Amount: "10", DiscountType: DiscountTypePercent}
	got := CalculateTotals(items(LineItem{Price: "10.00", Quantity: 5}), coupon)

	assert.Equal(t, Totals{
		TotalItems:     5,
		Subtotal:       "50.00",
		DiscountAmount: "5.00",
		TotalPrice:     "45.00",
		IsEmpty:        false,
	}, got)
}

func TestCalculateTotals_OversizedFixedCoupon(t *testing.T) {
	coupon := &AppliedCoupon{Code: "BIG20", Amount: "100", DiscountType: DiscountTypeFixedCart}
	got := CalculateTotals(items(LineItem{Price: "30.00", Quantity: 1}), coupon)

	assert.Equal(t, "30.00", got.DiscountAmount)
	assert.Equal(t, "0.00", got.TotalPrice)
}

func TestCalculateTotals_TotalItemsSumsQuantities(t *testing.T) {
	got := CalculateTotals(items(
		LineItem{Price: "1.00", Quantity: 2},
		LineItem{Price: "1.00", Quantity: 3},
	), nil)

	assert.Equal(t, 5, got.TotalItems)
	assert.False(t, got.IsEmpty)
}
