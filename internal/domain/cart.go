package domain

// Coupon discount type constants, as reported by the coupon validation
// backend. Only percent and fixed_cart are computed client-side; any other
// type defers to the order backend for authoritative pricing.
const (
	DiscountTypePercent      = "percent"
	DiscountTypeFixedCart    = "fixed_cart"
	DiscountTypeFixedProduct = "fixed_product"
)

// LineItem is one product/variant entry in the cart. The JSON field names
// are the durable storage format; records written before stock tracking was
// added load with a nil StockQuantity and false ManageStock.
type LineItem struct {
	ProductID     int64   `json:"product_id"`
	VariationID   *int64  `json:"variation_id"`
	Name          string  `json:"name"`
	Price         string  `json:"price"`
	Image         *string `json:"image"`
	Quantity      int     `json:"quantity"`
	ManageStock   bool    `json:"manage_stock"`
	StockQuantity *int    `json:"stock_quantity"`
}

// AppliedCoupon is a coupon confirmed by the validation service, stored
// exactly as returned. Amount interpretation depends on DiscountType.
type AppliedCoupon struct {
	Code         string `json:"code"`
	Amount       string `json:"amount"`
	DiscountType string `json:"discount_type"`
}

// Matches reports whether this line item has the given identity key.
// The (product_id, variation_id) pair is unique across the collection.
func (li *LineItem) Matches(productID int64, variationID *int64) bool {
	if li.ProductID != productID {
		return false
	}
	if li.VariationID == nil || variationID == nil {
		return li.VariationID == variationID
	}
	return *li.VariationID == *variationID
}

// MaxAvailable returns the maximum purchasable quantity for this item and
// whether that bound applies. Unmanaged items and managed items with an
// unknown stock count are unbounded.
func (li *LineItem) MaxAvailable() (int, bool) {
	if !li.ManageStock || li.StockQuantity == nil {
		return 0, false
	}
	return *li.StockQuantity, true
}

// FindItemIndex returns the index of the line item matching the given
// product and variation IDs, or -1 if not found.
func FindItemIndex(items []LineItem, productID int64, variationID *int64) int {
	for i := range items {
		if items[i].Matches(productID, variationID) {
			return i
		}
	}
	return -1
}
