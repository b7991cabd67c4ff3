package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/kosynka/storefront/internal/coupon"
	"github.com/kosynka/storefront/internal/domain"
	"github.com/kosynka/storefront/internal/repository"
	apperrors "github.com/kosynka/storefront/pkg/errors"
)

// AddOutcome reports how an AddToCart request was fulfilled.
type AddOutcome string

const (
	// OutcomeAdded means the full requested quantity was added.
	OutcomeAdded AddOutcome = "added"
	// OutcomePartial means the quantity was clamped to the stock limit;
	// AddResult.Added carries how many units actually went in.
	OutcomePartial AddOutcome = "partial"
	// OutcomeOutOfStock means nothing was added: the item is already at
	// its stock limit, or the product has no purchasable stock.
	OutcomeOutOfStock AddOutcome = "out_of_stock"
	// OutcomeSkipped means the request was degenerate (missing product or
	// non-positive quantity) and was ignored.
	OutcomeSkipped AddOutcome = "skipped"
)

// AddResult is the reported (non-error) outcome of an add operation.
type AddResult struct {
	Outcome AddOutcome
	Added   int
}

// UpdateResult is the reported outcome of a quantity update.
type UpdateResult struct {
	// Found is false when no line item matched the identity key.
	Found bool
	// Removed is true when the target quantity normalized to zero and the
	// item was deleted.
	Removed bool
	// Clamped is true when the requested quantity exceeded the stock limit.
	Clamped bool
	// Quantity is the item's quantity after the operation (0 if removed).
	Quantity int
}

// Fallback messages shown when the validation service gives none.
const (
	msgInvalidCoupon    = "Invalid coupon code."
	msgCouponCheckError = "Could not verify the coupon code."
)

// Store is the cart aggregate for one shopper session: it owns the line-item
// collection, enforces stock limits, manages the coupon lifecycle, and keeps
// the durable copy in sync. All state mutations flow through its methods;
// derived pricing is recomputed from current state on demand.
//
// Mutations never return errors: degenerate inputs are no-ops, stock
// conflicts clamp and report, and persistence failures are logged. The only
// reportable failure is coupon validation, surfaced via CouponError.
type Store struct {
	mu        sync.Mutex
	sessionID string
	items     []domain.LineItem
	coupon    *domain.AppliedCoupon
	couponErr string
	applying  bool

	repo      repository.CartRepository
	validator coupon.Validator
	logger    *slog.Logger
}

// NewStore creates the cart store for a session, loading any durable state.
// Corruption in either storage key is logged, the offending entry removed,
// and the default (empty cart, no coupon) used; a failure loading one key
// never affects the other.
func NewStore(ctx context.Context, sessionID string, repo repository.CartRepository, validator coupon.Validator, logger *slog.Logger) *Store {
	s := &Store{
		sessionID: sessionID,
		repo:      repo,
		validator: validator,
		logger:    logger,
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	items, err := s.repo.LoadItems(ctx, s.sessionID)
	switch {
	case err == nil:
		s.items = items
	case errors.Is(err, apperrors.ErrNotFound):
		// fresh session
	case apperrors.IsCorrupt(err):
		s.logger.WarnContext(ctx, "discarding corrupt stored cart",
			slog.String("session_id", s.sessionID),
			slog.String("error", err.Error()),
		)
		if delErr := s.repo.DeleteItems(ctx, s.sessionID); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to remove corrupt cart entry",
				slog.String("session_id", s.sessionID),
				slog.String("error", delErr.Error()),
			)
		}
	default:
		s.logger.ErrorContext(ctx, "failed to load stored cart",
			slog.String("session_id", s.sessionID),
			slog.String("error", err.Error()),
		)
	}

	c, err := s.repo.LoadCoupon(ctx, s.sessionID)
	switch {
	case err == nil:
		s.coupon = c
	case errors.Is(err, apperrors.ErrNotFound):
		// no coupon stored
	case apperrors.IsCorrupt(err):
		s.logger.WarnContext(ctx, "discarding corrupt stored coupon",
			slog.String("session_id", s.sessionID),
			slog.String("error", err.Error()),
		)
		if delErr := s.repo.DeleteCoupon(ctx, s.sessionID); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to remove corrupt coupon entry",
				slog.String("session_id", s.sessionID),
				slog.String("error", delErr.Error()),
			)
		}
	default:
		s.logger.ErrorContext(ctx, "failed to load stored coupon",
			slog.String("session_id", s.sessionID),
			slog.String("error", err.Error()),
		)
	}
}

// AddToCart derives a line item from the product and adds the requested
// quantity, merging with an existing item for the same (product, variation)
// key. Managed stock caps the resulting quantity; the result reports whether
// the add was full, partial, or rejected out-of-stock.
func (s *Store) AddToCart(ctx context.Context, product *domain.Product, quantity int) AddResult {
	if product == nil || product.ID == 0 || quantity <= 0 {
		return AddResult{Outcome: OutcomeSkipped}
	}

	item := domain.LineItemFromProduct(product)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := domain.FindItemIndex(s.items, item.ProductID, item.VariationID)
	if idx >= 0 {
		existing := &s.items[idx]
		max, limited := existing.MaxAvailable()
		if !limited || existing.Quantity+quantity <= max {
			existing.Quantity += quantity
			s.persistItemsLocked(ctx)
			return AddResult{Outcome: OutcomeAdded, Added: quantity}
		}

		canAdd := max - existing.Quantity
		if canAdd <= 0 {
			s.logger.InfoContext(ctx, "item already at stock limit",
				slog.Int64("product_id", item.ProductID),
				slog.Int("stock_quantity", max),
			)
			return AddResult{Outcome: OutcomeOutOfStock}
		}

		existing.Quantity = max
		s.persistItemsLocked(ctx)
		s.logger.InfoContext(ctx, "add clamped to stock limit",
			slog.Int64("product_id", item.ProductID),
			slog.Int("requested", quantity),
			slog.Int("added", canAdd),
		)
		return AddResult{Outcome: OutcomePartial, Added: canAdd}
	}

	max, limited := item.MaxAvailable()
	if !limited || quantity <= max {
		item.Quantity = quantity
		s.items = append(s.items, item)
		s.persistItemsLocked(ctx)
		return AddResult{Outcome: OutcomeAdded, Added: quantity}
	}

	if max <= 0 {
		s.logger.InfoContext(ctx, "product out of stock",
			slog.Int64("product_id", item.ProductID),
		)
		return AddResult{Outcome: OutcomeOutOfStock}
	}

	item.Quantity = max
	s.items = append(s.items, item)
	s.persistItemsLocked(ctx)
	s.logger.InfoContext(ctx, "add clamped to stock limit",
		slog.Int64("product_id", item.ProductID),
		slog.Int("requested", quantity),
		slog.Int("added", max),
	)
	return AddResult{Outcome: OutcomePartial, Added: max}
}

// UpdateQuantity sets the quantity of the matching line item. A target below
// one removes the item; a target above a managed stock limit is clamped.
// Unknown items are a no-op. Storage is written only when state changed.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int, variationID *int64) UpdateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := domain.FindItemIndex(s.items, productID, variationID)
	if idx < 0 {
		return UpdateResult{}
	}

	item := &s.items[idx]

	target := quantity
	if target < 1 {
		target = 0
	}

	clamped := false
	if target > 0 {
		if max, limited := item.MaxAvailable(); limited && target > max {
			target = max
			clamped = true
			s.logger.InfoContext(ctx, "quantity limited to stock",
				slog.Int64("product_id", productID),
				slog.Int("requested", quantity),
				slog.Int("stock_quantity", max),
			)
		}
	}

	if target == 0 {
		s.removeLocked(ctx, productID, variationID)
		return UpdateResult{Found: true, Removed: true}
	}

	if item.Quantity != target {
		item.Quantity = target
		s.persistItemsLocked(ctx)
	}

	return UpdateResult{Found: true, Clamped: clamped, Quantity: target}
}

// RemoveFromCart removes the matching line item. Removing an absent item is
// a no-op; the operation never fails.
func (s *Store) RemoveFromCart(ctx context.Context, productID int64, variationID *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(ctx, productID, variationID)
}

func (s *Store) removeLocked(ctx context.Context, productID int64, variationID *int64) {
	idx := domain.FindItemIndex(s.items, productID, variationID)
	if idx < 0 {
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.persistItemsLocked(ctx)
}

// ClearCart empties the line items and drops the coupon and any coupon
// error in one step. Both storage keys are updated.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.coupon = nil
	s.couponErr = ""
	s.persistItemsLocked(ctx)
	s.persistCouponLocked(ctx)
}

// ApplyCoupon validates the code against the coupon service and stores the
// confirmed discount. At most one validation is outstanding per store; calls
// arriving while one is in flight are dropped. The previous coupon and error
// are cleared before the service is consulted; on rejection or failure the
// message lands in CouponError and no coupon is stored. The in-flight flag
// is released on every exit path.
func (s *Store) ApplyCoupon(ctx context.Context, code string) {
	if code == "" {
		return
	}

	s.mu.Lock()
	if s.applying {
		s.mu.Unlock()
		return
	}
	s.applying = true
	s.coupon = nil
	s.couponErr = ""
	s.persistCouponLocked(ctx)
	s.mu.Unlock()

	// The validation call runs outside the lock so reads and other
	// mutations proceed while the service is consulted.
	result, err := s.validator.Validate(ctx, code)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.applying = false }()

	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = msgCouponCheckError
		}
		s.couponErr = msg
		s.logger.WarnContext(ctx, "coupon validation failed",
			slog.String("code", code),
			slog.String("error", err.Error()),
		)
		return
	}

	if !result.Valid {
		if result.Message != "" {
			s.couponErr = result.Message
		} else {
			s.couponErr = msgInvalidCoupon
		}
		return
	}

	s.coupon = &domain.AppliedCoupon{
		Code:         result.Code,
		Amount:       result.Amount,
		DiscountType: result.DiscountType,
	}
	s.persistCouponLocked(ctx)
	s.logger.InfoContext(ctx, "coupon applied",
		slog.String("code", result.Code),
		slog.String("discount_type", result.DiscountType),
	)
}

// RemoveCoupon drops the applied coupon and any coupon error. No network
// call is made.
func (s *Store) RemoveCoupon(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.coupon = nil
	s.couponErr = ""
	s.persistCouponLocked(ctx)
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.LineItem, len(s.items))
	copy(items, s.items)
	return items
}

// Totals computes the derived pricing snapshot for the current state.
func (s *Store) Totals() domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CalculateTotals(s.items, s.coupon)
}

// AppliedCoupon returns the active coupon, or nil.
func (s *Store) AppliedCoupon() *domain.AppliedCoupon {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.coupon == nil {
		return nil
	}
	c := *s.coupon
	return &c
}

// CouponError returns the last coupon validation error message, or "".
func (s *Store) CouponError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.couponErr
}

// IsApplyingCoupon reports whether a coupon validation is in flight.
func (s *Store) IsApplyingCoupon() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applying
}

// OrderLines returns the line items in the shape consumed by order
// submission: the (product, variation, quantity) triples.
func (s *Store) OrderLines() []OrderLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]OrderLine, 0, len(s.items))
	for i := range s.items {
		line := OrderLine{
			ProductID: s.items[i].ProductID,
			Quantity:  s.items[i].Quantity,
		}
		if s.items[i].VariationID != nil {
			v := *s.items[i].VariationID
			line.VariationID = &v
		}
		lines = append(lines, line)
	}
	return lines
}

// OrderLine is one cart entry in order-submission form.
type OrderLine struct {
	ProductID   int64  `json:"product_id"`
	VariationID *int64 `json:"variation_id,omitempty"`
	Quantity    int    `json:"quantity"`
}

// persistItemsLocked writes the line items to durable storage. Mutations
// call it as their final step; failures are logged, never surfaced.
func (s *Store) persistItemsLocked(ctx context.Context) {
	if err := s.repo.SaveItems(ctx, s.sessionID, s.items); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart items",
			slog.String("session_id", s.sessionID),
			slog.String("error", err.Error()),
		)
	}
}

// persistCouponLocked writes the coupon to durable storage, deleting the
// entry entirely when no coupon is applied.
func (s *Store) persistCouponLocked(ctx context.Context) {
	var err error
	if s.coupon == nil {
		err = s.repo.DeleteCoupon(ctx, s.sessionID)
	} else {
		err = s.repo.SaveCoupon(ctx, s.sessionID, s.coupon)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart coupon",
			slog.String("session_id", s.sessionID),
			slog.String("error", err.Error()),
		)
	}
}
