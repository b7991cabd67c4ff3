package repository

import (
	"context"

	"github.com/kosynka/storefront/internal/domain"
)

// CartRepository defines durable key-value persistence for a session's cart.
// Line items and the applied coupon live under separate keys with no
// atomicity across them; callers treat each key independently.
//
// Load methods return pkg/errors.ErrNotFound (wrapped) when no value is
// stored, and pkg/errors.ErrCorruptData (wrapped) when a stored value does
// not decode. Corrupt entries are expected to be discarded by the caller.
type CartRepository interface {
	// LoadItems retrieves the stored line-item collection for a session.
	LoadItems(ctx context.Context, sessionID string) ([]domain.LineItem, error)

	// SaveItems overwrites the stored line-item collection for a session.
	SaveItems(ctx context.Context, sessionID string, items []domain.LineItem) error

	// DeleteItems removes the stored line-item collection for a session.
	DeleteItems(ctx context.Context, sessionID string) error

	// LoadCoupon retrieves the stored applied coupon for a session.
	LoadCoupon(ctx context.Context, sessionID string) (*domain.AppliedCoupon, error)

	// SaveCoupon overwrites the stored applied coupon for a session.
	SaveCoupon(ctx context.Context, sessionID string, coupon *domain.AppliedCoupon) error

	// DeleteCoupon removes the stored coupon entry entirely.
	DeleteCoupon(ctx context.Context, sessionID string) error
}
