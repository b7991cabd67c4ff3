package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kosynka/storefront/internal/domain"
	apperrors "github.com/kosynka/storefront/pkg/errors"
)

const (
	itemsKeyPrefix  = "cart:items:"
	couponKeyPrefix = "cart:coupon:"
)

// CartRepository implements repository.CartRepository using Redis. Each
// session has two keys: one for the serialized line items and one for the
// applied coupon.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a new Redis-backed cart repository.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

// LoadItems retrieves the stored line-item collection for a session.
func (r *CartRepository) LoadItems(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	key := itemsKeyPrefix + sessionID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart items", sessionID)
		}
		return nil, fmt.Errorf("redis get cart items: %w", err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, apperrors.Corrupt(key, err)
	}

	return items, nil
}

// SaveItems overwrites the stored line-item collection for a session.
func (r *CartRepository) SaveItems(ctx context.Context, sessionID string, items []domain.LineItem) error {
	key := itemsKeyPrefix + sessionID

	if items == nil {
		items = []domain.LineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart items: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart items: %w", err)
	}

	return nil
}

// DeleteItems removes the stored line-item collection for a session.
func (r *CartRepository) DeleteItems(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, itemsKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del cart items: %w", err)
	}
	return nil
}

// LoadCoupon retrieves the stored applied coupon for a session.
func (r *CartRepository) LoadCoupon(ctx context.Context, sessionID string) (*domain.AppliedCoupon, error) {
	key := couponKeyPrefix + sessionID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart coupon", sessionID)
		}
		return nil, fmt.Errorf("redis get cart coupon: %w", err)
	}

	var coupon domain.AppliedCoupon
	if err := json.Unmarshal(data, &coupon); err != nil {
		return nil, apperrors.Corrupt(key, err)
	}

	return &coupon, nil
}

// SaveCoupon overwrites the stored applied coupon for a session.
func (r *CartRepository) SaveCoupon(ctx context.Context, sessionID string, coupon *domain.AppliedCoupon) error {
	key := couponKeyPrefix + sessionID

	data, err := json.Marshal(coupon)
	if err != nil {
		return fmt.Errorf("marshal cart coupon: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart coupon: %w", err)
	}

	return nil
}

// DeleteCoupon removes the stored coupon entry entirely.
func (r *CartRepository) DeleteCoupon(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, couponKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del cart coupon: %w", err)
	}
	return nil
}
