package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosynka/storefront/internal/coupon"
	"github.com/kosynka/storefront/internal/domain"
	apperrors "github.com/kosynka/storefront/pkg/errors"
)

// --- In-memory repository ---

type memRepo struct {
	mu             sync.Mutex
	items          map[string][]byte
	coupons        map[string][]byte
	saveItemsCalls int
}

func newMemRepo() *memRepo {
	return &memRepo{
		items:   make(map[string][]byte),
		coupons: make(map[string][]byte),
	}
}

func (m *memRepo) LoadItems(_ context.Context, sessionID string) ([]domain.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.items[sessionID]
	if !ok {
		return nil, apperrors.NotFound("cart items", sessionID)
	}
	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, apperrors.Corrupt("items:"+sessionID, err)
	}
	return items, nil
}

func (m *memRepo) SaveItems(_ context.Context, sessionID string, items []domain.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if items == nil {
		items = []domain.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	m.items[sessionID] = data
	m.saveItemsCalls++
	return nil
}

func (m *memRepo) DeleteItems(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, sessionID)
	return nil
}

func (m *memRepo) LoadCoupon(_ context.Context, sessionID string) (*domain.AppliedCoupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.coupons[sessionID]
	if !ok {
		return nil, apperrors.NotFound("cart coupon", sessionID)
	}
	var c domain.AppliedCoupon
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, apperrors.Corrupt("coupon:"+sessionID, err)
	}
	return &c, nil
}

func (m *memRepo) SaveCoupon(_ context.Context, sessionID string, c *domain.AppliedCoupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	m.coupons[sessionID] = data
	return nil
}

func (m *memRepo) DeleteCoupon(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.coupons, sessionID)
	return nil
}

func (m *memRepo) storedItems(t *testing.T, sessionID string) []domain.LineItem {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.items[sessionID]
	require.True(t, ok, "no stored items for session %s", sessionID)
	var items []domain.LineItem
	require.NoError(t, json.Unmarshal(data, &items))
	return items
}

func (m *memRepo) hasCoupon(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.coupons[sessionID]
	return ok
}

// --- Fake validator ---

type fakeValidator struct {
	mu      sync.Mutex
	result  coupon.Result
	err     error
	calls   int
	started chan struct{}
	release chan struct{}
}

func (f *fakeValidator) Validate(_ context.Context, _ string) (coupon.Result, error) {
	f.mu.Lock()
	f.calls++
	started := f.started
	release := f.release
	result := f.result
	err := f.err
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if release != nil {
		<-release
	}
	return result, err
}

func (f *fakeValidator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestStore(t *testing.T, repo *memRepo, v coupon.Validator) *Store {
	t.Helper()
	if repo == nil {
		repo = newMemRepo()
	}
	if v == nil {
		v = &fakeValidator{}
	}
	return NewStore(context.Background(), "sess-1", repo, v, testLogger())
}

func intPtr(n int) *int { return &n }

func int64Ptr(n int64) *int64 { return &n }

func testProduct(id int64, price string) *domain.Product {
	return &domain.Product{ID: id, Name: "Product", Price: price}
}

func managedProduct(id int64, price string, stock int) *domain.Product {
	p := testProduct(id, price)
	p.ManageStock = true
	p.StockQuantity = intPtr(stock)
	return p
}

// --- Initialization ---

func TestNewStore_Empty(t *testing.T) {
	s := newTestStore(t, nil, nil)

	assert.Empty(t, s.Items())
	assert.Nil(t, s.AppliedCoupon())
	assert.Empty(t, s.CouponError())

	totals := s.Totals()
	assert.True(t, totals.IsEmpty)
	assert.Equal(t, 0, totals.TotalItems)
	assert.Equal(t, "0.00", totals.TotalPrice)
}

func TestNewStore_LoadsStoredItems(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	require.NoError(t, repo.SaveItems(ctx, "sess-1", []domain.LineItem{
		{ProductID: 1, Name: "Widget", Price: "10.00", Quantity: 2},
	}))

	s := newTestStore(t, repo, nil)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestNewStore_BackfillsMissingStockFields(t *testing.T) {
	// Records written before stock tracking have no stock_quantity or
	// manage_stock keys.
	repo := newMemRepo()
	repo.items["sess-1"] = []byte(`[{"product_id":1,"variation_id":null,"name":"Old","price":"5.00","image":null,"quantity":1}]`)

	s := newTestStore(t, repo, nil)

	items := s.Items()
	require.Len(t, items, 1)
	assert.False(t, items[0].ManageStock)
	assert.Nil(t, items[0].StockQuantity)
}

func TestNewStore_CorruptItemsDiscardedAndRemoved(t *testing.T) {
	repo := newMemRepo()
	repo.items["sess-1"] = []byte(`{{{not json`)
	require.NoError(t, repo.SaveCoupon(context.Background(), "sess-1", &domain.AppliedCoupon{
		Code: "SAVE10", Amount: "10", DiscountType: domain.DiscountTypePercent,
	}))

	s := newTestStore(t, repo, nil)

	assert.Empty(t, s.Items())
	repo.mu.Lock()
	_, itemsStored := repo.items["sess-1"]
	repo.mu.Unlock()
	assert.False(t, itemsStored, "corrupt items entry should be removed")

	// The coupon key loads independently of the items failure.
	require.NotNil(t, s.AppliedCoupon())
	assert.Equal(t, "SAVE10", s.AppliedCoupon().Code)
}

func TestNewStore_CorruptCouponDiscardedIndependently(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	require.NoError(t, repo.SaveItems(ctx, "sess-1", []domain.LineItem{
		{ProductID: 1, Name: "Widget", Price: "10.00", Quantity: 1},
	}))
	repo.coupons["sess-1"] = []byte(`broken`)

	s := newTestStore(t, repo, nil)

	assert.Len(t, s.Items(), 1)
	assert.Nil(t, s.AppliedCoupon())
	assert.False(t, repo.hasCoupon("sess-1"), "corrupt coupon entry should be removed")
}

// --- AddToCart ---

func TestAddToCart_InsertsNewItem(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := newTestStore(t, repo, nil)

	res := s.AddToCart(ctx, testProduct(1, "10.00"), 2)

	assert.Equal(t, OutcomeAdded, res.Outcome)
	assert.Equal(t, 2, res.Added)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "10.00", items[0].Price)

	stored := repo.storedItems(t, "sess-1")
	assert.Equal(t, items, stored)
}

func TestAddToCart_PrefersSalePrice(t *testing.T) {
	s := newTestStore(t, nil, nil)

	p := testProduct(1, "10.00")
	p.SalePrice = "8.50"
	s.AddToCart(context.Background(), p, 1)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "8.50", items[0].Price)
}

func TestAddToCart_SnapshotsFirstImage(t *testing.T) {
	s := newTestStore(t, nil, nil)

	p := testProduct(1, "10.00")
	p.Images = []domain.ProductImage{{Src: "https://img.example.com/a.jpg"}, {Src: "https://img.example.com/b.jpg"}}
	s.AddToCart(context.Background(), p, 1)

	items := s.Items()
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Image)
	assert.Equal(t, "https://img.example.com/a.jpg", *items[0].Image)
}

func TestAddToCart_MergesSameIdentity(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil, nil)

	s.AddToCart(ctx, testProduct(1, "10.00"), 1)
	res := s.AddToCart(ctx, testProduct(1, "10.00"), 2)

	assert.Equal(t, OutcomeAdded, res.Outcome)
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddToCart_VariationsAreDistinctItems(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil, nil)

	s.AddToCart(ctx, testProduct(1, "10.00"), 1)

	variant := testProduct(1, "12.00")
	variant.VariationID = int64Ptr(77)
	s.AddToCart(ctx, variant, 1)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Nil(t, items[0].VariationID)
	require.NotNil(t, items[1].VariationID)
	assert.Equal(t, int64(77), *items[1].VariationID)
}

func TestAddToCart_ClampsNewItemToStock(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := newTestStore(t, repo, nil)

	res := s.AddToCart(ctx, managedProduct(1, "10.00", 3), 5)

	assert.Equal(t, OutcomePartial, res.Outcome)
	assert.Equal(t, 3, res.Added)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddToCart_ClampsMergeToStock(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil, nil)

	s.AddToCart(ctx, managedProduct(1, "10.00", 3), 2)
	res := s.AddToCart(ctx, managedProduct(1, "10.00", 3), 5)

	assert.Equal(t, OutcomePartial, res.Outcome)
	assert.Equal(t, 1, res.Added)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity, "quantity clamps to the limit, not 7")
}

func TestAddToCart_OutOfStockAtLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil, nil)

	s.AddToCart(ctx, managedProduct(1, "10.00", 2), 2)
	res := s.AddToCart(ctx, managedProduct(1, "10.00", 2), 1)

	assert.Equal(t, OutcomeOutOfStock, res.Outcome)
	assert.Equal(t, 0, res.Added)
	assert.Equal(t, 2, s.Items()[0].Quantity)
}

func TestAddToCart_OutOfStockNewItem(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil, nil)

	res := s.AddToCart(ctx, managedProduct(1, "10.00", 0), 1)

	assert.Equal(t, OutcomeOutOfStock, res.Outcome)
	assert.Empty(t, s.Items())
}

func TestAddToCart_UnmanagedStockIsUnbounded(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil, nil)

	res := s.AddToCart(ctx, testProduct(1, "10.00"), 10000)

	assert.Equal(t, OutcomeAdded, res.Outcome)
	assert.Equal(t, 10000, s.Items()[0].Quantity)
}

func TestAddToCart_DegenerateInputsAreNoOps(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := newTestStore(t, repo, nil)

	assert.Equal(t, OutcomeSkipped, s.AddToCart(ctx, nil, 1).Outcome)
	assert.Equal(t, OutcomeSkipped, s.AddToCart(ctx, &domain.Product{Name: "no id"}, 1).Outcome)
	assert.Equal(t, OutcomeSkipped, s.AddToCart(ctx, testProduct(1, "10.00"), 0).Outcome)
	assert.Equal(t, OutcomeSkipped, s.AddToCart(ctx, testProduct(1, "10.00"), -3).Outcome)

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, repo.saveItemsCalls, "no-ops must not persist")
}

// --- UpdateQuantity ---

func TestUpdateQuantity_SetsValue(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil, nil)
	s.AddToCart(ctx, testProduct(1, "10.00"), 1)

	res := s.UpdateQuantity(ctx, 1, 4, nil)

	assert.True(t, res.Found)
	assert.False(t, res.Clamped)
	assert.Equal(t, 4, res.Quantity)
	assert.Equal(t, 4, s.Items()[0].Quantity)
}

func TestUpdateQuantity_ClampsToStock(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil, nil)
	s.AddToCart(ctx, managedProduct(1, "10.00", 3), 1)

	res := s.UpdateQuantity(ctx, 1, 10, nil)

	assert.True(t, res.Clamped)
	assert.Equal(t, 3, res.Quantity)
	assert.Equal(t, 3, s.Items()[0].Quantity)
}

func TestUpdateQuantity_ZeroRemovesItemAndPersists(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := newTestStore(t, repo, nil)
	s.AddToCart(ctx, testProduct(1, "10.00"), 1)
	s.AddToCart(ctx, testProduct(2, "5.00"), 1)

	res := s.UpdateQuantity(ctx, 1, 0, nil)

	assert.True(t, res.Found)
	assert.True(t, res.Removed)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, int64(2), s.Items()[0].ProductID)

	stored := repo.storedItems(t, "sess-1")
	require.Len(t, stored, 1, "shorter collection must be persisted")
}

func TestUpdateQuantity_NegativeNormalizesToRemoval(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil, nil)
	s.AddToCart(ctx, testProduct(1, "10.00"), 1)

	res := s.UpdateQuantity(ctx, 1, -5, nil)

	assert.True(t, res.Removed)
	assert.Empty(t, s.Items())
}

func TestUpdateQuantity_UnknownItemIsNoOp(t *testing.T) {
	s := newTestStore(t, nil, nil)

	res := s.UpdateQuantity(context.Background(), 99, 3, nil)

	assert.False(t, res.Found)
}

func TestUpdateQuantity_SkipsRedundantWrite(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := newTestStore(t, repo, nil)
	s.AddToCart(ctx, testProduct(1, "10.00"), 2)

	before := repo.saveItemsCalls
	s.UpdateQuantity(ctx, 1, 2, nil)

	assert.Equal(t, before, repo.saveItemsCalls, "unchanged quantity must not persist")
}

// --- RemoveFromCart ---

func TestRemoveFromCart_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil, nil)
	s.AddToCart(ctx, testProduct(1, "10.00"), 1)

	s.RemoveFromCart(ctx, 1, nil)
	assert.Empty(t, s.Items())

	// Second removal is a no-op, never an error.
	s.RemoveFromCart(ctx, 1, nil)
	assert.Empty(t, s.Items())
}

func TestRemoveFromCart_MatchesVariation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil, nil)

	variant := testProduct(1, "10.00")
	variant.VariationID = int64Ptr(7)
	s.AddToCart(ctx, variant, 1)

	// Wrong variation key: no-op.
	s.RemoveFromCart(ctx, 1, nil)
	assert.Len(t, s.Items(), 1)

	s.RemoveFromCart(ctx, 1, int64Ptr(7))
	assert.Empty(t, s.Items())
}

// --- ClearCart ---

func TestClearCart_ResetsEverything(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	v := &fakeValidator{result: coupon.Result{Valid: true, Code: "SAVE10", Amount: "10", DiscountType: domain.DiscountTypePercent}}
	s := newTestStore(t, repo, v)

	s.AddToCart(ctx, testProduct(1, "10.00"), 2)
	s.ApplyCoupon(ctx, "SAVE10")
	require.NotNil(t, s.AppliedCoupon())

	s.ClearCart(ctx)

	assert.Empty(t, s.Items())
	assert.Nil(t, s.AppliedCoupon())
	assert.Empty(t, s.CouponError())
	assert.True(t, s.Totals().IsEmpty)

	assert.Empty(t, repo.storedItems(t, "sess-1"))
	assert.False(t, repo.hasCoupon("sess-1"), "coupon entry is deleted, not stored as null")
}

// --- ApplyCoupon ---

func TestApplyCoupon_ValidPercent(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	v := &fakeValidator{result: coupon.Result{Valid: true, Code: "SAVE10", Amount: "10", DiscountType: domain.DiscountTypePercent}}
	s := newTestStore(t, repo, v)

	s.AddToCart(ctx, testProduct(1, "10.00"), 5) // subtotal 50.00
	s.ApplyCoupon(ctx, "SAVE10")

	c := s.AppliedCoupon()
	require.NotNil(t, c)
	assert.Equal(t, "SAVE10", c.Code)
	assert.Equal(t, domain.DiscountTypePercent, c.DiscountType)
	assert.Empty(t, s.CouponError())
	assert.False(t, s.IsApplyingCoupon())

	totals := s.Totals()
	assert.Equal(t, "50.00", totals.Subtotal)
	assert.Equal(t, "5.00", totals.DiscountAmount)
	assert.Equal(t, "45.00", totals.TotalPrice)

	assert.True(t, repo.hasCoupon("sess-1"), "applied coupon is persisted")
}

func TestApplyCoupon_FixedCartCappedAtSubtotal(t *testing.T) {
	ctx := context.Background()
	v := &fakeValidator{result: coupon.Result{Valid: true, Code: "BIG20", Amount: "100", DiscountType: domain.DiscountTypeFixedCart}}
	s := newTestStore(t, nil, v)

	s.AddToCart(ctx, testProduct(1, "30.00"), 1)
	s.ApplyCoupon(ctx, "BIG20")

	totals := s.Totals()
	assert.Equal(t, "30.00", totals.DiscountAmount)
	assert.Equal(t, "0.00", totals.TotalPrice, "total never goes negative")
}

func TestApplyCoupon_InvalidRecordsServiceMessage(t *testing.T) {
	ctx := context.Background()
	v := &fakeValidator{result: coupon.Result{Valid: false, Message: "coupon expired"}}
	s := newTestStore(t, nil, v)

	s.ApplyCoupon(ctx, "OLD")

	assert.Nil(t, s.AppliedCoupon())
	assert.Equal(t, "coupon expired", s.CouponError())
	assert.False(t, s.IsApplyingCoupon())
}

func TestApplyCoupon_InvalidWithoutMessageUsesFallback(t *testing.T) {
	v := &fakeValidator{result: coupon.Result{Valid: false}}
	s := newTestStore(t, nil, v)

	s.ApplyCoupon(context.Background(), "NOPE")

	assert.Nil(t, s.AppliedCoupon())
	assert.Equal(t, msgInvalidCoupon, s.CouponError())
}

func TestApplyCoupon_TransportFailureRecordsError(t *testing.T) {
	v := &fakeValidator{err: errors.New("validate coupon: connection refused")}
	s := newTestStore(t, nil, v)

	s.ApplyCoupon(context.Background(), "SAVE10")

	assert.Nil(t, s.AppliedCoupon())
	assert.Contains(t, s.CouponError(), "connection refused")
	assert.False(t, s.IsApplyingCoupon(), "in-flight flag released on failure")
}

func TestApplyCoupon_ReplacesPriorCoupon(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	v := &fakeValidator{result: coupon.Result{Valid: true, Code: "SAVE10", Amount: "10", DiscountType: domain.DiscountTypePercent}}
	s := newTestStore(t, repo, v)

	s.ApplyCoupon(ctx, "SAVE10")
	require.NotNil(t, s.AppliedCoupon())

	// The next application is rejected: the prior coupon must be gone, not
	// merged or retained.
	v.mu.Lock()
	v.result = coupon.Result{Valid: false, Message: "not valid"}
	v.mu.Unlock()

	s.ApplyCoupon(ctx, "OTHER")

	assert.Nil(t, s.AppliedCoupon())
	assert.Equal(t, "not valid", s.CouponError())
	assert.False(t, repo.hasCoupon("sess-1"), "cleared coupon entry is deleted")
}

func TestApplyCoupon_DropsCallsWhileInFlight(t *testing.T) {
	ctx := context.Background()
	v := &fakeValidator{
		result:  coupon.Result{Valid: true, Code: "SAVE10", Amount: "10", DiscountType: domain.DiscountTypePercent},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newTestStore(t, nil, v)

	done := make(chan struct{})
	go func() {
		s.ApplyCoupon(ctx, "SAVE10")
		close(done)
	}()

	<-v.started
	assert.True(t, s.IsApplyingCoupon())

	// Dropped, not queued: returns immediately without a second call.
	s.ApplyCoupon(ctx, "SAVE10")

	close(v.release)
	<-done

	assert.Equal(t, 1, v.callCount())
	assert.False(t, s.IsApplyingCoupon())
	require.NotNil(t, s.AppliedCoupon())
}

func TestApplyCoupon_EmptyCodeIgnored(t *testing.T) {
	v := &fakeValidator{}
	s := newTestStore(t, nil, v)

	s.ApplyCoupon(context.Background(), "")

	assert.Equal(t, 0, v.callCount())
}

// --- RemoveCoupon ---

func TestRemoveCoupon_ClearsStateWithoutNetworkCall(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	v := &fakeValidator{result: coupon.Result{Valid: true, Code: "SAVE10", Amount: "10", DiscountType: domain.DiscountTypePercent}}
	s := newTestStore(t, repo, v)

	s.ApplyCoupon(ctx, "SAVE10")
	calls := v.callCount()

	s.RemoveCoupon(ctx)

	assert.Nil(t, s.AppliedCoupon())
	assert.Empty(t, s.CouponError())
	assert.Equal(t, calls, v.callCount())
	assert.False(t, repo.hasCoupon("sess-1"))
}

// --- Persistence round trip ---

func TestRoundTrip_ReloadReproducesCart(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := newTestStore(t, repo, nil)

	s.AddToCart(ctx, testProduct(1, "10.00"), 2)
	variant := managedProduct(2, "7.50", 5)
	variant.VariationID = int64Ptr(9)
	s.AddToCart(ctx, variant, 3)

	reloaded := NewStore(ctx, "sess-1", repo, &fakeValidator{}, testLogger())

	assert.Equal(t, s.Items(), reloaded.Items())
	assert.Equal(t, s.Totals(), reloaded.Totals())
}

// --- Invariants over mutation sequences ---

func TestMutationSequence_NeverViolatesStockOrQuantityInvariants(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := newTestStore(t, repo, nil)

	s.AddToCart(ctx, managedProduct(1, "10.00", 3), 5)
	s.AddToCart(ctx, managedProduct(1, "10.00", 3), 1)
	s.AddToCart(ctx, testProduct(2, "4.00"), 2)
	s.UpdateQuantity(ctx, 1, 99, nil)
	s.UpdateQuantity(ctx, 2, 0, nil)
	s.AddToCart(ctx, testProduct(2, "4.00"), 1)
	s.RemoveFromCart(ctx, 3, nil)

	for _, item := range repo.storedItems(t, "sess-1") {
		assert.GreaterOrEqual(t, item.Quantity, 1, "no zero-quantity row is ever persisted")
		if max, limited := item.MaxAvailable(); limited {
			assert.LessOrEqual(t, item.Quantity, max)
		}
	}
}

func TestOrderLines_ExposesCartForSubmission(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil, nil)

	s.AddToCart(ctx, testProduct(1, "10.00"), 2)
	variant := testProduct(2, "5.00")
	variant.VariationID = int64Ptr(4)
	s.AddToCart(ctx, variant, 1)

	lines := s.OrderLines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
	require.NotNil(t, lines[1].VariationID)
	assert.Equal(t, int64(4), *lines[1].VariationID)
}
