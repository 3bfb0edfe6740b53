package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrin/cart"
	"vitrin/catalog"
	"vitrin/models"
	"vitrin/store"
)

type fixture struct {
	catalog *catalog.Service
	carts   *cart.Service
	orders  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	products := []models.Product{
		{ProductID: "1", Name: "Wireless Headphones", Price: decimal.RequireFromString("10.25"), Category: "Electronics", Stock: 10},
		{ProductID: "2", Name: "Travel Mug", Price: decimal.RequireFromString("5.00"), Category: "Home", Stock: 1},
	}
	cat := catalog.NewService(store.NewProductStore(products))
	carts := cart.NewService(store.NewCartStore(), cat)
	return &fixture{
		catalog: cat,
		carts:   carts,
		orders:  NewService(store.NewOrderStore(), carts, cat, nil),
	}
}

func testAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FullName: "Demo User",
		Address:  "1 Main St",
		City:     "Springfield",
		State:    "IL",
		ZipCode:  "12345",
		Country:  "US",
	}
}

func (f *fixture) fillCart(t *testing.T, cartID string, productID string, qty int) {
	t.Helper()
	_, err := f.carts.AddItem(context.Background(), cartID, productID, qty)
	require.NoError(t, err)
}

func TestCreate_Succeeds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, "cart-1", "1", 2)
	f.fillCart(t, "cart-1", "2", 1)

	o, err := f.orders.Create(ctx, "user-1", "cart-1", testAddress())
	require.NoError(t, err)

	assert.NotEmpty(t, o.OrderID)
	assert.Equal(t, "user-1", o.UserID)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.Len(t, o.Items, 2)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("25.50")))
	assert.False(t, o.CreatedAt.IsZero())

	// Stock was decremented exactly by the ordered quantities.
	p1, err := f.catalog.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 8, p1.Stock)
	p2, err := f.catalog.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 0, p2.Stock)

	// The source cart was cleared.
	c, err := f.carts.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.True(t, c.Total.IsZero())
}

func TestCreate_EmptyOrMissingCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.orders.Create(ctx, "user-1", "no-such-cart", testAddress())
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = f.carts.Create(ctx, "user-1", "cart-1")
	require.NoError(t, err)
	_, err = f.orders.Create(ctx, "user-1", "cart-1", testAddress())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreate_InsufficientStockLeavesEverythingUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, "cart-1", "1", 2)
	f.fillCart(t, "cart-1", "2", 1)

	// Drain product 2 behind the cart's back so the order's pre-pass fails.
	require.NoError(t, f.catalog.DecrementStock(ctx, "2", 1))

	_, err := f.orders.Create(ctx, "user-1", "cart-1", testAddress())
	var ise *store.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, "2", ise.ProductID)

	// No partial decrement of product 1 and the cart is intact.
	p1, err := f.catalog.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 10, p1.Stock)

	c, err := f.carts.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.Len(t, c.Items, 2)
}

func TestCreate_OrderSnapshotIsImmutable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, "cart-1", "1", 2)

	o, err := f.orders.Create(ctx, "user-1", "cart-1", testAddress())
	require.NoError(t, err)

	// Later cart activity must not reach the stored order.
	f.fillCart(t, "cart-1", "2", 1)

	got, err := f.orders.GetByID(ctx, o.OrderID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "1", got.Items[0].Product.ProductID)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("20.50")))
}

func TestListByUser_FilteredAndNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.fillCart(t, "cart-a", "1", 1)
	_, err := f.orders.Create(ctx, "user-1", "cart-a", testAddress())
	require.NoError(t, err)

	f.fillCart(t, "cart-b", "1", 1)
	_, err = f.orders.Create(ctx, "user-1", "cart-b", testAddress())
	require.NoError(t, err)

	f.fillCart(t, "cart-c", "1", 1)
	_, err = f.orders.Create(ctx, "user-2", "cart-c", testAddress())
	require.NoError(t, err)

	got, err := f.orders.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, o := range got {
		assert.Equal(t, "user-1", o.UserID)
	}
	if got[0].CreatedAt.Before(got[1].CreatedAt) {
		t.Errorf("orders not newest-first: %v before %v", got[0].CreatedAt, got[1].CreatedAt)
	}

	all, err := f.orders.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateStatus_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, "cart-1", "1", 1)

	o, err := f.orders.Create(ctx, "user-1", "cart-1", testAddress())
	require.NoError(t, err)

	for _, next := range []models.OrderStatus{
		models.StatusProcessing,
		models.StatusShipped,
		models.StatusDelivered,
	} {
		o, err = f.orders.UpdateStatus(ctx, o.OrderID, next)
		require.NoError(t, err)
		assert.Equal(t, next, o.Status)
	}
	assert.False(t, o.UpdatedAt.Before(o.CreatedAt))
}

func TestUpdateStatus_RejectsInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, "cart-1", "1", 1)

	o, err := f.orders.Create(ctx, "user-1", "cart-1", testAddress())
	require.NoError(t, err)

	// Skipping straight to delivered is forbidden.
	_, err = f.orders.UpdateStatus(ctx, o.OrderID, models.StatusDelivered)
	var ite *InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, models.StatusPending, ite.From)
	assert.Equal(t, models.StatusDelivered, ite.To)

	// Cancelled is terminal.
	_, err = f.orders.UpdateStatus(ctx, o.OrderID, models.StatusCancelled)
	require.NoError(t, err)
	_, err = f.orders.UpdateStatus(ctx, o.OrderID, models.StatusProcessing)
	assert.ErrorAs(t, err, &ite)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, "cart-1", "1", 1)

	o, err := f.orders.Create(ctx, "user-1", "cart-1", testAddress())
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(ctx, o.OrderID, models.OrderStatus("teleported"))
	assert.Error(t, err)
}

func TestUpdateStatus_MissingOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.orders.UpdateStatus(ctx, "absent", models.StatusProcessing)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
