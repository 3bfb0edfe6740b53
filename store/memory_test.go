package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"vitrin/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestProductStore_DecrementStockAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore([]models.Product{
		{ProductID: "a", Price: decimal.RequireFromString("1.00"), Stock: 5},
		{ProductID: "b", Price: decimal.RequireFromString("2.00"), Stock: 2},
	})

	err := s.DecrementStock(ctx, []StockDecrement{
		{ProductID: "a", Quantity: 3},
		{ProductID: "b", Quantity: 3}, // over stock
	})
	var ise *InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, "b", ise.ProductID)
	assert.Equal(t, 3, ise.Requested)
	assert.Equal(t, 2, ise.Available)

	a, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 5, a.Stock, "valid decrement must not apply when a later one fails")

	// The same batch succeeds once quantities fit.
	err = s.DecrementStock(ctx, []StockDecrement{
		{ProductID: "a", Quantity: 3},
		{ProductID: "b", Quantity: 2},
	})
	require.NoError(t, err)

	a, _ = s.Get(ctx, "a")
	b, _ := s.Get(ctx, "b")
	assert.Equal(t, 2, a.Stock)
	assert.Equal(t, 0, b.Stock)
}

func TestProductStore_DecrementUnknownProduct(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore(nil)

	err := s.DecrementStock(ctx, []StockDecrement{{ProductID: "ghost", Quantity: 1}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewCartStore()

	require.NoError(t, s.Put(ctx, models.Cart{
		CartID: "c1",
		Items:  []models.CartItem{{Product: models.Product{ProductID: "a"}, Quantity: 1}},
	}))

	c, err := s.Get(ctx, "c1")
	require.NoError(t, err)

	// Mutating the returned slice must not reach stored state.
	c.Items[0].Quantity = 99

	again, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)
}

func TestCartStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewCartStore()

	require.NoError(t, s.Put(ctx, models.Cart{CartID: "c1"}))
	require.NoError(t, s.Delete(ctx, "c1"))

	_, err := s.Get(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, s.Delete(ctx, "c1"))
}

func TestOrderStore_ListByUser(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore()

	require.NoError(t, s.Put(ctx, models.Order{OrderID: "o1", UserID: "u1"}))
	require.NoError(t, s.Put(ctx, models.Order{OrderID: "o2", UserID: "u2"}))
	require.NoError(t, s.Put(ctx, models.Order{OrderID: "o3", UserID: "u1"}))

	got, err := s.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUserStore_EmailLookupIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(nil)

	require.NoError(t, s.Put(ctx, models.User{UserID: "u1", Email: "Demo@Example.com"}))

	u, err := s.GetByEmail(ctx, "demo@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)

	_, err = s.GetByEmail(ctx, "other@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedProducts(t *testing.T) {
	products := SeedProducts()
	require.Len(t, products, 8)

	for _, p := range products {
		assert.NotEmpty(t, p.ProductID)
		assert.NotEmpty(t, p.Name)
		assert.True(t, p.Price.IsPositive(), "product %s has non-positive price", p.ProductID)
		assert.Greater(t, p.Stock, 0)
	}
}
