package catalog

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrin/models"
	"vitrin/store"
)

func newTestService() *Service {
	products := []models.Product{
		{ProductID: "1", Name: "Wireless Headphones", Description: "Noise-cancelling over-ear", Price: decimal.RequireFromString("79.99"), Category: "Electronics", Stock: 10, Featured: true},
		{ProductID: "2", Name: "Travel Mug", Description: "Keeps coffee hot", Price: decimal.RequireFromString("14.50"), Category: "Home", Stock: 5},
		{ProductID: "3", Name: "USB-C Cable", Description: "2m braided", Price: decimal.RequireFromString("9.99"), Category: "Electronics", Stock: 30},
		{ProductID: "4", Name: "Yoga Mat", Description: "Non-slip", Price: decimal.RequireFromString("24.00"), Category: "Sports", Stock: 8, Featured: true},
	}
	return NewService(store.NewProductStore(products))
}

func TestList_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	got, err := svc.List(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ProductID)
	}
	if diff := cmp.Diff([]string{"1", "2", "3", "4"}, ids); diff != "" {
		t.Errorf("product order mismatch (-want +got):\n%s", diff)
	}
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	p, err := svc.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Travel Mug", p.Name)

	_, err = svc.GetByID(ctx, "99")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFeatured(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	got, err := svc.Featured(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ProductID)
	assert.Equal(t, "4", got[1].ProductID)
}

func TestByCategory_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	got, err := svc.ByCategory(ctx, "electronics")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.ByCategory(ctx, "Garden")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_MatchesAnyField(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	// Name hit.
	got, err := svc.Search(ctx, "mug")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ProductID)

	// Description hit.
	got, err = svc.Search(ctx, "braided")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ProductID)

	// Category hit, mixed case.
	got, err = svc.Search(ctx, "SPORTS")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].ProductID)

	got, err = svc.Search(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCategories_FirstSeenOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	got, err := svc.Categories(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"Electronics", "Home", "Sports"}, got); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestDecrementStock(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	require.NoError(t, svc.DecrementStock(ctx, "2", 3))
	p, err := svc.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)

	// Down to exactly zero is allowed.
	require.NoError(t, svc.DecrementStock(ctx, "2", 2))
	p, err = svc.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)

	// Below zero is not.
	err = svc.DecrementStock(ctx, "2", 1)
	var ise *store.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 0, ise.Available)

	err = svc.DecrementStock(ctx, "99", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDecrementStockBatch_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	err := svc.DecrementStockBatch(ctx, []store.StockDecrement{
		{ProductID: "1", Quantity: 2},
		{ProductID: "2", Quantity: 6}, // over stock
	})
	var ise *store.InsufficientStockError
	require.ErrorAs(t, err, &ise)

	// The valid first decrement must not have been applied.
	p, err := svc.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock)
}

func TestSetImage(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	p, err := svc.SetImage(ctx, "1", "/static/productpic/abc.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/static/productpic/abc.jpg", p.Image)

	got, err := svc.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "/static/productpic/abc.jpg", got.Image)
}
