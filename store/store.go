package store

import (
	"context"
	"errors"
	"fmt"

	"vitrin/models"
)

// ErrNotFound is returned by every repository when the requested record
// does not exist.
var ErrNotFound = errors.New("not found")

// InsufficientStockError reports a stock violation for a single product,
// carrying both the requested and the available quantity.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// StockDecrement names one product and the amount to subtract from its stock.
type StockDecrement struct {
	ProductID string
	Quantity  int
}

// ProductRepository is the storage contract for the catalog table.
//
// DecrementStock is all-or-nothing: either every listed product exists and
// has enough stock and all decrements are applied, or nothing changes and a
// typed error names the offending product. The check and the mutation happen
// inside one critical section so a concurrent host cannot race a read between
// them.
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, productID string) (models.Product, error)
	Put(ctx context.Context, p models.Product) error
	DecrementStock(ctx context.Context, decs []StockDecrement) error
}

type CartRepository interface {
	Get(ctx context.Context, cartID string) (models.Cart, error)
	Put(ctx context.Context, c models.Cart) error
	Delete(ctx context.Context, cartID string) error
}

type OrderRepository interface {
	Get(ctx context.Context, orderID string) (models.Order, error)
	Put(ctx context.Context, o models.Order) error
	List(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}

type UserRepository interface {
	Get(ctx context.Context, userID string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Put(ctx context.Context, u models.User) error
}
