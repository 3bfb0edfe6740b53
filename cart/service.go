package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"vitrin/catalog"
	"vitrin/models"
	"vitrin/store"
	"vitrin/utils"
)

var tracer = otel.Tracer("vitrin/cart")

// Service manages mutable carts. All stock validation happens against the
// catalog at mutation time; the catalog is the only source of truth for
// availability.
type Service struct {
	carts   store.CartRepository
	catalog *catalog.Service
}

func NewService(carts store.CartRepository, cat *catalog.Service) *Service {
	return &Service{carts: carts, catalog: cat}
}

// Get returns an existing cart or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, cartID string) (models.Cart, error) {
	return s.carts.Get(ctx, cartID)
}

// Create stores a new empty cart. A non-empty explicitID is reused as the
// cart id so fetch-with-create stays idempotent for the client.
func (s *Service) Create(ctx context.Context, userID, explicitID string) (models.Cart, error) {
	id := explicitID
	if id == "" {
		id = utils.GenerateID()
	}
	c := models.Cart{
		CartID: id,
		UserID: userID,
		Items:  []models.CartItem{},
		Total:  decimal.Zero,
	}
	if err := s.carts.Put(ctx, c); err != nil {
		return models.Cart{}, fmt.Errorf("put cart: %w", err)
	}
	return c, nil
}

// AddItem puts quantity units of a product into the cart, creating the cart
// if it does not exist yet. When the product already has a line item the
// quantity accumulates instead of duplicating the line.
//
// The stock check is cumulative: the prospective line quantity (existing plus
// requested) may equal available stock but must not exceed it.
func (s *Service) AddItem(ctx context.Context, cartID, productID string, quantity int) (models.Cart, error) {
	ctx, span := tracer.Start(ctx, "CartService.AddItem")
	defer span.End()
	span.SetAttributes(
		attribute.String("cart.id", cartID),
		attribute.String("product.id", productID),
		attribute.Int("quantity", quantity),
	)

	if quantity < 1 {
		return models.Cart{}, fmt.Errorf("quantity must be at least 1")
	}

	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return models.Cart{}, err
		}
		c, err = s.Create(ctx, "", cartID)
		if err != nil {
			return models.Cart{}, err
		}
	}

	p, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return models.Cart{}, err
	}

	prospective := quantity
	idx := -1
	for i, item := range c.Items {
		if item.Product.ProductID == productID {
			idx = i
			prospective += item.Quantity
			break
		}
	}
	if prospective > p.Stock {
		err := &store.InsufficientStockError{
			ProductID: productID,
			Requested: prospective,
			Available: p.Stock,
		}
		span.RecordError(err)
		return models.Cart{}, err
	}

	if idx >= 0 {
		c.Items[idx].Quantity = prospective
	} else {
		c.Items = append(c.Items, models.CartItem{Product: p, Quantity: quantity})
	}

	c.Total = calculateTotal(c.Items)
	if err := s.carts.Put(ctx, c); err != nil {
		return models.Cart{}, fmt.Errorf("put cart: %w", err)
	}
	return c, nil
}

// UpdateQuantity sets a line item's quantity exactly. A quantity of zero or
// less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (models.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, cartID, productID)
	}

	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return models.Cart{}, err
	}

	idx := -1
	for i, item := range c.Items {
		if item.Product.ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Cart{}, fmt.Errorf("item %s: %w", productID, store.ErrNotFound)
	}

	p, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return models.Cart{}, err
	}
	if quantity > p.Stock {
		return models.Cart{}, &store.InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: p.Stock,
		}
	}

	c.Items[idx].Quantity = quantity
	c.Total = calculateTotal(c.Items)
	if err := s.carts.Put(ctx, c); err != nil {
		return models.Cart{}, fmt.Errorf("put cart: %w", err)
	}
	return c, nil
}

// RemoveItem drops the matching line item; removing an absent product is a
// no-op.
func (s *Service) RemoveItem(ctx context.Context, cartID, productID string) (models.Cart, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return models.Cart{}, err
	}

	items := c.Items[:0]
	for _, item := range c.Items {
		if item.Product.ProductID != productID {
			items = append(items, item)
		}
	}
	c.Items = items

	c.Total = calculateTotal(c.Items)
	if err := s.carts.Put(ctx, c); err != nil {
		return models.Cart{}, fmt.Errorf("put cart: %w", err)
	}
	return c, nil
}

// Clear empties the cart and resets the total. Order placement calls this
// after persisting the order.
func (s *Service) Clear(ctx context.Context, cartID string) (models.Cart, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return models.Cart{}, err
	}

	c.Items = []models.CartItem{}
	c.Total = decimal.Zero
	if err := s.carts.Put(ctx, c); err != nil {
		return models.Cart{}, fmt.Errorf("put cart: %w", err)
	}
	return c, nil
}

// calculateTotal sums price*quantity over the items, rounded half-up to two
// decimal places.
func calculateTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}
