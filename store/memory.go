package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"vitrin/models"
)

// ProductStore is the in-memory catalog table. Listing preserves the order
// products were inserted in, which is what the storefront displays and what
// fixes the first-seen order of category enumeration.
type ProductStore struct {
	mu    sync.RWMutex
	byID  map[string]models.Product
	order []string
}

func NewProductStore(seed []models.Product) *ProductStore {
	s := &ProductStore{byID: make(map[string]models.Product)}
	for _, p := range seed {
		s.byID[p.ProductID] = p
		s.order = append(s.order, p.ProductID)
	}
	return s
}

func (s *ProductStore) List(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *ProductStore) Get(_ context.Context, productID string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[productID]
	if !ok {
		return models.Product{}, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return p, nil
}

func (s *ProductStore) Put(_ context.Context, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[p.ProductID]; !ok {
		s.order = append(s.order, p.ProductID)
	}
	s.byID[p.ProductID] = p
	return nil
}

// DecrementStock validates every decrement before mutating anything, all
// under one lock, so a failure never leaves stock partially decremented.
func (s *ProductStore) DecrementStock(_ context.Context, decs []StockDecrement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range decs {
		p, ok := s.byID[d.ProductID]
		if !ok {
			return fmt.Errorf("product %s: %w", d.ProductID, ErrNotFound)
		}
		if p.Stock < d.Quantity {
			return &InsufficientStockError{
				ProductID: d.ProductID,
				Requested: d.Quantity,
				Available: p.Stock,
			}
		}
	}
	for _, d := range decs {
		p := s.byID[d.ProductID]
		p.Stock -= d.Quantity
		s.byID[d.ProductID] = p
	}
	return nil
}

// CartStore is the in-memory cart table, keyed by cart id.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string]models.Cart
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]models.Cart)}
}

func (s *CartStore) Get(_ context.Context, cartID string) (models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[cartID]
	if !ok {
		return models.Cart{}, fmt.Errorf("cart %s: %w", cartID, ErrNotFound)
	}
	return cloneCart(c), nil
}

func (s *CartStore) Put(_ context.Context, c models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[c.CartID] = cloneCart(c)
	return nil
}

func (s *CartStore) Delete(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, cartID)
	return nil
}

// cloneCart copies the item slice so callers never alias stored state.
func cloneCart(c models.Cart) models.Cart {
	items := make([]models.CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}

// OrderStore is the in-memory order table.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]models.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[string]models.Order)}
}

func (s *OrderStore) Get(_ context.Context, orderID string) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[orderID]
	if !ok {
		return models.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return cloneOrder(o), nil
}

func (s *OrderStore) Put(_ context.Context, o models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[o.OrderID] = cloneOrder(o)
	return nil
}

func (s *OrderStore) List(_ context.Context) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (s *OrderStore) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func cloneOrder(o models.Order) models.Order {
	items := make([]models.CartItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

// UserStore is the in-memory user table. Email lookup is case-insensitive.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

func NewUserStore(seed []models.User) *UserStore {
	s := &UserStore{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
	for _, u := range seed {
		s.byID[u.UserID] = u
		s.byEmail[strings.ToLower(u.Email)] = u.UserID
	}
	return s
}

func (s *UserStore) Get(_ context.Context, userID string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[userID]
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	return s.byID[id], nil
}

func (s *UserStore) Put(_ context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[u.UserID] = u
	s.byEmail[strings.ToLower(u.Email)] = u.UserID
	return nil
}
