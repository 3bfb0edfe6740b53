package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"vitrin/cart"
	"vitrin/catalog"
	"vitrin/models"
	"vitrin/realtime"
	"vitrin/store"
	"vitrin/utils"
)

var tracer = otel.Tracer("vitrin/orders")

// ErrEmptyCart is returned when order placement finds no cart or no items.
var ErrEmptyCart = errors.New("cart is empty")

// InvalidTransitionError reports a forbidden order status change.
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// transitions is the order lifecycle. delivered and cancelled are terminal.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:    {models.StatusProcessing, models.StatusCancelled},
	models.StatusProcessing: {models.StatusShipped, models.StatusCancelled},
	models.StatusShipped:    {models.StatusDelivered},
}

func canTransition(from, to models.OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Service converts carts into immutable orders and manages their lifecycle.
type Service struct {
	orders  store.OrderRepository
	carts   *cart.Service
	catalog *catalog.Service
	hub     *realtime.Hub
}

// NewService wires the order service. hub may be nil; updates are then
// simply not broadcast.
func NewService(orders store.OrderRepository, carts *cart.Service, cat *catalog.Service, hub *realtime.Hub) *Service {
	return &Service{orders: orders, carts: carts, catalog: cat, hub: hub}
}

// Create places an order from the cart's current content.
//
// Stock is re-validated for every line against the catalog before anything
// mutates, then decremented in one atomic batch, so a failure never leaves
// stock partially decremented. The order keeps its own copy of the items;
// later cart or product changes cannot reach it. On success the source cart
// is cleared.
func (s *Service) Create(ctx context.Context, userID, cartID string, addr models.ShippingAddress) (models.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.Create")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("cart.id", cartID),
	)

	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Order{}, ErrEmptyCart
		}
		return models.Order{}, err
	}
	if len(c.Items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	// Complete validation pre-pass before any stock mutation.
	decs := make([]store.StockDecrement, 0, len(c.Items))
	for _, item := range c.Items {
		p, err := s.catalog.GetByID(ctx, item.Product.ProductID)
		if err != nil {
			return models.Order{}, err
		}
		if item.Quantity > p.Stock {
			err := &store.InsufficientStockError{
				ProductID: p.ProductID,
				Requested: item.Quantity,
				Available: p.Stock,
			}
			span.RecordError(err)
			return models.Order{}, err
		}
		decs = append(decs, store.StockDecrement{ProductID: p.ProductID, Quantity: item.Quantity})
	}

	if err := s.catalog.DecrementStockBatch(ctx, decs); err != nil {
		return models.Order{}, err
	}

	now := time.Now()
	items := make([]models.CartItem, len(c.Items))
	copy(items, c.Items)

	order := models.Order{
		OrderID:         utils.GenerateID(),
		UserID:          userID,
		Items:           items,
		Total:           c.Total,
		Status:          models.StatusPending,
		ShippingAddress: addr,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orders.Put(ctx, order); err != nil {
		return models.Order{}, fmt.Errorf("put order: %w", err)
	}

	if _, err := s.carts.Clear(ctx, cartID); err != nil {
		return models.Order{}, fmt.Errorf("clear cart: %w", err)
	}

	s.publishStockUpdates(ctx, decs)

	return order, nil
}

func (s *Service) publishStockUpdates(ctx context.Context, decs []store.StockDecrement) {
	if s.hub == nil {
		return
	}
	for _, d := range decs {
		p, err := s.catalog.GetByID(ctx, d.ProductID)
		if err != nil {
			continue
		}
		s.hub.Publish("stock", realtime.StockUpdate{
			Type:      "stock_update",
			ProductID: p.ProductID,
			Stock:     p.Stock,
		})
	}
}

func (s *Service) GetByID(ctx context.Context, orderID string) (models.Order, error) {
	return s.orders.Get(ctx, orderID)
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	out, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(out)
	return out, nil
}

// ListAll returns every order, newest first.
func (s *Service) ListAll(ctx context.Context) ([]models.Order, error) {
	out, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(out)
	return out, nil
}

// UpdateStatus moves the order along its lifecycle and refreshes UpdatedAt.
// Transitions out of delivered or cancelled are rejected.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, fmt.Errorf("unknown status %q", status)
	}

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if !canTransition(o.Status, status) {
		return models.Order{}, &InvalidTransitionError{From: o.Status, To: status}
	}

	o.Status = status
	o.UpdatedAt = time.Now()
	if err := s.orders.Put(ctx, o); err != nil {
		return models.Order{}, fmt.Errorf("put order: %w", err)
	}

	if s.hub != nil {
		s.hub.Publish("orders", realtime.OrderUpdate{
			Type:    "order_update",
			OrderID: o.OrderID,
			Status:  string(o.Status),
		})
	}
	return o, nil
}

func sortNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
