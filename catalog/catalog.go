package catalog

import (
	"context"
	"errors"
	"strings"

	"vitrin/models"
	"vitrin/store"
)

// ErrProductNotFound is returned when a product id does not resolve.
var ErrProductNotFound = errors.New("product not found")

// Service exposes read access to the catalog plus the one mutation the
// storefront has: stock decrement at order placement.
type Service struct {
	products store.ProductRepository
}

func NewService(products store.ProductRepository) *Service {
	return &Service{products: products}
}

func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	return s.products.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, productID string) (models.Product, error) {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}
	return p, nil
}

func (s *Service) Featured(ctx context.Context) ([]models.Product, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Product{}
	for _, p := range all {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out, nil
}

// ByCategory matches the category name exactly, ignoring case.
func (s *Service) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Product{}
	for _, p := range all {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Search does a case-insensitive substring match over name, description and
// category; a hit in any field qualifies.
func (s *Service) Search(ctx context.Context, query string) ([]models.Product, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := []models.Product{}
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Categories returns distinct category names in first-seen order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range all {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

// DecrementStock subtracts quantity from one product's stock. It fails with
// ErrProductNotFound or *store.InsufficientStockError without mutating.
func (s *Service) DecrementStock(ctx context.Context, productID string, quantity int) error {
	return s.DecrementStockBatch(ctx, []store.StockDecrement{
		{ProductID: productID, Quantity: quantity},
	})
}

// DecrementStockBatch applies a set of decrements atomically; on any
// violation nothing changes.
func (s *Service) DecrementStockBatch(ctx context.Context, decs []store.StockDecrement) error {
	err := s.products.DecrementStock(ctx, decs)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}

// SetImage records a new image reference for the product.
func (s *Service) SetImage(ctx context.Context, productID, image string) (models.Product, error) {
	p, err := s.GetByID(ctx, productID)
	if err != nil {
		return models.Product{}, err
	}
	p.Image = image
	if err := s.products.Put(ctx, p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}
