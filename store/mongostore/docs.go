package mongostore

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"vitrin/models"
)

// Document types mirror the domain models with money fields flattened to
// decimal strings, since the driver cannot marshal decimal.Decimal directly.

type productDoc struct {
	ProductID   string `bson:"productid"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
	Price       string `bson:"price"`
	Category    string `bson:"category"`
	Image       string `bson:"image"`
	Stock       int    `bson:"stock"`
	Featured    bool   `bson:"featured"`
	Seq         int    `bson:"seq,omitempty"`
}

func productToDoc(p models.Product, seq int) productDoc {
	return productDoc{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		Category:    p.Category,
		Image:       p.Image,
		Stock:       p.Stock,
		Featured:    p.Featured,
		Seq:         seq,
	}
}

func (d productDoc) toModel() (models.Product, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %s has bad price %q: %w", d.ProductID, d.Price, err)
	}
	return models.Product{
		ProductID:   d.ProductID,
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Category:    d.Category,
		Image:       d.Image,
		Stock:       d.Stock,
		Featured:    d.Featured,
	}, nil
}

type cartItemDoc struct {
	Product  productDoc `bson:"product"`
	Quantity int        `bson:"quantity"`
}

type cartDoc struct {
	CartID string        `bson:"cartid"`
	UserID string        `bson:"userid,omitempty"`
	Items  []cartItemDoc `bson:"items"`
	Total  string        `bson:"total"`
}

func cartToDoc(c models.Cart) cartDoc {
	items := make([]cartItemDoc, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, cartItemDoc{
			Product:  productToDoc(item.Product, -1),
			Quantity: item.Quantity,
		})
	}
	return cartDoc{
		CartID: c.CartID,
		UserID: c.UserID,
		Items:  items,
		Total:  c.Total.String(),
	}
}

func (d cartDoc) toModel() (models.Cart, error) {
	total, err := decimal.NewFromString(d.Total)
	if err != nil {
		return models.Cart{}, fmt.Errorf("cart %s has bad total %q: %w", d.CartID, d.Total, err)
	}
	items := make([]models.CartItem, 0, len(d.Items))
	for _, item := range d.Items {
		p, err := item.Product.toModel()
		if err != nil {
			return models.Cart{}, err
		}
		items = append(items, models.CartItem{Product: p, Quantity: item.Quantity})
	}
	return models.Cart{
		CartID: d.CartID,
		UserID: d.UserID,
		Items:  items,
		Total:  total,
	}, nil
}

type orderDoc struct {
	OrderID         string                 `bson:"orderid"`
	UserID          string                 `bson:"userid"`
	Items           []cartItemDoc          `bson:"items"`
	Total           string                 `bson:"total"`
	Status          string                 `bson:"status"`
	ShippingAddress models.ShippingAddress `bson:"shipping_address"`
	CreatedAt       time.Time              `bson:"created_at"`
	UpdatedAt       time.Time              `bson:"updated_at"`
}

func orderToDoc(o models.Order) orderDoc {
	items := make([]cartItemDoc, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, cartItemDoc{
			Product:  productToDoc(item.Product, -1),
			Quantity: item.Quantity,
		})
	}
	return orderDoc{
		OrderID:         o.OrderID,
		UserID:          o.UserID,
		Items:           items,
		Total:           o.Total.String(),
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (d orderDoc) toModel() (models.Order, error) {
	total, err := decimal.NewFromString(d.Total)
	if err != nil {
		return models.Order{}, fmt.Errorf("order %s has bad total %q: %w", d.OrderID, d.Total, err)
	}
	items := make([]models.CartItem, 0, len(d.Items))
	for _, item := range d.Items {
		p, err := item.Product.toModel()
		if err != nil {
			return models.Order{}, err
		}
		items = append(items, models.CartItem{Product: p, Quantity: item.Quantity})
	}
	return models.Order{
		OrderID:         d.OrderID,
		UserID:          d.UserID,
		Items:           items,
		Total:           total,
		Status:          models.OrderStatus(d.Status),
		ShippingAddress: d.ShippingAddress,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}
