package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// API payloads carry prices as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog record. Everything except Stock is immutable;
// Stock is decremented only by order placement.
type Product struct {
	ProductID   string          `json:"id" bson:"productid"`
	Name        string          `json:"name" bson:"name"`
	Description string          `json:"description" bson:"description"`
	Price       decimal.Decimal `json:"price" bson:"-"`
	Category    string          `json:"category" bson:"category"`
	Image       string          `json:"image" bson:"image"`
	Stock       int             `json:"stock" bson:"stock"`
	Featured    bool            `json:"featured,omitempty" bson:"featured"`
}

// CartItem is one line of a cart: a product snapshot plus a quantity >= 1.
type CartItem struct {
	Product  Product `json:"product" bson:"product"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

// Cart holds pending line items for a session. Items keep insertion order,
// and no two items reference the same product id. Total is derived:
// sum of price*quantity over all items, rounded to 2 decimal places.
type Cart struct {
	CartID string          `json:"id" bson:"cartid"`
	UserID string          `json:"userId,omitempty" bson:"userid,omitempty"`
	Items  []CartItem      `json:"items" bson:"items"`
	Total  decimal.Decimal `json:"total" bson:"-"`
}

type User struct {
	UserID        string    `json:"id" bson:"userid"`
	Email         string    `json:"email" bson:"email"`
	Name          string    `json:"name" bson:"name"`
	PasswordHash  string    `json:"-" bson:"password_hash"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type ShippingAddress struct {
	FullName string `json:"fullName" bson:"fullname"`
	Address  string `json:"address" bson:"address"`
	City     string `json:"city" bson:"city"`
	State    string `json:"state" bson:"state"`
	ZipCode  string `json:"zipCode" bson:"zipcode"`
	Country  string `json:"country" bson:"country"`
	Phone    string `json:"phone" bson:"phone"`
}

// Order is an immutable record of a completed purchase. Items are a snapshot
// taken at placement time; later product or cart mutations never change them.
// Only Status and UpdatedAt may change after creation.
type Order struct {
	OrderID         string          `json:"id" bson:"orderid"`
	UserID          string          `json:"userId" bson:"userid"`
	Items           []CartItem      `json:"items" bson:"items"`
	Total           decimal.Decimal `json:"total" bson:"-"`
	Status          OrderStatus     `json:"status" bson:"status"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shipping_address"`
	CreatedAt       time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updated_at"`
}
