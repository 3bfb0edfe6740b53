package store

import (
	"time"

	"github.com/shopspring/decimal"

	"vitrin/models"
)

// SeedProducts returns the demo catalog. Stock values here are the starting
// inventory; order placement decrements them.
func SeedProducts() []models.Product {
	return []models.Product{
		{
			ProductID:   "1",
			Name:        "Wireless Headphones",
			Description: "High-quality wireless headphones with noise cancellation",
			Price:       decimal.RequireFromString("99.99"),
			Category:    "Electronics",
			Image:       "/static/productpic/headphones.jpg",
			Stock:       50,
			Featured:    true,
		},
		{
			ProductID:   "2",
			Name:        "Smart Watch",
			Description: "Feature-rich smartwatch with fitness tracking",
			Price:       decimal.RequireFromString("199.99"),
			Category:    "Electronics",
			Image:       "/static/productpic/watch.jpg",
			Stock:       30,
			Featured:    true,
		},
		{
			ProductID:   "3",
			Name:        "Laptop Backpack",
			Description: "Durable laptop backpack with multiple compartments",
			Price:       decimal.RequireFromString("49.99"),
			Category:    "Accessories",
			Image:       "/static/productpic/backpack.jpg",
			Stock:       100,
		},
		{
			ProductID:   "4",
			Name:        "Mechanical Keyboard",
			Description: "RGB mechanical keyboard with programmable keys",
			Price:       decimal.RequireFromString("129.99"),
			Category:    "Electronics",
			Image:       "/static/productpic/keyboard.jpg",
			Stock:       25,
			Featured:    true,
		},
		{
			ProductID:   "5",
			Name:        "USB-C Hub",
			Description: "7-in-1 USB-C hub with multiple ports",
			Price:       decimal.RequireFromString("39.99"),
			Category:    "Accessories",
			Image:       "/static/productpic/hub.jpg",
			Stock:       75,
		},
		{
			ProductID:   "6",
			Name:        "Wireless Mouse",
			Description: "Ergonomic wireless mouse with precision tracking",
			Price:       decimal.RequireFromString("29.99"),
			Category:    "Electronics",
			Image:       "/static/productpic/mouse.jpg",
			Stock:       60,
		},
		{
			ProductID:   "7",
			Name:        "Phone Case",
			Description: "Protective phone case with shock absorption",
			Price:       decimal.RequireFromString("19.99"),
			Category:    "Accessories",
			Image:       "/static/productpic/case.jpg",
			Stock:       150,
		},
		{
			ProductID:   "8",
			Name:        "Bluetooth Speaker",
			Description: "Portable Bluetooth speaker with 360 degree sound",
			Price:       decimal.RequireFromString("79.99"),
			Category:    "Electronics",
			Image:       "/static/productpic/speaker.jpg",
			Stock:       40,
			Featured:    true,
		},
	}
}

// SeedUsers returns the demo account. The hash is bcrypt of "demo123".
func SeedUsers() []models.User {
	return []models.User{
		{
			UserID:       "1",
			Email:        "demo@example.com",
			Name:         "Demo User",
			PasswordHash: "$2b$10$kJKAx/3nBQ0VLSqVO7V/8ukuyw8K/cnHW3ypPwg9ZZHs9l0RjajpG",
			CreatedAt:    time.Now(),
		},
	}
}
