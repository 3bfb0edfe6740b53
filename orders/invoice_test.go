package orders

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrin/models"
)

func TestGenerateInvoice(t *testing.T) {
	order := models.Order{
		OrderID: "order-123",
		UserID:  "user-1",
		Items: []models.CartItem{
			{
				Product: models.Product{
					ProductID: "1",
					Name:      "Wireless Headphones",
					Price:     decimal.RequireFromString("79.99"),
				},
				Quantity: 2,
			},
		},
		Total:  decimal.RequireFromString("159.98"),
		Status: models.StatusPending,
		ShippingAddress: models.ShippingAddress{
			FullName: "Demo User",
			Address:  "1 Main St",
			City:     "Springfield",
			ZipCode:  "12345",
			Country:  "US",
		},
		CreatedAt: time.Now(),
	}

	pdfBytes, err := GenerateInvoice(order)
	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")), "output is not a PDF")
}
