package pdf

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/smallbiznis/orderdesk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderReceipt(t *testing.T) {
	provider := NewPDFProvider(config.Config{AppName: "orderdesk"})

	r, err := provider.GenerateOrderReceipt(context.Background(), ReceiptData{
		OrderNumber:   "42",
		OrderDate:     "2024-05-01",
		Status:        "Pending",
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
		Items: []ReceiptItem{
			{Description: "Mouse", Quantity: 2, UnitPrice: "50.00", LineTotal: "100.00"},
			{Description: "Pad", Quantity: 1, UnitPrice: "30.00", LineTotal: "30.00"},
		},
		Total: "130.00",
	})
	require.NoError(t, err)

	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestGenerateOrderReceiptHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPDFProvider(config.Config{}).GenerateOrderReceipt(ctx, ReceiptData{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNoOpProvider(t *testing.T) {
	_, err := (&NoOpProvider{}).GenerateOrderReceipt(context.Background(), ReceiptData{})
	assert.ErrorIs(t, err, ErrUnavailable)
}
