package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var soldAt = time.Date(2024, 11, 1, 9, 30, 0, 0, time.UTC)

func sessionReceipt() entity.ReceiptData {
	tendered, change := int64(25000), int64(5000)
	return entity.ReceiptData{
		SaleID:         uuid.New(),
		OrderID:        uuid.New(),
		ReceiptNumber:  "MSC-20241101-0001",
		OrderNumber:    "#001",
		CustomerName:   "Juan",
		SaleDate:       soldAt,
		Subtotal:       20000,
		Total:          20000,
		PaymentMethod:  enum.PaymentMethodCash,
		AmountTendered: &tendered,
		ChangeGiven:    &change,
		Items: []entity.ReceiptItem{
			{Name: "Burger", Category: enum.CategorySandwiches, Quantity: 2, UnitPrice: 5000, LineTotal: 10000},
			{Name: "Cola", Category: enum.CategoryDrinks, Quantity: 1, UnitPrice: 10000, LineTotal: 10000},
		},
	}
}

func TestNormalizeReceipt_SessionNaming(t *testing.T) {
	want := sessionReceipt()
	blob, err := EncodeSessionReceipt(want)
	require.NoError(t, err)
	assert.Contains(t, blob, `"receiptNumber"`)

	raw, err := decodeBlob(blob)
	require.NoError(t, err)
	got, err := NormalizeReceipt(raw)
	require.NoError(t, err)

	assert.Equal(t, want.ReceiptNumber, got.ReceiptNumber)
	assert.Equal(t, want.OrderNumber, got.OrderNumber)
	assert.Equal(t, want.SaleID, got.SaleID)
	assert.True(t, want.SaleDate.Equal(got.SaleDate))
	assert.Equal(t, int64(20000), got.Total)
	require.NotNil(t, got.ChangeGiven)
	assert.Equal(t, int64(5000), *got.ChangeGiven)
	assert.Equal(t, want.Items, got.Items)
}

func TestNormalizeReceipt_PersistedNaming(t *testing.T) {
	raw := map[string]any{
		"receipt_number":  "MSC-20241101-0007",
		"order_number":    "#007",
		"customer_name":   "Ana",
		"sale_date":       soldAt,
		"subtotal":        "189.99",
		"total":           "189.99",
		"payment_method":  "Digital",
		"amount_tendered": "500.00",
		"items": []any{
			map[string]any{"product_name": "The Classic", "quantity": 1, "unit_price": "189.99"},
		},
	}

	got, err := NormalizeReceipt(raw)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentMethodDigital, got.PaymentMethod)
	assert.Equal(t, int64(18999), got.Total)
	assert.Nil(t, got.AmountTendered)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(18999), got.Items[0].LineTotal)
	assert.Equal(t, uuid.Nil, got.SaleID)
}

func TestNormalizeReceipt_PersistedWinsOverSession(t *testing.T) {
	data := sessionReceipt()
	blob, err := EncodeSessionReceipt(data)
	require.NoError(t, err)
	session, err := decodeBlob(blob)
	require.NoError(t, err)

	sale := &entity.Sale{
		ID:            data.SaleID,
		OrderID:       data.OrderID,
		ReceiptNumber: data.ReceiptNumber,
		CustomerName:  "Juan Dela Cruz",
		SaleDate:      soldAt,
		Subtotal:      20000,
		Total:         20000,
		PaymentMethod: enum.PaymentMethodCash,
	}
	merged := mergeRecords(session, saleRecord(sale))

	got, err := NormalizeReceipt(merged)
	require.NoError(t, err)
	assert.Equal(t, "Juan Dela Cruz", got.CustomerName)
	assert.Equal(t, "#001", got.OrderNumber)
	assert.Len(t, got.Items, 2)
	require.NotNil(t, got.AmountTendered)
	assert.Equal(t, int64(25000), *got.AmountTendered)
}

func TestNormalizeReceipt_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"missing receipt number", map[string]any{"orderNumber": "#1", "saleDate": "2024-11-01T09:30:00Z", "paymentMethod": "cash"}},
		{"unknown payment", map[string]any{"receiptNumber": "R", "orderNumber": "#1", "saleDate": "2024-11-01T09:30:00Z", "paymentMethod": "card"}},
		{"bad date", map[string]any{"receiptNumber": "R", "orderNumber": "#1", "saleDate": "yesterday", "paymentMethod": "cash"}},
		{"zero quantity", map[string]any{
			"receiptNumber": "R", "orderNumber": "#1", "saleDate": "2024-11-01T09:30:00Z", "paymentMethod": "cash",
			"items": []any{map[string]any{"name": "Cola", "quantity": 0, "price": 1}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeReceipt(tt.raw)
			assert.Error(t, err)
		})
	}
}
