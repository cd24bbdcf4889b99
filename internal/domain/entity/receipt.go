package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
)

// ReceiptItem is a single line item on a receipt. Amounts are in cents.
type ReceiptItem struct {
	Name      string               `json:"name"`
	Category  enum.ProductCategory `json:"category,omitempty"`
	Quantity  int                  `json:"quantity"`
	UnitPrice int64                `json:"unit_price"`
	LineTotal int64                `json:"line_total"`
}

// ReceiptData is the canonical shape of a committed sale handed to the
// receipt formatter. Records read back from storage are converted to this
// shape at the repository boundary.
type ReceiptData struct {
	SaleID         uuid.UUID          `json:"sale_id"`
	OrderID        uuid.UUID          `json:"order_id"`
	ReceiptNumber  string             `json:"receipt_number"`
	OrderNumber    string             `json:"order_number"`
	CustomerName   string             `json:"customer_name"`
	SaleDate       time.Time          `json:"sale_date"`
	Subtotal       int64              `json:"subtotal"`
	Total          int64              `json:"total"`
	PaymentMethod  enum.PaymentMethod `json:"payment_method"`
	AmountTendered *int64             `json:"amount_tendered,omitempty"`
	ChangeGiven    *int64             `json:"change_given,omitempty"`
	Items          []ReceiptItem      `json:"items"`
}

// ItemCount is the number of units on the receipt
func (r *ReceiptData) ItemCount() int {
	n := 0
	for _, item := range r.Items {
		n += item.Quantity
	}
	return n
}

// Receipts holds the two printed variants of one sale.
type Receipts struct {
	Customer string `json:"customer"`
	Kitchen  string `json:"kitchen"`
}
