package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/application/service"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/pkg/money"
)

// ReceiptItemResponse is a receipt line with decimal amounts
type ReceiptItemResponse struct {
	Name      string               `json:"name"`
	Category  enum.ProductCategory `json:"category,omitempty"`
	Quantity  int                  `json:"quantity"`
	UnitPrice float64              `json:"unit_price"`
	LineTotal float64              `json:"line_total"`
}

// ReceiptResponse is ReceiptData with decimal amounts
type ReceiptResponse struct {
	SaleID         uuid.UUID             `json:"sale_id"`
	OrderID        uuid.UUID             `json:"order_id"`
	ReceiptNumber  string                `json:"receipt_number"`
	OrderNumber    string                `json:"order_number"`
	CustomerName   string                `json:"customer_name"`
	SaleDate       time.Time             `json:"sale_date"`
	Subtotal       float64               `json:"subtotal"`
	Total          float64               `json:"total"`
	PaymentMethod  enum.PaymentMethod    `json:"payment_method"`
	AmountTendered *float64              `json:"amount_tendered,omitempty"`
	ChangeGiven    *float64              `json:"change_given,omitempty"`
	Items          []ReceiptItemResponse `json:"items"`
}

func optionalFloat(cents *int64) *float64 {
	if cents == nil {
		return nil
	}
	v := money.ToFloat(*cents)
	return &v
}

// NewReceiptResponse converts receipt data for the API
func NewReceiptResponse(data *entity.ReceiptData) ReceiptResponse {
	items := make([]ReceiptItemResponse, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, ReceiptItemResponse{
			Name:      item.Name,
			Category:  item.Category,
			Quantity:  item.Quantity,
			UnitPrice: money.ToFloat(item.UnitPrice),
			LineTotal: money.ToFloat(item.LineTotal),
		})
	}
	return ReceiptResponse{
		SaleID:         data.SaleID,
		OrderID:        data.OrderID,
		ReceiptNumber:  data.ReceiptNumber,
		OrderNumber:    data.OrderNumber,
		CustomerName:   data.CustomerName,
		SaleDate:       data.SaleDate,
		Subtotal:       money.ToFloat(data.Subtotal),
		Total:          money.ToFloat(data.Total),
		PaymentMethod:  data.PaymentMethod,
		AmountTendered: optionalFloat(data.AmountTendered),
		ChangeGiven:    optionalFloat(data.ChangeGiven),
		Items:          items,
	}
}

// CheckoutResponse is the body of a successful checkout
type CheckoutResponse struct {
	State         enum.CheckoutState `json:"state"`
	OrderID       uuid.UUID          `json:"order_id"`
	SaleID        uuid.UUID          `json:"sale_id"`
	OrderNumber   string             `json:"order_number"`
	ReceiptNumber string             `json:"receipt_number"`
	Total         float64            `json:"total"`
	Change        float64            `json:"change"`
	ItemCount     int                `json:"item_count"`
	Receipt       ReceiptResponse    `json:"receipt"`
	// Customer and Kitchen are the rendered copies shown in the receipt preview.
	Customer string `json:"customer_receipt"`
	Kitchen  string `json:"kitchen_receipt"`
}

// NewCheckoutResponse converts a checkout result for the API
func NewCheckoutResponse(result *service.CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		State:         result.State,
		OrderID:       result.OrderID,
		SaleID:        result.SaleID,
		OrderNumber:   result.OrderNumber,
		ReceiptNumber: result.ReceiptNumber,
		Total:         money.ToFloat(result.Total),
		Change:        money.ToFloat(result.Change),
		ItemCount:     result.ItemCount,
		Receipt:       NewReceiptResponse(&result.Receipt),
		Customer:      result.Receipts.Customer,
		Kitchen:       result.Receipts.Kitchen,
	}
}

// ReceiptPreviewResponse carries both rendered copies of a sale
type ReceiptPreviewResponse struct {
	Receipt  ReceiptResponse `json:"receipt"`
	Customer string          `json:"customer"`
	Kitchen  string          `json:"kitchen"`
}

// NewReceiptPreviewResponse converts a preview for the API
func NewReceiptPreviewResponse(preview *service.ReceiptPreview) ReceiptPreviewResponse {
	return ReceiptPreviewResponse{
		Receipt:  NewReceiptResponse(&preview.Receipt),
		Customer: preview.Customer,
		Kitchen:  preview.Kitchen,
	}
}
