package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/pkg/money"
	"gorm.io/gorm"
)

// Sale is the payment record written together with an order.
type Sale struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptNumber  string             `gorm:"size:50;not null;uniqueIndex" json:"receipt_number"`
	OrderID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"order_id"`
	CustomerName   string             `gorm:"size:255;not null" json:"customer_name"`
	SaleDate       time.Time          `gorm:"not null;index" json:"sale_date"`
	Subtotal       int64              `gorm:"not null;default:0" json:"-"`
	TaxAmount      int64              `gorm:"not null;default:0" json:"-"`
	Total          int64              `gorm:"not null;default:0" json:"-"`
	PaymentMethod  enum.PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	AmountTendered *int64             `json:"-"`
	ChangeGiven    *int64             `json:"-"`
	CashierID      *uuid.UUID         `gorm:"type:uuid;index" json:"cashier_id,omitempty"`
	ReceiptPrinted bool               `gorm:"not null;default:false" json:"receipt_printed"`
	// ReceiptData is the JSON receipt written at checkout, in the session naming.
	ReceiptData string    `gorm:"type:jsonb;not null;default:'{}'" json:"-"`
	Notes       *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Order Order      `gorm:"foreignKey:OrderID" json:"-"`
	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	out := &struct {
		Alias
		OrderNumber    string   `json:"order_number,omitempty"`
		Subtotal       float64  `json:"subtotal"`
		TaxAmount      float64  `json:"tax_amount"`
		Total          float64  `json:"total"`
		AmountTendered *float64 `json:"amount_tendered,omitempty"`
		ChangeGiven    *float64 `json:"change_given,omitempty"`
	}{
		Alias:       Alias(s),
		OrderNumber: s.Order.OrderNumber,
		Subtotal:    money.ToFloat(s.Subtotal),
		TaxAmount:   money.ToFloat(s.TaxAmount),
		Total:       money.ToFloat(s.Total),
	}
	if s.AmountTendered != nil {
		v := money.ToFloat(*s.AmountTendered)
		out.AmountTendered = &v
	}
	if s.ChangeGiven != nil {
		v := money.ToFloat(*s.ChangeGiven)
		out.ChangeGiven = &v
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is a priced line of a sale.
type SaleItem struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	SaleID          uuid.UUID            `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID       uuid.UUID            `gorm:"type:uuid;not null" json:"product_id"`
	ProductName     string               `gorm:"size:255;not null" json:"product_name"`
	ProductCategory enum.ProductCategory `gorm:"size:50" json:"product_category"`
	Quantity        int                  `gorm:"not null" json:"quantity"`
	UnitPrice       int64                `gorm:"not null" json:"-"`
	LineTotal       int64                `gorm:"not null" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (si SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(si),
		UnitPrice: money.ToFloat(si.UnitPrice),
		LineTotal: money.ToFloat(si.LineTotal),
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
