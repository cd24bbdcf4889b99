package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/pkg/money"
	"gorm.io/gorm"
)

// Order is a committed cart as seen by the kitchen
type Order struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber  string           `gorm:"size:20;not null;uniqueIndex" json:"order_number"`
	CustomerName string           `gorm:"size:255;not null" json:"customer_name"`
	Subtotal     int64            `gorm:"not null;default:0" json:"-"` // Stored in cents
	Total        int64            `gorm:"not null;default:0" json:"-"` // Stored in cents
	Status       enum.OrderStatus `gorm:"not null;default:0;index" json:"status"`
	KitchenNotes *string          `gorm:"type:text" json:"kitchen_notes,omitempty"`
	CreatedAt    time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		Subtotal  float64 `json:"subtotal"`
		Total     float64 `json:"total"`
		ItemCount int     `json:"item_count"`
	}{
		Alias:     Alias(o),
		Subtotal:  money.ToFloat(o.Subtotal),
		Total:     money.ToFloat(o.Total),
		ItemCount: o.ItemCount(),
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ItemCount is the number of units to prepare
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// OrderItem is a line of an order. Product fields are copied at order time
// so later catalog edits do not change history.
type OrderItem struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	OrderID         uuid.UUID            `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID       uuid.UUID            `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName     string               `gorm:"size:255;not null" json:"product_name"`
	ProductCategory enum.ProductCategory `gorm:"size:50" json:"product_category"`
	ProductPrice    int64                `gorm:"not null" json:"-"` // Stored in cents
	Quantity        int                  `gorm:"not null" json:"quantity"`
	LineTotal       int64                `gorm:"not null" json:"-"` // Stored in cents
	CreatedAt       time.Time            `json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (oi OrderItem) MarshalJSON() ([]byte, error) {
	type Alias OrderItem
	return json.Marshal(&struct {
		Alias
		ProductPrice float64 `json:"product_price"`
		LineTotal    float64 `json:"line_total"`
	}{
		Alias:        Alias(oi),
		ProductPrice: money.ToFloat(oi.ProductPrice),
		LineTotal:    money.ToFloat(oi.LineTotal),
	})
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderCounter is a named sequence owned by the database.
// Order and receipt numbers are drawn from it inside the create-order transaction.
type OrderCounter struct {
	Name      string    `gorm:"size:64;primary_key"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for the OrderCounter model
func (OrderCounter) TableName() string {
	return "order_counters"
}
