package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/pkg/money"
	"gorm.io/gorm"
)

// Product is a menu item sold at the counter
type Product struct {
	ID          uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	Name        string               `gorm:"size:255;not null" json:"name"`
	Price       int64                `gorm:"not null;default:0" json:"-"` // Stored in cents
	Category    enum.ProductCategory `gorm:"size:50;not null;index" json:"category"`
	ImageURL    *string              `gorm:"size:512" json:"image_url,omitempty"`
	Description string               `gorm:"type:text" json:"description,omitempty"`
	IsAvailable bool                 `gorm:"not null;default:true;index" json:"is_available"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	DeletedAt   gorm.DeletedAt       `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// PriceDecimal returns the price for display.
func (p *Product) PriceDecimal() float64 {
	return money.ToFloat(p.Price)
}

// MarshalJSON exposes the price as a decimal amount
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(p),
		Price: p.PriceDecimal(),
	})
}

// UnmarshalJSON reads the decimal price back into cents
func (p *Product) UnmarshalJSON(data []byte) error {
	type Alias Product
	aux := &struct {
		*Alias
		Price float64 `json:"price"`
	}{
		Alias: (*Alias)(p),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	p.Price = money.FromFloat(aux.Price)
	return nil
}
