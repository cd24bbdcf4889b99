package request

import "github.com/sangkips/mscheesy-pos/internal/domain/enum"

// CreateProductRequest represents a product creation request. Price is in currency units.
type CreateProductRequest struct {
	Name        string               `json:"name" binding:"required,min=1,max=255"`
	Price       float64              `json:"price" binding:"min=0"`
	Category    enum.ProductCategory `json:"category" binding:"required"`
	ImageURL    *string              `json:"image_url"`
	Description string               `json:"description" binding:"max=255"`
	IsAvailable *bool                `json:"is_available"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name        *string               `json:"name" binding:"omitempty,min=1,max=255"`
	Price       *float64              `json:"price" binding:"omitempty,min=0"`
	Category    *enum.ProductCategory `json:"category"`
	ImageURL    *string               `json:"image_url"`
	Description *string               `json:"description" binding:"omitempty,max=255"`
	IsAvailable *bool                 `json:"is_available"`
}

// SetAvailabilityRequest toggles whether a product can be sold
type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}
