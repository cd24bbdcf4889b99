package request

import "github.com/google/uuid"

// AddCartItemRequest adds one unit of a product
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// UpdateCartItemRequest sets a line quantity; zero or less removes the line
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// SetCustomerRequest sets the customer name on the cart
type SetCustomerRequest struct {
	CustomerName string `json:"customer_name" binding:"max=255"`
}

// CheckoutRequest is the payment part of a checkout. AmountTendered is in currency units.
type CheckoutRequest struct {
	PaymentMethod  string   `json:"payment_method" binding:"required,oneof=cash digital"`
	AmountTendered *float64 `json:"amount_tendered" binding:"omitempty,min=0"`
}
