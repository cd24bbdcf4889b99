package request

// AdvanceOrderRequest moves an order to its next status
type AdvanceOrderRequest struct {
	Notes *string `json:"notes" binding:"omitempty,max=1000"`
}

// UpdateOrderStatusRequest sets an explicit status by name
type UpdateOrderStatusRequest struct {
	Status string  `json:"status" binding:"required,oneof=pending preparing ready completed"`
	Notes  *string `json:"notes" binding:"omitempty,max=1000"`
}
