package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
)

// Order event types published to the kitchen feed
const (
	OrderEventCreated       = "order.created"
	OrderEventStatusChanged = "order.status_changed"
)

// OrderEvent announces a change to an order to displays outside this process.
type OrderEvent struct {
	Type         string           `json:"type"`
	OrderID      uuid.UUID        `json:"order_id"`
	OrderNumber  string           `json:"order_number"`
	CustomerName string           `json:"customer_name"`
	Status       enum.OrderStatus `json:"status"`
	ItemCount    int              `json:"item_count"`
	OccurredAt   time.Time        `json:"occurred_at"`
}
