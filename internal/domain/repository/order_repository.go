package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
)

// ErrStatusChanged is returned by UpdateStatus when the order is no longer in the expected status.
var ErrStatusChanged = errors.New("order status changed concurrently")

// NewOrderLine is a cart line frozen at submission time. Prices are in cents.
type NewOrderLine struct {
	ProductID uuid.UUID
	Name      string
	Category  enum.ProductCategory
	UnitPrice int64
	Quantity  int
}

// NewOrder is everything needed to commit an order and its sale.
// OrderID is chosen by the caller and reused when a submission is retried,
// so a retry after an uncertain commit returns the order already written.
type NewOrder struct {
	OrderID        uuid.UUID
	CustomerName   string
	Lines          []NewOrderLine
	Subtotal       int64
	Total          int64
	PaymentMethod  enum.PaymentMethod
	AmountTendered *int64
	ChangeGiven    *int64
	CashierID      *uuid.UUID
	ReceiptPrefix  string
	PlacedAt       time.Time
}

// CreatedOrder is the confirmation returned by a successful CreateOrder.
type CreatedOrder struct {
	OrderID       uuid.UUID
	SaleID        uuid.UUID
	OrderNumber   string
	ReceiptNumber string
	Receipt       entity.ReceiptData
}

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	// CreateOrder atomically assigns order and receipt numbers and writes the
	// order, its items, the sale and its items. Either all rows exist afterwards or none do.
	// When an order with the same OrderID was already committed, it is returned unchanged.
	CreateOrder(ctx context.Context, order *NewOrder) (*CreatedOrder, error)
	// CurrentOrderCount returns the last order number issued.
	CurrentOrderCount(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// ListActive returns unfinished orders plus orders completed after completedSince, oldest first.
	ListActive(ctx context.Context, completedSince time.Time) ([]entity.Order, error)
	// UpdateStatus moves an order from one status to another. It fails with
	// ErrStatusChanged if the stored status is not from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enum.OrderStatus, notes *string) (*entity.Order, error)
}
