package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/mscheesy-pos/internal/domain/repository"
	"gorm.io/gorm"
)

const orderCounterName = "orders"

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func receiptCounterName(day time.Time) string {
	return "receipts-" + day.Format("20060102")
}

// FormatReceiptNumber renders PREFIX-YYYYMMDD-NNNN.
func FormatReceiptNumber(prefix string, day time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day.Format("20060102"), seq)
}

// nextCounter increments the named counter and returns the new value.
// The row lock is held until the surrounding transaction ends.
func nextCounter(tx *gorm.DB, name string) (int64, error) {
	var value int64
	err := tx.Raw(`INSERT INTO order_counters (name, value, updated_at) VALUES (?, 1, NOW())
		ON CONFLICT (name) DO UPDATE SET value = order_counters.value + 1, updated_at = NOW()
		RETURNING value`, name).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("next %s: %w", name, err)
	}
	return value, nil
}

// committedOrder rebuilds the confirmation of an order that an earlier
// attempt already wrote. It returns nil when no such order exists.
func committedOrder(tx *gorm.DB, orderID uuid.UUID) (*domainRepo.CreatedOrder, error) {
	var sale entity.Sale
	err := tx.Preload("Order").Preload("Items").First(&sale, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", orderID, err)
	}

	session, err := decodeBlob(sale.ReceiptData)
	if err != nil {
		return nil, err
	}
	receipt, err := NormalizeReceipt(mergeRecords(session, saleRecord(&sale)))
	if err != nil {
		return nil, fmt.Errorf("sale %s: %w", sale.ID, err)
	}
	return &domainRepo.CreatedOrder{
		OrderID:       orderID,
		SaleID:        sale.ID,
		OrderNumber:   sale.Order.OrderNumber,
		ReceiptNumber: sale.ReceiptNumber,
		Receipt:       receipt,
	}, nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, in *domainRepo.NewOrder) (*domainRepo.CreatedOrder, error) {
	if len(in.Lines) == 0 {
		return nil, errors.New("order has no lines")
	}
	placedAt := in.PlacedAt
	if placedAt.IsZero() {
		placedAt = time.Now()
	}

	var created *domainRepo.CreatedOrder
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			orderID := in.OrderID
			if orderID == uuid.Nil {
				orderID = uuid.New()
			} else {
				existing, err := committedOrder(tx, orderID)
				if err != nil {
					return err
				}
				if existing != nil {
					created = existing
					return nil
				}
			}

			orderSeq, err := nextCounter(tx, orderCounterName)
			if err != nil {
				return err
			}
			receiptSeq, err := nextCounter(tx, receiptCounterName(placedAt))
			if err != nil {
				return err
			}

			order := entity.Order{
				ID:           orderID,
				OrderNumber:  entity.FormatOrderNumber(orderSeq),
				CustomerName: in.CustomerName,
				Subtotal:     in.Subtotal,
				Total:        in.Total,
				Status:       enum.OrderStatusPending,
				CreatedAt:    placedAt,
				UpdatedAt:    placedAt,
			}
			sale := entity.Sale{
				ID:             uuid.New(),
				ReceiptNumber:  FormatReceiptNumber(in.ReceiptPrefix, placedAt, receiptSeq),
				OrderID:        order.ID,
				CustomerName:   in.CustomerName,
				SaleDate:       placedAt,
				Subtotal:       in.Subtotal,
				Total:          in.Total,
				PaymentMethod:  in.PaymentMethod,
				AmountTendered: in.AmountTendered,
				ChangeGiven:    in.ChangeGiven,
				CashierID:      in.CashierID,
			}
			receipt := entity.ReceiptData{
				SaleID:         sale.ID,
				OrderID:        order.ID,
				ReceiptNumber:  sale.ReceiptNumber,
				OrderNumber:    order.OrderNumber,
				CustomerName:   in.CustomerName,
				SaleDate:       placedAt,
				Subtotal:       in.Subtotal,
				Total:          in.Total,
				PaymentMethod:  in.PaymentMethod,
				AmountTendered: in.AmountTendered,
				ChangeGiven:    in.ChangeGiven,
			}

			for _, line := range in.Lines {
				lineTotal := line.UnitPrice * int64(line.Quantity)
				order.Items = append(order.Items, entity.OrderItem{
					ProductID:       line.ProductID,
					ProductName:     line.Name,
					ProductCategory: line.Category,
					ProductPrice:    line.UnitPrice,
					Quantity:        line.Quantity,
					LineTotal:       lineTotal,
				})
				sale.Items = append(sale.Items, entity.SaleItem{
					ProductID:       line.ProductID,
					ProductName:     line.Name,
					ProductCategory: line.Category,
					Quantity:        line.Quantity,
					UnitPrice:       line.UnitPrice,
					LineTotal:       lineTotal,
				})
				receipt.Items = append(receipt.Items, entity.ReceiptItem{
					Name:      line.Name,
					Category:  line.Category,
					Quantity:  line.Quantity,
					UnitPrice: line.UnitPrice,
					LineTotal: lineTotal,
				})
			}

			blob, err := EncodeSessionReceipt(receipt)
			if err != nil {
				return err
			}
			sale.ReceiptData = blob

			if err := tx.Create(&order).Error; err != nil {
				return fmt.Errorf("insert order: %w", err)
			}
			if err := tx.Omit("Order").Create(&sale).Error; err != nil {
				return fmt.Errorf("insert sale: %w", err)
			}

			created = &domainRepo.CreatedOrder{
				OrderID:       order.ID,
				SaleID:        sale.ID,
				OrderNumber:   order.OrderNumber,
				ReceiptNumber: sale.ReceiptNumber,
				Receipt:       receipt,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *orderRepository) CurrentOrderCount(ctx context.Context) (int64, error) {
	var counter entity.OrderCounter
	err := r.db.WithContext(ctx).First(&counter, "name = ?", orderCounterName).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return counter.Value, err
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) ListActive(ctx context.Context, completedSince time.Time) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Where("status <> ? OR (status = ? AND updated_at >= ?)",
			enum.OrderStatusCompleted, enum.OrderStatusCompleted, completedSince).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enum.OrderStatus, notes *string) (*entity.Order, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if notes != nil {
		updates["kitchen_notes"] = *notes
	}

	res := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domainRepo.ErrStatusChanged
	}
	return r.GetByID(ctx, id)
}
