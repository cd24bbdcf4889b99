package service

import (
	"context"

	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/events"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/metrics"
	"github.com/sangkips/mscheesy-pos/pkg/money"
)

// OrderEventHook announces committed orders on the kitchen feed
type OrderEventHook struct {
	publisher events.Publisher
}

func NewOrderEventHook(publisher events.Publisher) *OrderEventHook {
	return &OrderEventHook{publisher: publisher}
}

func (h *OrderEventHook) Name() string { return "order-events" }

func (h *OrderEventHook) AfterCommit(ctx context.Context, result *CheckoutResult) error {
	return h.publisher.Publish(ctx, entity.OrderEvent{
		Type:         entity.OrderEventCreated,
		OrderID:      result.OrderID,
		OrderNumber:  result.OrderNumber,
		CustomerName: result.Receipt.CustomerName,
		Status:       enum.OrderStatusPending,
		ItemCount:    result.ItemCount,
		OccurredAt:   result.Receipt.SaleDate,
	})
}

// SalesMetricsHook adds committed totals to the sales counter
type SalesMetricsHook struct {
	registry *metrics.Registry
}

func NewSalesMetricsHook(registry *metrics.Registry) *SalesMetricsHook {
	return &SalesMetricsHook{registry: registry}
}

func (h *SalesMetricsHook) Name() string { return "sales-metrics" }

func (h *SalesMetricsHook) AfterCommit(_ context.Context, result *CheckoutResult) error {
	h.registry.SalesTotal.Add(money.ToFloat(result.Total))
	return nil
}
