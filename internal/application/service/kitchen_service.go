package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/internal/domain/repository"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/events"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/metrics"
	"github.com/sangkips/mscheesy-pos/pkg/apperror"
	"go.uber.org/zap"
)

// KitchenService moves orders through pending, preparing, ready and completed.
type KitchenService struct {
	orderRepo    repository.OrderRepository
	publisher    events.Publisher
	metrics      *metrics.Registry
	removalDelay time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewKitchenService creates a new kitchen service. Completed orders stay in
// the active list for removalDelay after their last change.
func NewKitchenService(
	orderRepo repository.OrderRepository,
	publisher events.Publisher,
	registry *metrics.Registry,
	removalDelay time.Duration,
	logger *zap.Logger,
) *KitchenService {
	return &KitchenService{
		orderRepo:    orderRepo,
		publisher:    publisher,
		metrics:      registry,
		removalDelay: removalDelay,
		logger:       logger,
		now:          time.Now,
	}
}

// ActiveOrders lists the kitchen queue, oldest first
func (s *KitchenService) ActiveOrders(ctx context.Context) ([]entity.Order, error) {
	orders, err := s.orderRepo.ListActive(ctx, s.now().Add(-s.removalDelay))
	if err != nil {
		return nil, apperror.NewPersistenceError("Could not load orders", err)
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	return orders, nil
}

func (s *KitchenService) load(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError("Could not load the order", err)
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// Advance moves the order to the status after its current one
func (s *KitchenService) Advance(ctx context.Context, id uuid.UUID, notes *string) (*entity.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := order.Status.Next()
	if !ok {
		return nil, apperror.NewConflictError(fmt.Sprintf("Order %s is already %s", order.OrderNumber, order.Status))
	}
	return s.transition(ctx, order, next, notes)
}

// UpdateStatus sets an explicit status. Only the direct successor of the
// current status is accepted.
func (s *KitchenService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus, notes *string) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, apperror.NewValidationFailure("Unknown order status")
	}
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !enum.CanTransition(order.Status, status) {
		return nil, apperror.NewValidationFailure(fmt.Sprintf("Order cannot move from %s to %s", order.Status, status))
	}
	return s.transition(ctx, order, status, notes)
}

func (s *KitchenService) transition(ctx context.Context, order *entity.Order, to enum.OrderStatus, notes *string) (*entity.Order, error) {
	updated, err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status, to, notes)
	if errors.Is(err, repository.ErrStatusChanged) {
		return nil, apperror.NewConflictError("Order was updated by someone else, refresh and try again")
	}
	if err != nil {
		return nil, apperror.NewPersistenceError("Could not update the order", err)
	}

	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(to.String()).Inc()
	}
	s.logger.Info("order status changed",
		zap.String("order_number", updated.OrderNumber),
		zap.String("from", order.Status.String()),
		zap.String("to", to.String()),
	)

	event := entity.OrderEvent{
		Type:         entity.OrderEventStatusChanged,
		OrderID:      updated.ID,
		OrderNumber:  updated.OrderNumber,
		CustomerName: updated.CustomerName,
		Status:       updated.Status,
		ItemCount:    updated.ItemCount(),
		OccurredAt:   updated.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("order event not published", zap.String("order_number", updated.OrderNumber), zap.Error(err))
	}
	return updated, nil
}
