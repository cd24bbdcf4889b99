package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/metrics"
	"github.com/sangkips/mscheesy-pos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestKitchen(orders *stubOrderRepo) (*KitchenService, *recordingPublisher, *metrics.Registry) {
	pub := &recordingPublisher{}
	registry := metrics.NewRegistry()
	return NewKitchenService(orders, pub, registry, 30*time.Second, zap.NewNop()), pub, registry
}

func seedOrder(repo *stubOrderRepo, number string, status enum.OrderStatus, updated time.Time) *entity.Order {
	o := &entity.Order{
		ID:           uuid.New(),
		OrderNumber:  number,
		CustomerName: "Juan",
		Status:       status,
		CreatedAt:    updated,
		UpdatedAt:    updated,
	}
	repo.orders[o.ID] = o
	return o
}

func TestKitchen_AdvanceWalksTheLine(t *testing.T) {
	repo := newStubOrderRepo()
	order := seedOrder(repo, "#001", enum.OrderStatusPending, placedAt)
	svc, pub, registry := newTestKitchen(repo)
	ctx := context.Background()

	for _, want := range []enum.OrderStatus{enum.OrderStatusPreparing, enum.OrderStatusReady, enum.OrderStatusCompleted} {
		updated, err := svc.Advance(ctx, order.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, want, updated.Status)
	}

	_, err := svc.Advance(ctx, order.ID, nil)
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)

	require.Len(t, pub.events, 3)
	assert.Equal(t, entity.OrderEventStatusChanged, pub.events[2].Type)
	assert.Equal(t, enum.OrderStatusCompleted, pub.events[2].Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(registry.StatusTransitions.WithLabelValues("ready")))
}

func TestKitchen_UpdateStatusRejectsSkips(t *testing.T) {
	repo := newStubOrderRepo()
	order := seedOrder(repo, "#001", enum.OrderStatusPending, placedAt)
	svc, pub, _ := newTestKitchen(repo)

	_, err := svc.UpdateStatus(context.Background(), order.ID, enum.OrderStatusReady, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, "Order cannot move from pending to ready", err.Error())
	assert.Equal(t, enum.OrderStatusPending, repo.orders[order.ID].Status)
	assert.Empty(t, pub.events)

	_, err = svc.UpdateStatus(context.Background(), order.ID, enum.OrderStatus(9), nil)
	assert.True(t, apperror.IsValidation(err))
}

func TestKitchen_UpdateStatusKeepsNotes(t *testing.T) {
	repo := newStubOrderRepo()
	order := seedOrder(repo, "#002", enum.OrderStatusPending, placedAt)
	svc, _, _ := newTestKitchen(repo)
	notes := "no onions"

	updated, err := svc.UpdateStatus(context.Background(), order.ID, enum.OrderStatusPreparing, &notes)
	require.NoError(t, err)
	require.NotNil(t, updated.KitchenNotes)
	assert.Equal(t, "no onions", *updated.KitchenNotes)
}

func TestKitchen_UnknownOrder(t *testing.T) {
	svc, _, _ := newTestKitchen(newStubOrderRepo())
	_, err := svc.Advance(context.Background(), uuid.New(), nil)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestKitchen_CompletedOrdersLeaveAfterDelay(t *testing.T) {
	repo := newStubOrderRepo()
	now := placedAt.Add(time.Hour)
	seedOrder(repo, "#001", enum.OrderStatusReady, placedAt)
	seedOrder(repo, "#002", enum.OrderStatusCompleted, now.Add(-10*time.Second))
	seedOrder(repo, "#003", enum.OrderStatusCompleted, now.Add(-time.Minute))
	svc, _, _ := newTestKitchen(repo)
	svc.now = func() time.Time { return now }

	orders, err := svc.ActiveOrders(context.Background())
	require.NoError(t, err)
	numbers := make([]string, 0, len(orders))
	for _, o := range orders {
		numbers = append(numbers, o.OrderNumber)
	}
	assert.ElementsMatch(t, []string{"#001", "#002"}, numbers)
}
