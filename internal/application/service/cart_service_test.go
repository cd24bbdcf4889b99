package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCartService(products ...entity.Product) (*CartService, *stubOrderRepo) {
	orders := newStubOrderRepo()
	return NewCartService(newStubProductRepo(products...), orders, zap.NewNop()), orders
}

func TestCartService_AddItemIncrementsExistingLine(t *testing.T) {
	classic := product("The Classic", 18999, enum.CategorySandwiches)
	svc, _ := newTestCartService(classic)
	ctx := context.Background()

	_, notice, err := svc.AddItem(ctx, "t1", classic.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.NoticeInfo, notice.Level)
	assert.Equal(t, "The Classic added to order", notice.Message)

	cart, _, err := svc.AddItem(ctx, "t1", classic.ID)
	require.NoError(t, err)
	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, int64(37998), cart.Subtotal())
	assert.Equal(t, cart.Subtotal(), cart.Total())
}

func TestCartService_AddUnavailableProductWarns(t *testing.T) {
	soup := product("Tomato Soup", 9550, enum.CategorySides)
	soup.IsAvailable = false
	svc, _ := newTestCartService(soup)

	cart, notice, err := svc.AddItem(context.Background(), "t1", soup.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.NoticeWarning, notice.Level)
	assert.Equal(t, "Tomato Soup is currently unavailable", notice.Message)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_AddUnknownProduct(t *testing.T) {
	svc, _ := newTestCartService()

	_, _, err := svc.AddItem(context.Background(), "t1", uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestCartService_UpdateQuantityZeroRemoves(t *testing.T) {
	cola := product("Cola", 5550, enum.CategoryDrinks)
	fries := product("French Fries", 7550, enum.CategorySides)
	svc, _ := newTestCartService(cola, fries)
	ctx := context.Background()

	_, _, _ = svc.AddItem(ctx, "t1", cola.ID)
	_, _, _ = svc.AddItem(ctx, "t1", fries.ID)

	viaUpdate, err := svc.UpdateQuantity(ctx, "t1", cola.ID, 0)
	require.NoError(t, err)

	other, _ := newTestCartService(cola, fries)
	_, _, _ = other.AddItem(ctx, "t2", cola.ID)
	_, _, _ = other.AddItem(ctx, "t2", fries.ID)
	viaRemove, err := other.RemoveItem(ctx, "t2", cola.ID)
	require.NoError(t, err)

	assert.Equal(t, len(viaRemove.Lines()), len(viaUpdate.Lines()))
	assert.Equal(t, viaRemove.Subtotal(), viaUpdate.Subtotal())
	assert.Equal(t, fries.ID, viaUpdate.Lines()[0].Product.ID)
}

func TestCartService_UpdateQuantitySetsValue(t *testing.T) {
	cola := product("Cola", 5550, enum.CategoryDrinks)
	svc, _ := newTestCartService(cola)
	ctx := context.Background()

	_, _, _ = svc.AddItem(ctx, "t1", cola.ID)
	cart, err := svc.UpdateQuantity(ctx, "t1", cola.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Lines()[0].Quantity)

	_, err = svc.UpdateQuantity(ctx, "t1", uuid.New(), 2)
	assert.Error(t, err)
}

func TestCartService_TerminalsAreIndependent(t *testing.T) {
	cola := product("Cola", 5550, enum.CategoryDrinks)
	svc, _ := newTestCartService(cola)
	ctx := context.Background()

	_, _, _ = svc.AddItem(ctx, "front", cola.ID)
	back, err := svc.Get(ctx, "back")
	require.NoError(t, err)
	assert.True(t, back.IsEmpty())
}

func TestCartService_OrderNumberPreview(t *testing.T) {
	svc, orders := newTestCartService()
	orders.count = 3

	cart, err := svc.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "#004", cart.OrderNumber)
}

func TestCartService_ClearResetsEverything(t *testing.T) {
	cola := product("Cola", 5550, enum.CategoryDrinks)
	svc, _ := newTestCartService(cola)
	ctx := context.Background()

	_, _, _ = svc.AddItem(ctx, "t1", cola.ID)
	_, _ = svc.SetCustomerName(ctx, "t1", "Juan")

	cart, err := svc.Clear(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Empty(t, cart.CustomerName)
	assert.False(t, cart.Submitting)
	assert.Equal(t, enum.CheckoutIdle, cart.State)
}

func TestCartService_MutationsRejectedWhileSubmitting(t *testing.T) {
	cola := product("Cola", 5550, enum.CategoryDrinks)
	svc, _ := newTestCartService(cola)
	ctx := context.Background()

	_, _, _ = svc.AddItem(ctx, "t1", cola.ID)
	_, _ = svc.SetCustomerName(ctx, "t1", "Ana")
	_, err := svc.beginCheckout("t1", func(*entity.Cart) error { return nil })
	require.NoError(t, err)

	_, _, err = svc.AddItem(ctx, "t1", cola.ID)
	assert.ErrorIs(t, err, apperror.ErrCheckoutInProgress)
	_, err = svc.Clear(ctx, "t1")
	assert.ErrorIs(t, err, apperror.ErrCheckoutInProgress)
}

func TestCartService_SnapshotIsDetached(t *testing.T) {
	cola := product("Cola", 5550, enum.CategoryDrinks)
	svc, _ := newTestCartService(cola)
	ctx := context.Background()

	first, _, _ := svc.AddItem(ctx, "t1", cola.ID)
	_, _, _ = svc.AddItem(ctx, "t1", cola.ID)

	assert.Equal(t, 1, first.Lines()[0].Quantity)
}

func TestCartService_EvictIdleKeepsRecentAndSubmittingCarts(t *testing.T) {
	fries := product("Fries", 7550, enum.CategorySides)
	svc, _ := newTestCartService(fries)
	ctx := context.Background()

	for _, id := range []string{"idle", "recent", "busy"} {
		_, _, err := svc.AddItem(ctx, id, fries.ID)
		require.NoError(t, err)
	}
	_, err := svc.beginCheckout("busy", func(*entity.Cart) error { return nil })
	require.NoError(t, err)

	stale := time.Now().Add(-2 * time.Hour)
	svc.carts["idle"].UpdatedAt = stale
	svc.carts["busy"].UpdatedAt = stale

	assert.Equal(t, 1, svc.EvictIdle(time.Now().Add(-time.Hour)))

	_, ok := svc.carts["idle"]
	assert.False(t, ok)
	assert.Contains(t, svc.carts, "recent")
	assert.True(t, svc.carts["busy"].Submitting)

	fresh, err := svc.Get(ctx, "idle")
	require.NoError(t, err)
	assert.Empty(t, fresh.Lines())
}
