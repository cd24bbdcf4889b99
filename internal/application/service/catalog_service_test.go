package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/cache"
	"github.com/sangkips/mscheesy-pos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCatalog(products ...entity.Product) (*CatalogService, *stubProductRepo, *cache.MemoryCache) {
	repo := newStubProductRepo(products...)
	mem := cache.NewMemoryCache()
	return NewCatalogService(repo, mem, time.Minute, zap.NewNop()), repo, mem
}

func TestCatalog_AvailableProductsServedFromCache(t *testing.T) {
	soup := product("Tomato Soup", 9550, enum.CategorySides)
	soup.IsAvailable = false
	svc, repo, _ := newTestCatalog(product("The Classic", 18999, enum.CategorySandwiches), soup)
	ctx := context.Background()

	first, err := svc.FetchAvailableProducts(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "The Classic", first[0].Name)
	assert.Equal(t, int64(18999), first[0].Price)

	second, err := svc.FetchAvailableProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, 1, repo.listHits)
}

func TestCatalog_WritesInvalidateCache(t *testing.T) {
	classic := product("The Classic", 18999, enum.CategorySandwiches)
	svc, repo, _ := newTestCatalog(classic)
	ctx := context.Background()

	_, err := svc.FetchAvailableProducts(ctx)
	require.NoError(t, err)

	_, err = svc.SetAvailability(ctx, classic.ID, false)
	require.NoError(t, err)

	products, err := svc.FetchAvailableProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)
	assert.Equal(t, 2, repo.listHits)
}

func TestCatalog_FetchAllIncludesUnavailable(t *testing.T) {
	soup := product("Tomato Soup", 9550, enum.CategorySides)
	soup.IsAvailable = false
	svc, _, _ := newTestCatalog(soup)

	products, err := svc.FetchAllProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestCatalog_LoadFailureIsPersistenceError(t *testing.T) {
	svc, repo, _ := newTestCatalog()
	repo.listErr = errStoreDown

	_, err := svc.FetchAvailableProducts(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.IsPersistence(err))
	assert.Equal(t, productLoadFailureMsg, err.Error())
}

func TestCatalog_CreateProductValidates(t *testing.T) {
	svc, _, _ := newTestCatalog()
	name, price, category := " ", int64(-1), enum.ProductCategory("Desserts")

	_, err := svc.CreateProduct(context.Background(), &ProductInput{Name: &name, Price: &price, Category: &category})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)
	fields := make([]string, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"name", "price", "category"}, fields)
}

func TestCatalog_CreateProductDefaultsToAvailable(t *testing.T) {
	svc, repo, _ := newTestCatalog()
	name, price, category := "Iced Tea", int64(4500), enum.CategoryDrinks

	created, err := svc.CreateProduct(context.Background(), &ProductInput{Name: &name, Price: &price, Category: &category})
	require.NoError(t, err)
	assert.True(t, created.IsAvailable)
	stored, _ := repo.GetByID(context.Background(), created.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "Iced Tea", stored.Name)
}

func TestCatalog_DeleteUnknownProduct(t *testing.T) {
	svc, _, _ := newTestCatalog()
	err := svc.DeleteProduct(context.Background(), product("x", 1, enum.CategorySnacks).ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
