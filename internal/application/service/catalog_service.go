package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/internal/domain/repository"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/cache"
	"github.com/sangkips/mscheesy-pos/pkg/apperror"
	"go.uber.org/zap"
)

// Catalog cache keys. Every product write invalidates productCachePattern.
const (
	productCachePattern   = "products"
	availableProductsKey  = "products:available"
	allProductsKey        = "products:all"
	productLoadFailureMsg = "Could not load products, please try again"
)

// CatalogService serves the menu to terminals and lets admins edit it
type CatalogService struct {
	productRepo repository.ProductRepository
	cache       cache.Cache
	ttl         time.Duration
	logger      *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(productRepo repository.ProductRepository, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		cache:       c,
		ttl:         ttl,
		logger:      logger,
	}
}

// ProductInput represents the fields an admin may set on a product
type ProductInput struct {
	Name        *string
	Price       *int64 // cents
	Category    *enum.ProductCategory
	ImageURL    *string
	Description *string
	IsAvailable *bool
}

func (s *CatalogService) cached(ctx context.Context, key string, load func(context.Context) ([]entity.Product, error)) ([]entity.Product, error) {
	var products []entity.Product
	hit, err := cache.GetJSON(ctx, s.cache, key, &products)
	if err != nil {
		s.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return products, nil
	}

	products, err = load(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError(productLoadFailureMsg, err)
	}
	if products == nil {
		products = []entity.Product{}
	}
	if err := cache.SetJSON(ctx, s.cache, key, products, s.ttl); err != nil {
		s.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
	return products, nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, productCachePattern); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

// FetchAvailableProducts returns the products a cashier can sell
func (s *CatalogService) FetchAvailableProducts(ctx context.Context) ([]entity.Product, error) {
	return s.cached(ctx, availableProductsKey, s.productRepo.ListAvailable)
}

// FetchAllProducts returns every product, unavailable ones included
func (s *CatalogService) FetchAllProducts(ctx context.Context) ([]entity.Product, error) {
	return s.cached(ctx, allProductsKey, s.productRepo.ListAll)
}

// GetProduct reads one product from the store, bypassing the cache
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError(productLoadFailureMsg, err)
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// Categories returns the fixed menu sections
func (s *CatalogService) Categories() []enum.ProductCategory {
	return enum.ProductCategories()
}

func validateProduct(p *entity.Product) error {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(p.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if p.Price < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "Price cannot be negative"})
	}
	if !p.Category.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "category", Message: "Unknown category"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func applyProductInput(p *entity.Product, input *ProductInput) {
	if input.Name != nil {
		p.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if input.Category != nil {
		p.Category = *input.Category
	}
	if input.ImageURL != nil {
		p.ImageURL = input.ImageURL
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.IsAvailable != nil {
		p.IsAvailable = *input.IsAvailable
	}
}

// CreateProduct adds a product to the menu
func (s *CatalogService) CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	product := &entity.Product{IsAvailable: true}
	applyProductInput(product, input)
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, apperror.NewPersistenceError("Could not save product", err)
	}
	s.invalidate(ctx)
	s.logger.Info("product created", zap.String("product_id", product.ID.String()), zap.String("name", product.Name))
	return product, nil
}

// UpdateProduct changes the given fields of a product
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input *ProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProductInput(product, input)
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, apperror.NewPersistenceError("Could not save product", err)
	}
	s.invalidate(ctx)
	return product, nil
}

// SetAvailability marks a product as sellable or not
func (s *CatalogService) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*entity.Product, error) {
	return s.UpdateProduct(ctx, id, &ProductInput{IsAvailable: &available})
}

// DeleteProduct removes a product from the menu. Past orders keep their snapshot.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return apperror.NewPersistenceError("Could not delete product", err)
	}
	s.invalidate(ctx)
	return nil
}
