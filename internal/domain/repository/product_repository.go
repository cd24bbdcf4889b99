package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products in a single query
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListAvailable returns products that can be sold, ordered by category then name
	ListAvailable(ctx context.Context) ([]entity.Product, error)
	// ListAll returns every product including unavailable ones, ordered by name
	ListAll(ctx context.Context) ([]entity.Product, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
}
