package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/pkg/pagination"
)

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	StartDate  *time.Time
	EndDate    *time.Time
	Search     string
}

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// ListBetween returns sales with items and order, oldest first. Zero times leave the bound open.
	ListBetween(ctx context.Context, start, end time.Time) ([]entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	// GetReceipt rebuilds the receipt of a stored sale.
	GetReceipt(ctx context.Context, id uuid.UUID) (*entity.ReceiptData, error)
	MarkReceiptPrinted(ctx context.Context, id uuid.UUID) error
}
