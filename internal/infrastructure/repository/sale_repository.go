package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/mscheesy-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Items").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) ListBetween(ctx context.Context, start, end time.Time) ([]entity.Sale, error) {
	var sales []entity.Sale
	query := r.db.WithContext(ctx).Model(&entity.Sale{})
	if !start.IsZero() {
		query = query.Where("sale_date >= ?", start)
	}
	if !end.IsZero() {
		query = query.Where("sale_date <= ?", end)
	}
	err := query.
		Preload("Order").
		Preload("Items").
		Order("sale_date ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Sale{})

	if params.Search != "" {
		query = query.Where("receipt_number ILIKE ? OR customer_name ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.StartDate != nil {
		query = query.Where("sale_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("sale_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Order").
		Preload("Items").
		Order("sale_date DESC").
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepository) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.ReceiptData, error) {
	sale, err := r.GetByID(ctx, id)
	if err != nil || sale == nil {
		return nil, err
	}

	session, err := decodeBlob(sale.ReceiptData)
	if err != nil {
		return nil, err
	}
	data, err := NormalizeReceipt(mergeRecords(session, saleRecord(sale)))
	if err != nil {
		return nil, fmt.Errorf("sale %s: %w", sale.ID, err)
	}
	return &data, nil
}

func (r *saleRepository) MarkReceiptPrinted(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"receipt_printed": true,
			"updated_at":      time.Now(),
		}).Error
}
