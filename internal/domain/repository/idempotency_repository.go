package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and user ID
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	// Save stores a processed response. A key already stored for the user is left untouched.
	Save(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes keys that expired before the given time and returns how many went
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
