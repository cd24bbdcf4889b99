package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error)
}
