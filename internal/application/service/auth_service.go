package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/repository"
	"github.com/sangkips/mscheesy-pos/pkg/apperror"
	"github.com/sangkips/mscheesy-pos/pkg/utils"
	"go.uber.org/zap"
)

// AuthService signs staff in and resolves the current user
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User        *entity.User
	AccessToken string
	ExpiresAt   time.Time
}

// Login checks the password and issues a token carrying roles and permissions
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, apperror.NewPersistenceError("Could not sign in right now", err)
	}
	if user == nil || !utils.CheckPasswordHash(input.Password, user.Password) {
		s.logger.Info("failed login", zap.String("email", input.Email))
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.RoleNames(), user.GetPermissions())
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:        user,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.jwtManager.AccessTokenExpiry()),
	}, nil
}

// GetCurrentUser loads the signed-in user with roles
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, apperror.NewPersistenceError("Could not load profile", err)
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}
