package services

import (
	"context"
	"errors"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
	"github.com/SealGummies/online-learning-platform/internal/pkg/apperrors"
	"github.com/SealGummies/online-learning-platform/internal/pkg/auth"
	"github.com/SealGummies/online-learning-platform/internal/pkg/logger"
)

type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type tokenIssuer interface {
	GenerateToken(user *models.User) (string, error)
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string, role models.RoleType) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	users  userStore
	tokens tokenIssuer
}

// NewAuthService creates a new AuthService
func NewAuthService(users userStore, tokens tokenIssuer) AuthService {
	return &authServiceImpl{users: users, tokens: tokens}
}

// Register creates an account and returns it with a signed access token.
// Admin accounts are provisioned out of band, never through this endpoint.
func (s *authServiceImpl) Register(ctx context.Context, email, password, firstName, lastName string, role models.RoleType) (*models.User, string, error) {
	if role == "" {
		role = models.RoleStudent
	}
	if role != models.RoleStudent && role != models.RoleInstructor {
		return nil, "", apperrors.NewValidationError("role must be STUDENT or INSTRUCTOR")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: firstName,
		LastName:  lastName,
		RoleType:  role,
		IsActive:  true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	logger.Info().Int64("userId", user.ID).Str("role", string(role)).Msg("User registered")
	return user, token, nil
}

// Login verifies credentials and returns the account with a signed access
// token. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !auth.CheckPassword(password, user.Password) {
		return nil, "", apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", apperrors.NewForbiddenError("account is deactivated")
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetUser retrieves the account behind an authenticated caller's id
func (s *authServiceImpl) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}
