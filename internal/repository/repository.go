package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/luhncheck/internal/models"
)

type UserRepo interface {
	// Has to return apperrors.ErrLoginTaken if the login is registered already
	CreateUser(ctx context.Context, login string, passwordHash string) (models.User, error)

	// Both have to return apperrors.ErrUserNotFound if there is no such user
	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByLogin(ctx context.Context, login string) (models.User, error)
}

type RefreshTokenRepo interface {
	SaveRefreshToken(ctx context.Context, token models.RefreshToken) error

	// UseRefreshToken sets used_at of the token with the digest and returns the token.
	// Token used before is returned with apperrors.ErrRefreshTokenIsUsed, its used_at is kept.
	// Unknown digest is apperrors.ErrRefreshTokenNotFound.
	UseRefreshToken(ctx context.Context, digest string, at time.Time) (models.RefreshToken, error)

	// Delete tokens expired before the moment, returns deleted count
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Check repository interface
type CheckRepo interface {
	// Save check result
	CreateCheck(ctx context.Context, check models.Check) (models.Check, error)

	// User checks, newest first
	ListChecks(ctx context.Context, userID uuid.UUID) ([]models.Check, error)

	// Count total and valid user checks
	CountChecks(ctx context.Context, userID uuid.UUID) (total int64, valid int64, err error)
}

// Storage gives access to every repository sharing the same connection
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Check() CheckRepo

	// Run fn in transaction: commit if fn returns nil, rollback otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}
