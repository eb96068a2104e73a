// Package auth registers and logs users in, and turns access tokens back into users
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nkiryanov/luhncheck/internal/apperrors"
	"github.com/nkiryanov/luhncheck/internal/models"
	"github.com/nkiryanov/luhncheck/internal/repository"
)

// Implemented by session.Issuer
type sessionIssuer interface {
	Issue(ctx context.Context, user models.User) (models.Session, error)
	Redeem(ctx context.Context, refresh string) (uuid.UUID, error)
	Verify(access string) (models.User, error)
}

type Service struct {
	users    repository.UserRepo
	sessions sessionIssuer
	hasher   PasswordHasher
}

// Nil hasher means Bcrypt with default cost
func NewService(users repository.UserRepo, sessions sessionIssuer, hasher PasswordHasher) *Service {
	if hasher == nil {
		hasher = Bcrypt{}
	}
	return &Service{users: users, sessions: sessions, hasher: hasher}
}

// Register creates user and opens the first session.
// Returns apperrors.ErrLoginTaken if login is registered already.
func (s *Service) Register(ctx context.Context, login string, password string) (models.Session, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.Session{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, login, hash)
	if err != nil {
		return models.Session{}, err
	}

	return s.sessions.Issue(ctx, user)
}

// Login returns apperrors.ErrBadCredentials both for unknown login and wrong password
func (s *Service) Login(ctx context.Context, login string, password string) (models.Session, error) {
	user, err := s.users.GetUserByLogin(ctx, login)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		s.hasher.Matches(decoyHash(), password)
		return models.Session{}, apperrors.ErrBadCredentials
	case err != nil:
		return models.Session{}, err
	}

	if !s.hasher.Matches(user.PasswordHash, password) {
		return models.Session{}, apperrors.ErrBadCredentials
	}

	return s.sessions.Issue(ctx, user)
}

// Refresh exchanges refresh token for a new session; the token is not valid afterwards
func (s *Service) Refresh(ctx context.Context, refresh string) (models.Session, error) {
	userID, err := s.sessions.Redeem(ctx, refresh)
	if err != nil {
		return models.Session{}, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return models.Session{}, err
	}

	return s.sessions.Issue(ctx, user)
}

// Authenticate returns the owner of the access token or apperrors.ErrUnauthorized
func (s *Service) Authenticate(access string) (models.User, error) {
	if access == "" {
		return models.User{}, apperrors.ErrUnauthorized
	}
	return s.sessions.Verify(access)
}
