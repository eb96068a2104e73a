// Package session issues access and refresh tokens.
//
// Access token is a HS256 JWT carrying the user id and login, so authenticated
// requests need no database lookup. Refresh token is a random string usable once;
// the store keeps its sha256 digest only.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/luhncheck/internal/apperrors"
	"github.com/nkiryanov/luhncheck/internal/models"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 24 * time.Hour

	issuer       = "luhncheck"
	refreshBytes = 32
)

var signingMethod = jwt.SigningMethodHS256

type refreshStore interface {
	SaveRefreshToken(ctx context.Context, token models.RefreshToken) error
	UseRefreshToken(ctx context.Context, digest string, at time.Time) (models.RefreshToken, error)
}

type Config struct {
	// Required
	SecretKey string

	// Defaults are used if not set
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type claims struct {
	jwt.RegisteredClaims
	Login string `json:"login"`
}

type Issuer struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	store      refreshStore

	now func() time.Time
}

func NewIssuer(cfg Config, store refreshStore) (*Issuer, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("session: secret key is required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}

	return &Issuer{
		key:        []byte(cfg.SecretKey),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		store:      store,
		now:        time.Now,
	}, nil
}

// Issue signs access token for the user and saves a new refresh token
func (i *Issuer) Issue(ctx context.Context, user models.User) (models.Session, error) {
	// JWT dates have seconds precision
	now := i.now().Truncate(time.Second)

	access := models.Token{ExpiresAt: now.Add(i.accessTTL)}
	signed, err := jwt.NewWithClaims(signingMethod, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(access.ExpiresAt),
		},
		Login: user.Login,
	}).SignedString(i.key)
	if err != nil {
		return models.Session{}, fmt.Errorf("session: sign access token: %w", err)
	}
	access.Value = signed

	b := make([]byte, refreshBytes)
	if _, err := rand.Read(b); err != nil {
		return models.Session{}, fmt.Errorf("session: generate refresh token: %w", err)
	}
	refresh := models.Token{
		Value:     base64.RawURLEncoding.EncodeToString(b),
		ExpiresAt: now.Add(i.refreshTTL),
	}

	err = i.store.SaveRefreshToken(ctx, models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Digest:    Digest(refresh.Value),
		IssuedAt:  now,
		ExpiresAt: refresh.ExpiresAt,
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("session: save refresh token: %w", err)
	}

	return models.Session{Login: user.Login, Access: access, Refresh: refresh}, nil
}

// Redeem uses the refresh token up and returns its owner id
func (i *Issuer) Redeem(ctx context.Context, refresh string) (uuid.UUID, error) {
	now := i.now()

	token, err := i.store.UseRefreshToken(ctx, Digest(refresh), now)
	if err != nil {
		return uuid.Nil, err
	}
	if token.Expired(now) {
		return uuid.Nil, apperrors.ErrRefreshTokenExpired
	}

	return token.UserID, nil
}

// Verify checks access token and returns the user it was issued for.
// Only ID and Login of the user are set.
func (i *Issuer) Verify(access string) (models.User, error) {
	var c claims

	_, err := jwt.ParseWithClaims(access, &c,
		func(*jwt.Token) (any, error) { return i.key, nil },
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}

	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: bad subject: %w", apperrors.ErrUnauthorized, err)
	}

	return models.User{ID: id, Login: c.Login}, nil
}

// Digest is what the store keeps instead of the refresh token
func Digest(refresh string) string {
	sum := sha256.Sum256([]byte(refresh))
	return hex.EncodeToString(sum[:])
}
