package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/luhncheck/internal/apperrors"
	"github.com/nkiryanov/luhncheck/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const saveRefreshToken = `-- name: SaveRefreshToken
INSERT INTO refresh_tokens (id, user_id, digest, issued_at, expires_at)
VALUES ($1, $2, $3, $4, $5)
`

func (r *RefreshTokenRepo) SaveRefreshToken(ctx context.Context, t models.RefreshToken) error {
	_, err := r.DB.Exec(ctx, saveRefreshToken, t.ID, t.UserID, t.Digest, t.IssuedAt, t.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// The row is locked, so concurrent uses of the same token see each other.
// Last column tells whether the token was used before this statement.
const useRefreshToken = `-- name: UseRefreshToken
WITH target AS (
	SELECT id, used_at FROM refresh_tokens WHERE digest = $1 FOR UPDATE
)
UPDATE refresh_tokens t
SET used_at = COALESCE(target.used_at, $2)
FROM target
WHERE t.id = target.id
RETURNING t.id, t.user_id, t.digest, t.issued_at, t.expires_at, t.used_at, target.used_at IS NOT NULL
`

func (r *RefreshTokenRepo) UseRefreshToken(ctx context.Context, digest string, at time.Time) (models.RefreshToken, error) {
	var (
		t       models.RefreshToken
		usedYet bool
	)

	err := r.DB.QueryRow(ctx, useRefreshToken, digest, at).
		Scan(&t.ID, &t.UserID, &t.Digest, &t.IssuedAt, &t.ExpiresAt, &t.UsedAt, &usedYet)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return t, apperrors.ErrRefreshTokenNotFound
	case err != nil:
		return t, fmt.Errorf("db error: %w", err)
	case usedYet:
		return t, apperrors.ErrRefreshTokenIsUsed
	}
	return t, nil
}

const deleteExpired = `-- name: DeleteExpiredRefreshTokens
DELETE FROM refresh_tokens WHERE expires_at < $1
`

func (r *RefreshTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteExpired, before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected(), nil
}
