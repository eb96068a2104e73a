package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/luhncheck/internal/apperrors"
	"github.com/nkiryanov/luhncheck/internal/models"
)

type UserRepo struct {
	DB DBTX
}

const userColumns = `id, login, password_hash, registered_at`

const createUser = `-- name: CreateUser
INSERT INTO users (id, login, password_hash)
VALUES ($1, $2, $3)
RETURNING ` + userColumns

func (r *UserRepo) CreateUser(ctx context.Context, login string, passwordHash string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser, uuid.New(), login, passwordHash)
	u, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.User])

	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return u, nil
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
		return u, apperrors.ErrLoginTaken
	default:
		return u, fmt.Errorf("db error: %w", err)
	}
}

const userByID = `-- name: GetUserByID
SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return r.getOne(ctx, userByID, id)
}

const userByLogin = `-- name: GetUserByLogin
SELECT ` + userColumns + ` FROM users WHERE login = $1`

func (r *UserRepo) GetUserByLogin(ctx context.Context, login string) (models.User, error) {
	return r.getOne(ctx, userByLogin, login)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (models.User, error) {
	rows, _ := r.DB.Query(ctx, query, arg)
	u, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.User])

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return u, apperrors.ErrUserNotFound
	case err != nil:
		return u, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}
