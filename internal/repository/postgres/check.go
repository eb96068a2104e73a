package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/luhncheck/internal/models"
)

type CheckRepo struct {
	DB DBTX
}

const createCheck = `-- name: CreateCheck
INSERT INTO checks (id, user_id, number, normalized, valid, digits, reason, checked_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, user_id, number, normalized, valid, digits, reason, checked_at
`

func (r *CheckRepo) CreateCheck(ctx context.Context, c models.Check) (models.Check, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createCheck, c.ID, c.UserID, c.Number, c.Normalized, c.Valid, c.Digits, c.Reason, c.CheckedAt)
	check, err := pgx.CollectOneRow(rows, rowToCheck)
	if err != nil {
		return check, fmt.Errorf("db error: %w", err)
	}

	return check, nil
}

const listChecks = `-- name: ListChecks
SELECT id, user_id, number, normalized, valid, digits, reason, checked_at
FROM checks
WHERE user_id = $1
ORDER BY checked_at DESC, id
`

func (r *CheckRepo) ListChecks(ctx context.Context, userID uuid.UUID) ([]models.Check, error) {
	rows, _ := r.DB.Query(ctx, listChecks, userID)
	checks, err := pgx.CollectRows(rows, rowToCheck)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return checks, nil
}

const countChecks = `-- name: CountChecks
SELECT COUNT(*), COUNT(*) FILTER (WHERE valid)
FROM checks
WHERE user_id = $1
`

func (r *CheckRepo) CountChecks(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	var total, valid int64

	err := r.DB.QueryRow(ctx, countChecks, userID).Scan(&total, &valid)
	if err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}

	return total, valid, nil
}

func rowToCheck(row pgx.CollectableRow) (models.Check, error) {
	var c models.Check
	err := row.Scan(&c.ID, &c.UserID, &c.Number, &c.Normalized, &c.Valid, &c.Digits, &c.Reason, &c.CheckedAt)
	return c, err
}
