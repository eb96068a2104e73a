// Package testutil starts throwaway postgres for tests and keeps every test inside a rolled back transaction
package testutil

import (
	"context"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/nkiryanov/luhncheck/internal/db"
)

const postgresImage = "postgres:17-alpine"

// Free TCP address on loopback to start a server on
func FreeAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "no free port on loopback")
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	return addr
}

type Postgres struct {
	DSN  string
	Pool *pgxpool.Pool
}

// StartPostgres runs migrated postgres in a container.
// Container and pool are released on test cleanup.
func StartPostgres(t *testing.T) *Postgres {
	t.Helper()

	container, err := postgres.Run(t.Context(),
		postgresImage,
		postgres.WithDatabase("luhncheck"),
		postgres.WithUsername("luhncheck"),
		postgres.WithPassword("luhncheck"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "postgres container not started, is docker running?")

	dsn, err := container.ConnectionString(t.Context(), "sslmode=disable")
	require.NoError(t, err)

	pool, err := db.ConnectAndMigrate(t.Context(), dsn)
	require.NoError(t, err, "postgres not migrated")
	t.Cleanup(pool.Close)

	return &Postgres{DSN: dsn, Pool: pool}
}

type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// InTx runs fn in transaction which is rolled back afterwards
func InTx(t *testing.T, db beginner, fn func(tx pgx.Tx)) {
	t.Helper()

	tx, err := db.Begin(t.Context())
	require.NoError(t, err)
	defer func() {
		require.NoError(t, tx.Rollback(t.Context()))
	}()

	fn(tx)
}

// User inserts a user row directly, so rows of other tables have an owner
func User(t *testing.T, tx pgx.Tx, login string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := tx.Exec(t.Context(), `INSERT INTO users (id, login, password_hash) VALUES ($1, $2, 'x')`, id, login)
	require.NoError(t, err, "test user not created")

	return id
}
