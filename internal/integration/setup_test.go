package integration

import (
	"context"
	"os"
	"testing"

	"crypto_cashier/internal/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// openDB connects to DATABASE_URL, migrates it and empties every table.
func openDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	_, err := migrations.Up(dsn)
	require.NoError(t, err, "apply migrations")

	db, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err, "connect db")
	t.Cleanup(db.Close)

	_, err = db.Exec(context.Background(), `
		TRUNCATE deposits, withdrawals, promotions, games, system_config, audit_logs, users`)
	require.NoError(t, err)
	return db
}
