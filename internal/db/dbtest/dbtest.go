// Package dbtest gives integration tests a migrated PostgreSQL pool and a
// throwaway tenant. Tests are skipped when DATABASE_URL is unset.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"dealdesk/api-service/internal/config"
	"dealdesk/api-service/internal/db"
)

// Pool returns a pool on DATABASE_URL with the schema applied, and the id of
// a fresh tenant that is deleted, with all its rows, when t finishes.
func Pool(t testing.TB) (*pgxpool.Pool, string) {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, db.Migrate(ctx, pool, config.DefaultTenantID))

	var tenantID string
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO tenants (name) VALUES ($1) RETURNING id::text`, t.Name()).Scan(&tenantID))
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM tenants WHERE id = $1`, tenantID)
	})
	return pool, tenantID
}

// Backdate sets created_at on row id of table to at, so ordering assertions
// do not depend on insert timing.
func Backdate(t testing.TB, pool *pgxpool.Pool, table, id string, at time.Time) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`UPDATE `+table+` SET created_at = $1 WHERE id = $2`, at, id)
	require.NoError(t, err)
}
