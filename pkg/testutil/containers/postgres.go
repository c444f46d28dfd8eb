//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	Container testcontainers.Container
	URL       string
	Pool      *pgxpool.Pool
}

// NewPostgresContainer starts a new PostgreSQL container and connects a pgx
// pool to it.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("workpaper"),
		tcpostgres.WithUsername("workpaper"),
		tcpostgres.WithPassword("workpaper"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect pgx pool: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	return &PostgresContainer{
		Container: container,
		URL:       url,
		Pool:      pool,
	}
}

// DB opens a database/sql handle for stores built on lib/pq.
func (p *PostgresContainer) DB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("postgres", p.URL)
	if err != nil {
		t.Fatalf("failed to open sql handle: %v", err)
	}
	return db
}

// ExecSchema applies DDL statements, failing the test on error.
func (p *PostgresContainer) ExecSchema(t *testing.T, ddl string) {
	t.Helper()

	if _, err := p.Pool.Exec(context.Background(), ddl); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
}
