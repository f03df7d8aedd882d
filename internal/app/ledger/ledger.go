/*
Package ledger persists display-name registrations.

Registering a name is a fire-and-forget write from the game's point of view:
the HTTP handler answers immediately and the insert lands asynchronously.
The ledger is the one piece of state that intentionally survives a process
restart, so it lives in Postgres rather than next to the presence map.
*/
package ledger

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// ErrNameTaken is returned when the requested name is already registered.
var ErrNameTaken = errors.New("name already registered")

// Registry is the boundary to the name ledger.
type Registry interface {
	// Register writes a name-to-address binding. Registering an already
	// taken name returns ErrNameTaken.
	Register(ctx context.Context, name, address string) error

	// IsAvailable reports whether the name has not been registered yet.
	IsAvailable(ctx context.Context, name string) (bool, error)
}

// NewPool opens a PostgreSQL connection pool and applies pending migrations.
func NewPool(dsn string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DSN: %w", err)
	}

	config.MaxConns = 10
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := runMigrations(sqlDB); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// runMigrations applies all pending migrations from the embedded file system.
func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// pgRegistry implements Registry on a pgx pool.
type pgRegistry struct {
	pool *pgxpool.Pool
}

// NewRegistry wraps a connection pool in the Registry interface.
func NewRegistry(pool *pgxpool.Pool) Registry {
	return &pgRegistry{pool: pool}
}

// Register inserts the binding, mapping a unique violation to ErrNameTaken.
func (r *pgRegistry) Register(ctx context.Context, name, address string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO registered_names (name, address) VALUES ($1, $2)`,
		name, address,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrNameTaken
		}
		return fmt.Errorf("failed to register name: %w", err)
	}

	return nil
}

// IsAvailable checks whether the name is still free.
func (r *pgRegistry) IsAvailable(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM registered_names WHERE name = $1)`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up name: %w", err)
	}

	return !exists, nil
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
