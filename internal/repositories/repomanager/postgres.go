// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/lankamar/bicauth/internal/dbx"
	"github.com/lankamar/bicauth/internal/migrations"
	"github.com/lankamar/bicauth/internal/repositories/invites"
	"github.com/lankamar/bicauth/internal/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Invites returns an invites.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Invites(db dbx.DBTX) invites.Repository {
	return invites.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
