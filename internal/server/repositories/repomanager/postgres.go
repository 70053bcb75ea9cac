// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/tensillabs/teamspace/internal/dbx"
	"github.com/tensillabs/teamspace/internal/server/migrations"
	"github.com/tensillabs/teamspace/internal/server/repositories/refreshtokens"
	"github.com/tensillabs/teamspace/internal/server/repositories/secrets"
	"github.com/tensillabs/teamspace/internal/server/repositories/users"
	"github.com/tensillabs/teamspace/internal/server/repositories/workspaces"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Secrets returns a secrets.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Secrets(db dbx.DBTX) secrets.Repository {
	return secrets.NewPostgresRepository(db)
}

// Workspaces returns a workspaces.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Workspaces(db dbx.DBTX) workspaces.Repository {
	return workspaces.NewPostgresRepository(db)
}

// RefreshTokens returns a refreshtokens.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("pgx")
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
