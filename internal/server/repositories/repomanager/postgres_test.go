package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	refreshtokensrepo "github.com/tensillabs/teamspace/internal/server/repositories/refreshtokens"
	secretsrepo "github.com/tensillabs/teamspace/internal/server/repositories/secrets"
	usersrepo "github.com/tensillabs/teamspace/internal/server/repositories/users"
	workspacesrepo "github.com/tensillabs/teamspace/internal/server/repositories/workspaces"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := &PostgresRepositoryManager{}

	var _ usersrepo.Repository = m.Users(db)
	var _ secretsrepo.Repository = m.Secrets(db)
	var _ workspacesrepo.Repository = m.Workspaces(db)
	var _ refreshtokensrepo.Repository = m.RefreshTokens(db)

	if m.Users(db) == nil || m.Secrets(db) == nil || m.Workspaces(db) == nil || m.RefreshTokens(db) == nil {
		t.Fatal("factory returned nil repository")
	}
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}
