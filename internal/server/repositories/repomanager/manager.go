// Package repomanager defines the factory interface the services use to
// obtain repositories bound to a plain connection or to a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/tensillabs/teamspace/internal/dbx"
	"github.com/tensillabs/teamspace/internal/server/repositories/refreshtokens"
	"github.com/tensillabs/teamspace/internal/server/repositories/secrets"
	"github.com/tensillabs/teamspace/internal/server/repositories/users"
	"github.com/tensillabs/teamspace/internal/server/repositories/workspaces"
)

// RepositoryManager vends repository implementations bound to the provided
// DBTX, so the same repository code runs inside and outside transactions.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Secrets(db dbx.DBTX) secrets.Repository
	Workspaces(db dbx.DBTX) workspaces.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
