// Package workspaces provides a PostgreSQL-backed repository for tenant
// records and their memberships. Slug uniqueness is enforced by the table's
// UNIQUE constraint, so two racing registrations for the same name cannot
// both succeed; the loser surfaces common.ErrorWorkspaceTaken.
package workspaces

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tensillabs/teamspace/internal/common"
	"github.com/tensillabs/teamspace/internal/dbx"
	"github.com/tensillabs/teamspace/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a workspace. A duplicate slug yields common.ErrorWorkspaceTaken.
func (r *PostgresRepository) Create(ctx context.Context, workspace *models.Workspace) (*models.Workspace, error) {
	if workspace.ID == "" {
		workspace.ID = uuid.NewString()
	}

	query := `
		INSERT INTO workspaces (id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, workspace.ID, workspace.Name,
		workspace.Slug).Scan(&workspace.CreatedAt, &workspace.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorWorkspaceTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return workspace, nil
}

// SlugExists reports whether any workspace already uses the slug.
func (r *PostgresRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM workspaces WHERE slug = $1)`
	if err := r.db.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// AddMember links a user to a workspace with the given role.
func (r *PostgresRepository) AddMember(ctx context.Context, member *models.WorkspaceMember) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}

	query := `
		INSERT INTO workspace_members (id, workspace_id, user_id, role)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, member.ID, member.WorkspaceID,
		member.UserID, member.Role); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListByUser returns the workspaces the user belongs to, oldest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Workspace, error) {
	query := `
		SELECT w.id, w.name, w.slug, w.created_at, w.updated_at
		FROM workspaces w
		JOIN workspace_members m ON m.workspace_id = w.id
		WHERE m.user_id = $1
		ORDER BY w.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Workspace
	for rows.Next() {
		w := &models.Workspace{}
		if err := rows.Scan(&w.ID, &w.Name, &w.Slug, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
