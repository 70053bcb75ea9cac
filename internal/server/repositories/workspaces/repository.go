package workspaces

import (
	"context"

	"github.com/tensillabs/teamspace/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, workspace *models.Workspace) (*models.Workspace, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	AddMember(ctx context.Context, member *models.WorkspaceMember) error
	ListByUser(ctx context.Context, userID string) ([]*models.Workspace, error)
}
