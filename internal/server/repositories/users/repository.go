package users

import (
	"context"
	"time"

	"github.com/tensillabs/teamspace/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	SetEmailVerified(ctx context.Context, userID string, verifiedAt time.Time) error
	Count(ctx context.Context) (int64, error)
	AcquireRegistrationLock(ctx context.Context) error
}
