package secrets

import (
	"context"
	"time"

	"github.com/tensillabs/teamspace/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, secret *models.UserSecret) error
	GetByUserID(ctx context.Context, userID string) (*models.UserSecret, error)
	SetVerificationOTP(ctx context.Context, userID, otp string, expires time.Time) error
	ConsumeVerificationOTP(ctx context.Context, userID, otp string, now time.Time) error
	UpsertResetOTP(ctx context.Context, userID, otp string, expires time.Time) error
	ConsumeResetOTP(ctx context.Context, userID, otp string, now time.Time, newPasswordHash string) error
}
