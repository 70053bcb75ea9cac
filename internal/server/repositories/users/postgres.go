// Package users provides a PostgreSQL-backed repository for identity
// records. Email is a unique key and is compared byte-exact; duplicate
// inserts surface as common.ErrorEmailTaken.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const userColumns = `id, email, first_name, middle_name, last_name, display_name,
	 avatar_url, auth_provider, provider_id, email_verified, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.FirstName, &user.MiddleName,
		&user.LastName, &user.DisplayName, &user.AvatarURL, &user.AuthProvider,
		&user.ProviderID, &user.EmailVerified, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// Create inserts a new user. The id is generated here when the caller left
// it empty. A duplicate email yields common.ErrorEmailTaken.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query := `
		INSERT INTO users (id, email, first_name, middle_name, last_name,
		                   display_name, avatar_url, auth_provider, provider_id, email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.FirstName, user.MiddleName, user.LastName,
		user.DisplayName, user.AvatarURL, user.AuthProvider, user.ProviderID,
		user.EmailVerified).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorEmailTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// GetByEmail returns the user with the given email (byte-exact match).
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByID returns the user with the given id, or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// SetEmailVerified stamps the user's verification time.
func (r *PostgresRepository) SetEmailVerified(ctx context.Context, userID string, verifiedAt time.Time) error {
	query := `
		UPDATE users SET email_verified = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, userID, verifiedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Count returns the total number of user rows. The self-hosted registration
// gate uses it to decide whether an admin already exists.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// registrationLockID keys the advisory lock serializing registrations.
const registrationLockID int64 = 0x7465616d

// AcquireRegistrationLock blocks until the current transaction holds the
// advisory lock serializing registrations, so a count-then-insert gate sees
// no concurrent inserts. Postgres releases the lock at commit or rollback;
// calling this outside a transaction is a bug.
func (r *PostgresRepository) AcquireRegistrationLock(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, registrationLockID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
