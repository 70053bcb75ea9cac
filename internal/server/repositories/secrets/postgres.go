// Package secrets provides a PostgreSQL-backed repository for per-user
// credential material: the password hash and the outstanding one-time codes.
//
// Code consumption is a single conditional UPDATE that matches and clears
// in one statement, so two concurrent attempts can never both succeed on
// the same code.
package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

// Create inserts the secret row for a freshly registered user.
func (r *PostgresRepository) Create(ctx context.Context, secret *models.UserSecret) error {
	query := `
		INSERT INTO user_secrets (user_id, password_hash,
		                          email_verification_otp, email_verification_exp)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, secret.UserID, secret.PasswordHash,
		secret.EmailVerificationOTP, secret.EmailVerificationExp)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByUserID returns the secret row for userID, or common.ErrorNotFound.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.UserSecret, error) {
	query := `
		SELECT user_id, password_hash, email_verification_otp, email_verification_exp,
		       password_reset_otp, password_reset_exp
		FROM user_secrets
		WHERE user_id = $1
	`
	secret := &models.UserSecret{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&secret.UserID,
		&secret.PasswordHash, &secret.EmailVerificationOTP, &secret.EmailVerificationExp,
		&secret.PasswordResetOTP, &secret.PasswordResetExp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return secret, nil
}

// SetVerificationOTP replaces the outstanding verification code, superseding
// any prior one.
func (r *PostgresRepository) SetVerificationOTP(ctx context.Context, userID, otp string, expires time.Time) error {
	query := `
		UPDATE user_secrets
		SET email_verification_otp = $2, email_verification_exp = $3
		WHERE user_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, userID, otp, expires)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ConsumeVerificationOTP matches the still-valid verification code and clears
// it in one statement. Zero rows affected means the code did not match, was
// already consumed, or expired between check and consume; callers report that
// as common.ErrorInvalidCode.
func (r *PostgresRepository) ConsumeVerificationOTP(ctx context.Context, userID, otp string, now time.Time) error {
	query := `
		UPDATE user_secrets
		SET email_verification_otp = NULL, email_verification_exp = NULL
		WHERE user_id = $1
		  AND email_verification_otp = $2
		  AND email_verification_exp >= $3
	`
	res, err := r.db.ExecContext(ctx, query, userID, otp, now)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorInvalidCode
	}
	return nil
}

// UpsertResetOTP stores a password-reset code, creating the secret row if the
// user never had one and replacing any outstanding reset code otherwise.
func (r *PostgresRepository) UpsertResetOTP(ctx context.Context, userID, otp string, expires time.Time) error {
	query := `
		INSERT INTO user_secrets (user_id, password_reset_otp, password_reset_exp)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET password_reset_otp = EXCLUDED.password_reset_otp,
		    password_reset_exp = EXCLUDED.password_reset_exp
	`
	if _, err := r.db.ExecContext(ctx, query, userID, otp, expires); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ConsumeResetOTP matches the still-valid reset code and, in the same
// statement, replaces the password hash and clears the code. Zero rows
// affected is reported as common.ErrorInvalidCode.
func (r *PostgresRepository) ConsumeResetOTP(ctx context.Context, userID, otp string, now time.Time, newPasswordHash string) error {
	query := `
		UPDATE user_secrets
		SET password_hash = $4, password_reset_otp = NULL, password_reset_exp = NULL
		WHERE user_id = $1
		  AND password_reset_otp = $2
		  AND password_reset_exp >= $3
	`
	res, err := r.db.ExecContext(ctx, query, userID, otp, now, newPasswordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorInvalidCode
	}
	return nil
}
