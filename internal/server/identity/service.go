// Package identity implements the account lifecycle: registration with
// first-workspace provisioning, email verification, login, password reset,
// token refresh, and availability probes.
//
// Each account moves through three states: unregistered, pending
// verification, verified. All domain failures are sentinel errors from the
// common package; the transport layer maps them to responses and this
// package never sees a transport.
package identity

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tensillabs/teamspace/internal/common"
	"github.com/tensillabs/teamspace/internal/dbx"
	"github.com/tensillabs/teamspace/internal/logging"
	"github.com/tensillabs/teamspace/internal/server/config"
	"github.com/tensillabs/teamspace/internal/server/models"
	"github.com/tensillabs/teamspace/internal/server/repositories/repomanager"
	"github.com/tensillabs/teamspace/internal/server/tokens"
	"github.com/tensillabs/teamspace/internal/server/vault"
	"github.com/tensillabs/teamspace/internal/server/workspaces"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterParams carries the validated registration input.
type RegisterParams struct {
	Email         string
	Password      string
	FirstName     string
	MiddleName    string
	LastName      string
	WorkspaceName string
}

// FederatedProfile is the tagged variant an external federation collaborator
// hands over after verifying a social identity. The email arrives already
// verified by the provider.
type FederatedProfile struct {
	Provider    string
	ExternalID  string
	Email       string
	DisplayName string
	AvatarURL   string
}

// Service orchestrates registration, verification, login, password reset,
// and token refresh. It owns no storage of its own; everything goes through
// the repositories, and multi-row writes run inside dbx.WithTx.
type Service struct {
	db         *sql.DB
	repos      repomanager.RepositoryManager
	issuer     *tokens.Issuer
	notifier   Notifier
	logger     logging.Logger
	otpTTL     time.Duration
	selfHosted bool
}

// NewService constructs the identity service using repositories and server config.
func NewService(db *sql.DB, m repomanager.RepositoryManager, issuer *tokens.Issuer,
	notifier Notifier, logger logging.Logger, cfg *config.Config) *Service {
	return &Service{
		db:         db,
		repos:      m,
		issuer:     issuer,
		notifier:   notifier,
		logger:     logger.With("module", "identity"),
		otpTTL:     cfg.OTPValidityDuration,
		selfHosted: cfg.SelfHosted,
	}
}

// Register creates an unverified user together with their credential secret,
// first workspace, and owner membership, all in one transaction. A
// verification code is queued for delivery; delivery failure never rolls the
// registration back.
//
// In self-hosted mode any existing user blocks further registrations with
// ErrorAdminExists.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*models.User, *models.Workspace, error) {
	slug := workspaces.Slugify(p.WorkspaceName)
	if !workspaces.ValidSlug(slug) {
		return nil, nil, common.ErrorInvalidWorkspaceName
	}

	userRepo := s.repos.Users(s.db)

	// Early check for a friendlier error; the unique constraint still
	// decides races inside the transaction.
	if _, err := userRepo.GetByEmail(ctx, p.Email); err == nil {
		return nil, nil, common.ErrorEmailTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "email lookup failed", "error", err.Error())
		return nil, nil, common.ErrorInternal
	}

	// Hash before opening the transaction; bcrypt is too slow to hold a
	// connection for.
	hash, err := vault.HashPassword(p.Password)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}
	otp, err := vault.GenerateOTP()
	if err != nil {
		return nil, nil, common.ErrorInternal
	}
	exp := vault.OTPExpiry(time.Now(), s.otpTTL)

	var user *models.User
	var workspace *models.Workspace

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		txUsers := s.repos.Users(tx)

		if s.selfHosted {
			// The advisory lock serializes registrations, so the count
			// below cannot race another first registration.
			if txErr := txUsers.AcquireRegistrationLock(ctx); txErr != nil {
				return txErr
			}
			n, txErr := txUsers.Count(ctx)
			if txErr != nil {
				return txErr
			}
			if n > 0 {
				return common.ErrorAdminExists
			}
		}

		var txErr error
		user, txErr = txUsers.Create(ctx, &models.User{
			Email:        p.Email,
			FirstName:    p.FirstName,
			MiddleName:   p.MiddleName,
			LastName:     p.LastName,
			AuthProvider: models.ProviderEmail,
		})
		if txErr != nil {
			return txErr
		}

		if txErr = s.repos.Secrets(tx).Create(ctx, &models.UserSecret{
			UserID:               user.ID,
			PasswordHash:         hash,
			EmailVerificationOTP: &otp,
			EmailVerificationExp: &exp,
		}); txErr != nil {
			return txErr
		}

		workspace, txErr = s.repos.Workspaces(tx).Create(ctx, &models.Workspace{
			Name: p.WorkspaceName,
			Slug: slug,
		})
		if txErr != nil {
			return txErr
		}

		return s.repos.Workspaces(tx).AddMember(ctx, &models.WorkspaceMember{
			WorkspaceID: workspace.ID,
			UserID:      user.ID,
			Role:        models.RoleOwner,
		})
	})
	if err != nil {
		if errors.Is(err, common.ErrorEmailTaken) || errors.Is(err, common.ErrorWorkspaceTaken) ||
			errors.Is(err, common.ErrorAdminExists) {
			return nil, nil, err
		}
		s.logger.Error(ctx, "registration transaction failed", "error", err.Error())
		return nil, nil, common.ErrorInternal
	}

	s.dispatch(func(ctx context.Context) error {
		return s.notifier.VerificationCode(ctx, user.Email, user.FirstName, otp)
	})

	return user, workspace, nil
}

// VerifyEmail consumes a verification code and transitions the account to
// verified, establishing a session (auto-login) in the same transaction.
//
// The consume is a single match-and-clear statement, so a concurrent attempt
// racing on the same still-valid code loses with ErrorInvalidCode instead of
// double-applying.
func (s *Service) VerifyEmail(ctx context.Context, email, otp string) (*models.User, *TokenPair, error) {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, common.ErrorInternal
	}
	if user.Verified() {
		return nil, nil, common.ErrorAlreadyVerified
	}

	secret, err := s.repos.Secrets(s.db).GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNoCodeIssued
		}
		return nil, nil, common.ErrorInternal
	}
	if secret.EmailVerificationOTP == nil || secret.EmailVerificationExp == nil {
		return nil, nil, common.ErrorNoCodeIssued
	}

	now := time.Now()
	if now.After(*secret.EmailVerificationExp) {
		return nil, nil, common.ErrorCodeExpired
	}
	if *secret.EmailVerificationOTP != otp {
		return nil, nil, common.ErrorInvalidCode
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if txErr := s.repos.Secrets(tx).ConsumeVerificationOTP(ctx, user.ID, otp, now); txErr != nil {
			return txErr
		}
		if txErr := s.repos.Users(tx).SetEmailVerified(ctx, user.ID, now); txErr != nil {
			return txErr
		}
		var txErr error
		pair, txErr = s.issuePair(ctx, tx, user.ID)
		return txErr
	})
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCode) {
			return nil, nil, common.ErrorInvalidCode
		}
		s.logger.Error(ctx, "verification transaction failed", "error", err.Error())
		return nil, nil, common.ErrorInternal
	}

	verifiedAt := now
	user.EmailVerified = &verifiedAt

	return user, pair, nil
}

// Login verifies credentials and mints a token pair. Unknown email, wrong
// password, and a secretless account all collapse to ErrorInvalidCredentials
// so callers cannot probe which emails exist; an unverified account is only
// reported as such when the email does exist.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorInvalidCredentials
		}
		return nil, nil, common.ErrorInternal
	}

	if !user.Verified() {
		return nil, nil, common.ErrorEmailNotVerified
	}

	secret, err := s.repos.Secrets(s.db).GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorInvalidCredentials
		}
		return nil, nil, common.ErrorInternal
	}
	if secret.PasswordHash == "" || !vault.CheckPassword(password, secret.PasswordHash) {
		return nil, nil, common.ErrorInvalidCredentials
	}

	pair, err := s.issuePair(ctx, s.db, user.ID)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	return user, pair, nil
}

// ForgotPassword issues a reset code when the email belongs to an account.
// It reports success either way; an unknown address produces no code and no
// observable difference for the caller.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return common.ErrorInternal
	}

	otp, err := vault.GenerateOTP()
	if err != nil {
		return common.ErrorInternal
	}
	exp := vault.OTPExpiry(time.Now(), s.otpTTL)

	if err := s.repos.Secrets(s.db).UpsertResetOTP(ctx, user.ID, otp, exp); err != nil {
		s.logger.Error(ctx, "storing reset code failed", "error", err.Error())
		return common.ErrorInternal
	}

	s.dispatch(func(ctx context.Context) error {
		return s.notifier.PasswordResetCode(ctx, user.Email, otp)
	})

	return nil
}

// ResetPassword consumes a reset code and replaces the password hash in one
// match-and-clear statement. Every refresh token of the user is revoked in
// the same transaction, closing sessions opened with the old password.
func (s *Service) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInvalidResetRequest
		}
		return common.ErrorInternal
	}

	secret, err := s.repos.Secrets(s.db).GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNoCodeIssued
		}
		return common.ErrorInternal
	}
	if secret.PasswordResetOTP == nil || secret.PasswordResetExp == nil {
		return common.ErrorNoCodeIssued
	}

	now := time.Now()
	if now.After(*secret.PasswordResetExp) {
		return common.ErrorCodeExpired
	}
	if *secret.PasswordResetOTP != otp {
		return common.ErrorInvalidCode
	}

	hash, err := vault.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if txErr := s.repos.Secrets(tx).ConsumeResetOTP(ctx, user.ID, otp, now, hash); txErr != nil {
			return txErr
		}
		return s.repos.RefreshTokens(tx).DeleteForUser(ctx, user.ID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCode) {
			return common.ErrorInvalidCode
		}
		s.logger.Error(ctx, "password reset transaction failed", "error", err.Error())
		return common.ErrorInternal
	}

	return nil
}

// ResendVerification regenerates the verification code for a pending
// account, superseding any outstanding one.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	if user.Verified() {
		return common.ErrorAlreadyVerified
	}

	otp, err := vault.GenerateOTP()
	if err != nil {
		return common.ErrorInternal
	}
	exp := vault.OTPExpiry(time.Now(), s.otpTTL)

	if err := s.repos.Secrets(s.db).SetVerificationOTP(ctx, user.ID, otp, exp); err != nil {
		s.logger.Error(ctx, "storing verification code failed", "error", err.Error())
		return common.ErrorInternal
	}

	s.dispatch(func(ctx context.Context) error {
		return s.notifier.VerificationCode(ctx, user.Email, user.FirstName, otp)
	})

	return nil
}

// Refresh validates a refresh token, rotates it transactionally, and returns
// a fresh pair. The presented token must verify as a refresh JWT and its
// server-side row must still exist; the rotation deletes that row, so the
// old token can never be redeemed twice.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	userID, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	row, err := s.repos.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Signed but revoked (already rotated or logged out).
			return nil, nil, common.ErrInvalidToken
		}
		return nil, nil, common.ErrorInternal
	}
	if row.Expires.Before(time.Now()) {
		return nil, nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if txErr := s.repos.RefreshTokens(tx).Delete(ctx, refreshToken); txErr != nil {
			return txErr
		}
		var txErr error
		pair, txErr = s.issuePair(ctx, tx, user.ID)
		return txErr
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// A concurrent rotation deleted the row first; this one loses.
			return nil, nil, common.ErrInvalidToken
		}
		s.logger.Error(ctx, "token rotation failed", "error", err.Error())
		return nil, nil, common.ErrorInternal
	}

	return user, pair, nil
}

// Logout revokes the presented refresh token. An already-revoked token is
// not an error; repeating a logout leaves the same state.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if err := s.repos.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		s.logger.Error(ctx, "logout cleanup failed", "error", err.Error())
		return common.ErrorSessionCleanup
	}
	return nil
}

// CheckEmail reports whether the email is free to register. It leaks
// nothing beyond the boolean.
func (s *Service) CheckEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return true, nil
		}
		return false, common.ErrorInternal
	}
	return false, nil
}

// CheckWorkspace derives the slug for a workspace name and reports whether
// it is still free. A name that normalizes to an unusable slug fails with
// ErrorInvalidWorkspaceName.
func (s *Service) CheckWorkspace(ctx context.Context, name string) (bool, string, error) {
	slug := workspaces.Slugify(name)
	if !workspaces.ValidSlug(slug) {
		return false, slug, common.ErrorInvalidWorkspaceName
	}

	exists, err := s.repos.Workspaces(s.db).SlugExists(ctx, slug)
	if err != nil {
		return false, slug, common.ErrorInternal
	}
	return !exists, slug, nil
}

// Profile returns the public fields of the user.
func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// Workspaces lists the workspaces the user belongs to.
func (s *Service) Workspaces(ctx context.Context, userID string) ([]*models.Workspace, error) {
	list, err := s.repos.Workspaces(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// FederatedLogin signs in (or creates) an account from a provider-verified
// profile. A new account arrives pre-verified; an existing account must
// belong to the same provider.
func (s *Service) FederatedLogin(ctx context.Context, p FederatedProfile) (*models.User, *TokenPair, error) {
	if p.Provider == "" || p.ExternalID == "" || p.Email == "" {
		return nil, nil, common.ErrorInvalidProfile
	}

	user, err := s.repos.Users(s.db).GetByEmail(ctx, p.Email)
	if err == nil {
		if user.AuthProvider != p.Provider {
			return nil, nil, common.ErrorProviderMismatch
		}
		pair, pErr := s.issuePair(ctx, s.db, user.ID)
		if pErr != nil {
			return nil, nil, common.ErrorInternal
		}
		return user, pair, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, nil, common.ErrorInternal
	}

	now := time.Now()

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		user, txErr = s.repos.Users(tx).Create(ctx, &models.User{
			Email:         p.Email,
			DisplayName:   p.DisplayName,
			AvatarURL:     p.AvatarURL,
			AuthProvider:  p.Provider,
			ProviderID:    p.ExternalID,
			EmailVerified: &now,
		})
		if txErr != nil {
			return txErr
		}
		pair, txErr = s.issuePair(ctx, tx, user.ID)
		return txErr
	})
	if err != nil {
		if errors.Is(err, common.ErrorEmailTaken) {
			return nil, nil, common.ErrorEmailTaken
		}
		s.logger.Error(ctx, "federated sign-in failed", "error", err.Error())
		return nil, nil, common.ErrorInternal
	}

	return user, pair, nil
}

func (s *Service) issuePair(ctx context.Context, db dbx.DBTX, userID string) (*TokenPair, error) {
	access, err := s.issuer.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}
	if err := s.repos.RefreshTokens(db).Create(ctx, userID, refresh, s.issuer.RefreshTTL()); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// dispatch runs a notification send on its own goroutine. Failures are
// logged and swallowed; the triggering operation already succeeded.
func (s *Service) dispatch(send func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := send(ctx); err != nil {
			s.logger.Error(ctx, "notification delivery failed", "error", err.Error())
		}
	}()
}
