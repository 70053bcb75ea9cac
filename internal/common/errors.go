// Package common defines shared constants and sentinel errors used across
// the teamspace server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration conflicts.
	ErrorEmailTaken     = errors.New("email already registered")
	ErrorWorkspaceTaken = errors.New("workspace already taken")
	ErrorAdminExists    = errors.New("admin account already exists")

	// Input validation surfaced by services (not transport DTO checks).
	ErrorInvalidWorkspaceName = errors.New("invalid workspace name")

	// Login / verification state.
	ErrorInvalidCredentials = errors.New("invalid email or password")
	ErrorEmailNotVerified   = errors.New("email not verified")
	ErrorAlreadyVerified    = errors.New("email already verified")
	ErrorProviderMismatch   = errors.New("email registered with a different provider")
	ErrorInvalidProfile     = errors.New("invalid federated profile")

	// One-time code lifecycle.
	ErrorNoCodeIssued        = errors.New("no code issued")
	ErrorCodeExpired         = errors.New("code expired")
	ErrorInvalidCode         = errors.New("invalid code")
	ErrorInvalidResetRequest = errors.New("invalid reset request")

	// Token lifecycle errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidTokenKind    = errors.New("invalid token kind")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Session teardown.
	ErrorSessionCleanup = errors.New("session cleanup failed")
)
