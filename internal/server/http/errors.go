package http

import (
	"errors"
	"net/http"

	"github.com/tensillabs/teamspace/internal/common"
)

// statusFor maps domain sentinel errors to HTTP status codes. Anything
// unrecognized is treated as an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorEmailTaken),
		errors.Is(err, common.ErrorWorkspaceTaken),
		errors.Is(err, common.ErrorAdminExists),
		errors.Is(err, common.ErrorAlreadyVerified),
		errors.Is(err, common.ErrorProviderMismatch):
		return http.StatusConflict
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorInvalidCredentials),
		errors.Is(err, common.ErrorEmailNotVerified),
		errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrInvalidTokenKind),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNoCodeIssued),
		errors.Is(err, common.ErrorCodeExpired),
		errors.Is(err, common.ErrorInvalidCode),
		errors.Is(err, common.ErrorInvalidResetRequest),
		errors.Is(err, common.ErrorInvalidWorkspaceName),
		errors.Is(err, common.ErrorInvalidProfile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the client-facing message for a domain error. Internal
// errors are masked so driver details never reach the wire.
func messageFor(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}
