package models

import "time"

// UserSecret holds the sensitive material bound 1:1 to a user: the password
// hash and the outstanding one-time codes. An OTP field and its expiry are
// always set and cleared together; a consumed or expired code is nulled,
// never reused.
type UserSecret struct {
	UserID               string
	PasswordHash         string
	EmailVerificationOTP *string
	EmailVerificationExp *time.Time
	PasswordResetOTP     *string
	PasswordResetExp     *time.Time
}
