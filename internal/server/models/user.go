package models

import "time"

// Auth providers a user account can originate from.
const (
	ProviderEmail     = "EMAIL"
	ProviderGoogle    = "GOOGLE"
	ProviderMicrosoft = "MICROSOFT"
)

// User is the identity record. Email is the unique key and is compared
// byte-exact; EmailVerified == nil means the account is still pending
// verification.
type User struct {
	ID            string
	Email         string
	FirstName     string
	MiddleName    string
	LastName      string
	DisplayName   string
	AvatarURL     string
	AuthProvider  string
	ProviderID    string
	EmailVerified *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Verified reports whether the account finished email verification.
func (u *User) Verified() bool {
	return u.EmailVerified != nil
}
