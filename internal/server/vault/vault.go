// Package vault implements the credential primitives of the identity
// service: one-way password hashing and one-time numeric codes.
// Everything here is pure computation; persistence is the caller's job.
package vault

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	// HashCost is the bcrypt work factor applied to every password.
	HashCost = 12

	// OTPLength is the number of decimal digits in a one-time code.
	OTPLength = 6

	// DefaultOTPValidity is how long a freshly issued code stays usable.
	DefaultOTPValidity = 15 * time.Minute
)

// HashPassword returns a salted bcrypt hash of the given password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var otpSpace = big.NewInt(1_000_000)

// GenerateOTP returns a uniformly random 6-digit numeric code.
// Leading zeros are preserved, so "004217" is a valid result.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", OTPLength, n), nil
}

// OTPExpiry returns the expiry timestamp for a code issued at now.
func OTPExpiry(now time.Time, validity time.Duration) time.Time {
	if validity <= 0 {
		validity = DefaultOTPValidity
	}
	return now.Add(validity)
}
