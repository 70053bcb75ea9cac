package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables, loading a local
// .env file first if one exists. Unset variables leave the current value
// untouched.
//
// Recognized variables:
//
//	TEAMSPACE_ADDR          HTTP bind address
//	TEAMSPACE_DATABASE_DSN  PostgreSQL DSN
//	TEAMSPACE_SECRET_KEY    JWT HMAC secret
//	TEAMSPACE_ACCESS_TTL    access token validity (Go duration, e.g. "120h")
//	TEAMSPACE_REFRESH_TTL   refresh token validity
//	TEAMSPACE_OTP_TTL       verification/reset code validity
//	TEAMSPACE_SELF_HOSTED   "true" to cap the instance to one admin
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("TEAMSPACE_ADDR"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("TEAMSPACE_DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("TEAMSPACE_SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("TEAMSPACE_ACCESS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v := os.Getenv("TEAMSPACE_REFRESH_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.RefreshTokenValidityDuration = d
		}
	}
	if v := os.Getenv("TEAMSPACE_OTP_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.OTPValidityDuration = d
		}
	}
	if v := os.Getenv("TEAMSPACE_SELF_HOSTED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.SelfHosted = b
		}
	}
}
