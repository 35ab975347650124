package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first if present; variables already set in
// the process environment win over the file. Empty variables leave the
// current value untouched.
//
// Recognized variables:
//
//	DATABASE_DSN    PostgreSQL DSN
//	SESSION_SECRET  HMAC secret for session tokens
//	ADMIN_EMAIL     bootstrap admin email
//	ADMIN_PASSWORD  bootstrap admin password
//	ADMIN_NAME      bootstrap admin display name
func parseEnv(config *Config) {
	// missing .env is fine, the process environment still applies
	_ = godotenv.Load()

	setIfPresent := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setIfPresent(&config.DatabaseDSN, "DATABASE_DSN")
	setIfPresent(&config.SessionSecret, "SESSION_SECRET")
	setIfPresent(&config.AdminEmail, "ADMIN_EMAIL")
	setIfPresent(&config.AdminPassword, "ADMIN_PASSWORD")
	setIfPresent(&config.AdminName, "ADMIN_NAME")
}
