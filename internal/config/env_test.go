package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_parseEnv_OverlaysAndPreserves(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://env")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("ADMIN_EMAIL", "boss@x.com")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ADMIN_NAME", "")

	cfg := &Config{
		DatabaseDSN:   "postgres://defaults",
		SessionSecret: "keep-me",
		AdminName:     "Administrador",
	}
	parseEnv(cfg)

	assert.Equal(t, "postgres://env", cfg.DatabaseDSN)
	assert.Equal(t, "keep-me", cfg.SessionSecret, "empty variables must not clear values")
	assert.Equal(t, "boss@x.com", cfg.AdminEmail)
	assert.Equal(t, "Administrador", cfg.AdminName)
}
