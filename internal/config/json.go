package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/lankamar/bicauth/internal/flagx"
	"github.com/lankamar/bicauth/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "72h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	DatabaseDSN   string         `json:"database_dsn"`
	SessionSecret string         `json:"session_secret"`
	SessionTTL    timex.Duration `json:"session_ttl"`
	InviteTTL     timex.Duration `json:"invite_ttl"`
	AdminEmail    string         `json:"admin_email"`
	AdminPassword string         `json:"admin_password"`
	AdminName     string         `json:"admin_name"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. Keys absent from the file keep
// their current values, so a partial file only overrides what it names.
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SessionSecret != "" {
		config.SessionSecret = c.SessionSecret
	}
	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = time.Duration(c.SessionTTL.Duration)
	}
	if c.InviteTTL.Duration != 0 {
		config.InviteTTL = time.Duration(c.InviteTTL.Duration)
	}
	if c.AdminEmail != "" {
		config.AdminEmail = c.AdminEmail
	}
	if c.AdminPassword != "" {
		config.AdminPassword = c.AdminPassword
	}
	if c.AdminName != "" {
		config.AdminName = c.AdminName
	}
}
