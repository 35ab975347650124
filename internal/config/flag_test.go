package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-d", "db", "-s", "secret", "-t", "24", "-i", "48",
		}, expectPanic: false,
			expected: &Config{
				DatabaseDSN:   "db",
				SessionSecret: "secret",
				SessionTTL:    24 * time.Hour,
				InviteTTL:     48 * time.Hour,
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Equal(t, tt.expected, config)
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
