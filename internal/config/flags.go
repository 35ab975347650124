package config

import (
	"flag"
	"os"
	"time"

	"github.com/lankamar/bicauth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-s string   session token HMAC secret
//	-t int      session token validity, hours
//	-i int      default invitation validity, hours
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with subcommand flags.
//   - Duration flags are accepted as integers in hours and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret key")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Hours()), "session_ttl (in hours)")
	inviteTTL := fs.Int("i", int(config.InviteTTL.Hours()), "invite_ttl (in hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Hour
	config.InviteTTL = time.Duration(*inviteTTL) * time.Hour
}
