package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/lankamar/bicauth/internal/session"
)

// SessionToken authenticates an account and prints a signed session token
// the dashboard can set as its login cookie. When no -password is given the
// password is read from the terminal.
func (a *App) SessionToken(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("session-token", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	pass := fs.String("password", "", "account password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("session-token: -email is required")
	}

	pw := *pass
	if pw == "" {
		var err error
		pw, err = GetPassword(a.out, "Enter password: ")
		if err != nil {
			return err
		}
	}

	user, err := a.users.Authenticate(ctx, *email, pw)
	if err != nil {
		return err
	}

	token, err := session.GenerateToken(user.Email, user.Role, []byte(a.config.SessionSecret), a.config.SessionTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, token)
	return nil
}

// SessionCheck verifies a session token against the configured secret and
// prints the identity it carries.
func (a *App) SessionCheck(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("session-check", flag.ContinueOnError)
	token := fs.String("token", "", "session token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *token == "" {
		return fmt.Errorf("session-check: -token is required")
	}

	claims, err := session.ParseToken(*token, []byte(a.config.SessionSecret))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\t%s\texpires %s\n",
		claims.Email, claims.Role, claims.ExpiresAt.Time.UTC().Format("2006-01-02 15:04"))
	return nil
}
