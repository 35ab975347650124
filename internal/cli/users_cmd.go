package cli

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"github.com/lankamar/bicauth/internal/roles"
)

// SeedAdmin creates the bootstrap admin account from configuration. It is
// idempotent: when an admin-level account already exists nothing happens.
func (a *App) SeedAdmin(ctx context.Context) error {
	if a.config.AdminEmail == "" || a.config.AdminPassword == "" {
		return fmt.Errorf("seed-admin: ADMIN_EMAIL and ADMIN_PASSWORD must be configured")
	}

	n, err := a.users.CountByRole(ctx, roles.CEO)
	if err != nil {
		return err
	}
	if n > 0 {
		fmt.Fprintln(a.out, "admin account already present, skipping")
		return nil
	}

	id, err := a.users.CreateUser(ctx, a.config.AdminEmail, a.config.AdminPassword, roles.CEO, a.config.AdminName)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "admin account created (id %d)\n", id)
	return nil
}

// CreateUser creates an account. When no -password is given the password is
// read from the terminal.
func (a *App) CreateUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	pass := fs.String("password", "", "account password (prompted when empty)")
	role := fs.String("role", roles.Default, "account role")
	name := fs.String("name", "", "display name (defaults to the email local part)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("create-user: -email is required")
	}

	pw := *pass
	if pw == "" {
		var err error
		pw, err = GetPassword(a.out, "Enter password: ")
		if err != nil {
			return err
		}
	}
	if pw == "" {
		return fmt.Errorf("create-user: password must not be empty")
	}

	id, err := a.users.CreateUser(ctx, *email, pw, *role, *name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "user created (id %d)\n", id)
	return nil
}

// ListUsers prints every account, newest first.
func (a *App) ListUsers(ctx context.Context) error {
	list, err := a.users.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range list {
		lastLogin := "never"
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(a.out, "%d\t%s\t%s\t%s\tlast login: %s\n", u.ID, u.Email, u.Role, u.Name, lastLogin)
	}
	fmt.Fprintf(a.out, "%d user(s)\n", len(list))
	return nil
}

// SetRole changes an account's role, addressed by email.
func (a *App) SetRole(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set-role", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	role := fs.String("role", "", "new role")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *role == "" {
		return fmt.Errorf("set-role: -email and -role are required")
	}
	if !roles.IsValid(*role) {
		return fmt.Errorf("set-role: unknown role %q", *role)
	}

	user, err := a.users.GetUserByEmail(ctx, *email)
	if err != nil {
		return err
	}
	if _, err := a.users.UpdateRole(ctx, user.ID, *role); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "role of %s set to %s\n", user.Email, *role)
	return nil
}

// ResetPassword sets a new password for an account, addressed by email. When
// no -password is given the password is read from the terminal.
func (a *App) ResetPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	pass := fs.String("password", "", "new password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("reset-password: -email is required")
	}

	pw := *pass
	if pw == "" {
		var err error
		pw, err = GetPassword(a.out, "Enter new password: ")
		if err != nil {
			return err
		}
	}
	if pw == "" {
		return fmt.Errorf("reset-password: password must not be empty")
	}

	user, err := a.users.GetUserByEmail(ctx, *email)
	if err != nil {
		return err
	}
	if _, err := a.users.ChangePassword(ctx, user.ID, pw); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "password of %s updated\n", user.Email)
	return nil
}

// DeleteUser removes an account, addressed by email.
func (a *App) DeleteUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete-user", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("delete-user: -email is required")
	}

	user, err := a.users.GetUserByEmail(ctx, *email)
	if err != nil {
		return err
	}
	if _, err := a.users.DeleteUser(ctx, user.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "user %s deleted\n", user.Email)
	return nil
}

// Stats prints the account totals per role and the invitation summary.
func (a *App) Stats(ctx context.Context) error {
	total, err := a.users.CountUsers(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "users: %d\n", total)

	names := make([]string, 0, len(roles.Table))
	for name := range roles.Table {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return roles.Table[names[i]].Level > roles.Table[names[j]].Level
	})
	for _, name := range names {
		n, err := a.users.CountByRole(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "  %s: %d\n", name, n)
	}

	return a.InviteStats(ctx)
}
