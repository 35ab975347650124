package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/lankamar/bicauth/internal/roles"
)

// InviteCreate issues an invitation token and prints it.
func (a *App) InviteCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("invite-create", flag.ContinueOnError)
	role := fs.String("role", roles.Default, "role granted on redemption")
	email := fs.String("email", "", "restrict redemption to this email (open when empty)")
	hours := fs.Int("hours", int(a.config.InviteTTL.Hours()), "validity in hours")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.invites.CreateInvite(ctx, *role, *email, *hours, nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, token)
	return nil
}

// InviteList prints invitations, newest first. Used and expired ones appear
// only when requested.
func (a *App) InviteList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("invite-list", flag.ContinueOnError)
	used := fs.Bool("used", false, "include used invitations")
	expired := fs.Bool("expired", false, "include expired invitations")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := a.invites.ListInvites(ctx, *used, *expired)
	if err != nil {
		return err
	}
	for _, inv := range list {
		scope := "open"
		if inv.Email != "" {
			scope = inv.Email
		}
		fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", inv.Token, inv.Role, inv.Status, scope)
	}
	fmt.Fprintf(a.out, "%d invitation(s)\n", len(list))
	return nil
}

// InviteRevoke deletes a pending invitation.
func (a *App) InviteRevoke(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("invite-revoke", flag.ContinueOnError)
	token := fs.String("token", "", "invitation token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *token == "" {
		return fmt.Errorf("invite-revoke: -token is required")
	}

	ok, err := a.invites.Revoke(ctx, *token)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(a.out, "invitation revoked")
	} else {
		fmt.Fprintln(a.out, "nothing to revoke (unknown or already used)")
	}
	return nil
}

// InviteCleanup purges expired unused invitations.
func (a *App) InviteCleanup(ctx context.Context) error {
	n, err := a.invites.CleanupExpired(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d expired invitation(s) removed\n", n)
	return nil
}

// InviteStats prints the invitation table summary.
func (a *App) InviteStats(ctx context.Context) error {
	stats, err := a.invites.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "invitations: %d (pending %d, used %d, expired %d)\n",
		stats.Total, stats.Pending, stats.Used, stats.Expired)
	return nil
}
