// Package cli implements the operator command-line tool for the auth core:
// schema migrations, account management, invitation management and store
// statistics.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lankamar/bicauth/internal/config"
	"github.com/lankamar/bicauth/internal/logging"
	"github.com/lankamar/bicauth/internal/models"
	invitesrepo "github.com/lankamar/bicauth/internal/repositories/invites"
	"github.com/lankamar/bicauth/internal/repositories/repomanager"
	"github.com/lankamar/bicauth/internal/services"
)

// userDirectory is the slice of the user service the commands need.
// Tests provide a lightweight stub.
type userDirectory interface {
	CreateUser(ctx context.Context, email, plainPassword, role, name string) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateRole(ctx context.Context, id int64, newRole string) (bool, error)
	ChangePassword(ctx context.Context, id int64, newPassword string) (bool, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
	CountUsers(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	Authenticate(ctx context.Context, email, plainPassword string) (*models.User, error)
}

// inviteIssuer is the slice of the invite service the commands need.
type inviteIssuer interface {
	CreateInvite(ctx context.Context, role, email string, hoursValid int, createdBy *int64) (string, error)
	ListInvites(ctx context.Context, includeUsed, includeExpired bool) ([]*models.Invite, error)
	Revoke(ctx context.Context, token string) (bool, error)
	CleanupExpired(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (*invitesrepo.Stats, error)
}

type migrator interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
}

// App holds the wiring for one CLI invocation.
type App struct {
	config  *config.Config
	logger  logging.Logger
	out     io.Writer
	db      *sql.DB
	users   userDirectory
	invites inviteIssuer
	repos   migrator
}

// Connect opens and verifies a PostgreSQL connection via the pgx stdlib
// driver.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return db, nil
}

// NewApp wires the services against the provided database connection.
func NewApp(c *config.Config, db *sql.DB, logger logging.Logger) *App {
	m := repomanager.NewPostgresRepositoryManager()
	return &App{
		config:  c,
		logger:  logger,
		out:     os.Stdout,
		db:      db,
		users:   services.NewUserService(db, m, logger),
		invites: services.NewInviteService(db, m, logger),
		repos:   m,
	}
}

// splitCommand skips leading global flags (and their values) and returns the
// first bare argument as the command, with everything after it as the
// command's own arguments.
func splitCommand(args []string) (string, []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			continue
		}
		return arg, args[i+1:]
	}
	return "", nil
}

// Run dispatches a single command and returns its error. args is os.Args
// without the program name; global configuration flags may precede the
// command.
func (a *App) Run(ctx context.Context, args []string) error {
	command, rest := splitCommand(args)

	switch command {
	case "migrate":
		return a.Migrate(ctx)
	case "seed-admin":
		return a.SeedAdmin(ctx)
	case "create-user":
		return a.CreateUser(ctx, rest)
	case "list-users":
		return a.ListUsers(ctx)
	case "set-role":
		return a.SetRole(ctx, rest)
	case "reset-password":
		return a.ResetPassword(ctx, rest)
	case "delete-user":
		return a.DeleteUser(ctx, rest)
	case "invite-create":
		return a.InviteCreate(ctx, rest)
	case "invite-list":
		return a.InviteList(ctx, rest)
	case "invite-revoke":
		return a.InviteRevoke(ctx, rest)
	case "invite-cleanup":
		return a.InviteCleanup(ctx)
	case "invite-stats":
		return a.InviteStats(ctx)
	case "session-token":
		return a.SessionToken(ctx, rest)
	case "session-check":
		return a.SessionCheck(ctx, rest)
	case "stats":
		return a.Stats(ctx)
	case "", "help":
		a.printUsage()
		return nil
	default:
		a.printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (a *App) printUsage() {
	fmt.Fprintln(a.out, `Usage: bicauth [global flags] <command> [command flags]

Commands:
  migrate          apply pending schema migrations
  seed-admin       create the bootstrap admin account if none exists
  create-user      create an account (-email, -password, -role, -name)
  list-users       list all accounts
  set-role         change an account's role (-email, -role)
  reset-password   set a new password (-email, -password)
  delete-user      remove an account (-email)
  invite-create    issue an invitation token (-role, -email, -hours)
  invite-list      list invitations (-used, -expired)
  invite-revoke    delete a pending invitation (-token)
  invite-cleanup   purge expired unused invitations
  invite-stats     summarize the invitation table
  session-token    authenticate and mint a dashboard session token (-email, -password)
  session-check    verify a session token and print its claims (-token)
  stats            summarize accounts and invitations`)
}

// Migrate applies pending schema migrations.
func (a *App) Migrate(ctx context.Context) error {
	if err := a.repos.RunMigrations(ctx, a.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	fmt.Fprintln(a.out, "migrations applied")
	return nil
}
