// Package services contains the business logic of the auth core: the user
// directory (UserService) and the invitation workflow (InviteService). The
// presentation layer calls these synchronously; every mutating operation
// either fully commits or fully rolls back.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lankamar/bicauth/internal/common"
	"github.com/lankamar/bicauth/internal/logging"
	"github.com/lankamar/bicauth/internal/models"
	"github.com/lankamar/bicauth/internal/password"
	"github.com/lankamar/bicauth/internal/repositories/repomanager"
	"github.com/lankamar/bicauth/internal/roles"
)

// dummyHash is a well-formed cost-12 bcrypt hash compared against when the
// email is unknown, so that both authentication failure paths pay the same
// hashing cost and cannot be told apart by timing.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// verifyPassword is a test seam for password.Verify.
var verifyPassword = password.Verify

// UserService provides CRUD over the credential store plus authentication.
type UserService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *UserService {
	return &UserService{db: db, repos: m, logger: logger}
}

// NormalizeEmail lowercases and trims an email. Every lookup and insert goes
// through this first, so email uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// displayName falls back to the email's local part when no name was given.
func displayName(email, name string) string {
	if name != "" {
		return name
	}
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

// CreateUser hashes the password and inserts a new user. An empty role
// defaults to the lowest-privilege role. Returns common.ErrDuplicateEmail if
// the normalized email is already registered.
func (s *UserService) CreateUser(ctx context.Context, email, plainPassword, role, name string) (int64, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return 0, fmt.Errorf("error hashing password: %w", err)
	}
	return s.insertUser(ctx, email, hash, role, name)
}

// CreateUserWithHash inserts a user with an already-computed bcrypt hash.
// Used for migrating existing credentials; the hash is stored verbatim,
// never re-hashed.
func (s *UserService) CreateUserWithHash(ctx context.Context, email, passwordHash, role, name string) (int64, error) {
	return s.insertUser(ctx, email, passwordHash, role, name)
}

func (s *UserService) insertUser(ctx context.Context, email, hash, role, name string) (int64, error) {
	norm := NormalizeEmail(email)
	if role == "" {
		role = roles.Default
	}

	user := &models.User{
		Email:        norm,
		PasswordHash: hash,
		Name:         displayName(norm, name),
		Role:         role,
	}

	repo := s.repos.Users(s.db)
	user, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return 0, err
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return user.ID, nil
}

// GetUserByEmail returns the user without the password hash, or
// common.ErrNotFound.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	repo := s.repos.Users(s.db)
	user, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// GetUserByID returns the user without the password hash, or
// common.ErrNotFound.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	repo := s.repos.Users(s.db)
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// ListUsers returns all users newest-first, password hashes excluded.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repos.Users(s.db).List(ctx)
}

// UpdateRole reports whether a record was found and updated. The new role is
// stored as given; it is not checked against the current one.
func (s *UserService) UpdateRole(ctx context.Context, id int64, newRole string) (bool, error) {
	return s.repos.Users(s.db).UpdateRole(ctx, id, newRole)
}

// UpdateLastLogin stamps last_login_at with the current time.
func (s *UserService) UpdateLastLogin(ctx context.Context, id int64) error {
	return s.repos.Users(s.db).UpdateLastLogin(ctx, id, time.Now().UTC())
}

// ChangePassword hashes and stores a new password. Reports whether a record
// was found and updated.
func (s *UserService) ChangePassword(ctx context.Context, id int64, newPassword string) (bool, error) {
	hash, err := password.Hash(newPassword)
	if err != nil {
		return false, fmt.Errorf("error hashing password: %w", err)
	}
	return s.repos.Users(s.db).UpdatePasswordHash(ctx, id, hash)
}

// DeleteUser removes a user. Reports whether a record existed.
func (s *UserService) DeleteUser(ctx context.Context, id int64) (bool, error) {
	return s.repos.Users(s.db).Delete(ctx, id)
}

// CountUsers returns the total number of users.
func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	return s.repos.Users(s.db).Count(ctx)
}

// CountByRole returns the number of users holding role.
func (s *UserService) CountByRole(ctx context.Context, role string) (int64, error) {
	return s.repos.Users(s.db).CountByRole(ctx, role)
}

// Authenticate verifies email/password credentials. Every failure cause —
// unknown email, wrong password, malformed stored hash — collapses into the
// single common.ErrUnauthorized sentinel, so callers cannot tell them apart.
// The distinct cause is logged at debug level only. On failure nothing is
// mutated; on success last_login_at is stamped and the user is returned
// without the password hash.
func (s *UserService) Authenticate(ctx context.Context, email, plainPassword string) (*models.User, error) {
	norm := NormalizeEmail(email)
	if norm == "" || plainPassword == "" {
		return nil, common.ErrUnauthorized
	}

	repo := s.repos.Users(s.db)

	user, err := repo.GetByEmail(ctx, norm)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// burn a comparison so this path costs the same as a mismatch
			verifyPassword(plainPassword, dummyHash)
			s.logger.Debug(ctx, "authentication failed", "cause", "unknown email")
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !verifyPassword(plainPassword, user.PasswordHash) {
		s.logger.Debug(ctx, "authentication failed", "cause", "password mismatch", "user_id", user.ID)
		return nil, common.ErrUnauthorized
	}

	now := time.Now().UTC()
	if err := repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("error updating last login: %w", err)
	}
	user.LastLoginAt = &now

	return user.Sanitized(), nil
}
