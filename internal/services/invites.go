package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lankamar/bicauth/internal/common"
	"github.com/lankamar/bicauth/internal/dbx"
	"github.com/lankamar/bicauth/internal/logging"
	"github.com/lankamar/bicauth/internal/models"
	"github.com/lankamar/bicauth/internal/password"
	invitesrepo "github.com/lankamar/bicauth/internal/repositories/invites"
	"github.com/lankamar/bicauth/internal/repositories/repomanager"
	"github.com/lankamar/bicauth/internal/roles"
)

// inviteTokenBytes is the entropy of an invitation token before encoding.
// 24 bytes encode to a 32-character base64url string; uniqueness relies on
// this entropy, there is no collision check.
const inviteTokenBytes = 24

// RedeemResult reports the outcome of a successful redemption.
type RedeemResult struct {
	Role      string
	IsNewUser bool
	Message   string
}

// InviteService issues, validates and redeems invitation tokens.
type InviteService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewInviteService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *InviteService {
	return &InviteService{db: db, repos: m, logger: logger}
}

// CreateInvite issues a new invitation token granting role. An empty email
// makes the invitation open; otherwise redemption is restricted to that
// address. Returns common.ErrInvalidRole for unrecognized roles. hoursValid
// is taken as given: zero or negative yields an already-expired invitation.
func (s *InviteService) CreateInvite(ctx context.Context, role, email string, hoursValid int, createdBy *int64) (string, error) {
	if !roles.IsValid(role) {
		return "", common.ErrInvalidRole
	}

	token, err := common.MakeURLSafeToken(inviteTokenBytes)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}

	expires := time.Now().UTC().Add(time.Duration(hoursValid) * time.Hour)

	invite := &models.Invite{
		Token:     token,
		Role:      role,
		Email:     NormalizeEmail(email),
		ExpiresAt: &expires,
		CreatedBy: createdBy,
	}

	if _, err := s.repos.Invites(s.db).Create(ctx, invite); err != nil {
		return "", fmt.Errorf("error creating invite: %w", err)
	}

	s.logger.Info(ctx, "invite created", "role", role, "scoped", invite.Email != "", "hours_valid", hoursValid)

	return token, nil
}

// Validate checks a token without mutating anything. It fails with
// common.ErrInvalidToken, common.ErrTokenUsed or common.ErrTokenExpired.
func (s *InviteService) Validate(ctx context.Context, token string) (*models.Invite, error) {
	return validateInvite(ctx, s.repos.Invites(s.db), token, time.Now().UTC())
}

func validateInvite(ctx context.Context, repo invitesrepo.Repository, token string, now time.Time) (*models.Invite, error) {
	invite, err := repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}

	if invite.UsedAt != nil {
		return nil, common.ErrTokenUsed
	}
	if invite.ExpiresAt != nil && invite.ExpiresAt.Before(now) {
		return nil, common.ErrTokenExpired
	}

	return invite, nil
}

// Redeem consumes a valid invitation for the given email. An existing user
// gets the invitation's role (downgrades included; invitations carry
// whatever role the issuer chose, and no password re-confirmation is asked).
// A new user is created with that role and requires a non-empty password.
// The user mutation and the used_at mark commit as one transaction.
func (s *InviteService) Redeem(ctx context.Context, token, email, plainPassword string) (*RedeemResult, error) {
	norm := NormalizeEmail(email)
	now := time.Now().UTC()

	var result *RedeemResult

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		inviteRepo := s.repos.Invites(tx)
		userRepo := s.repos.Users(tx)

		invite, err := validateInvite(ctx, inviteRepo, token, now)
		if err != nil {
			return err
		}

		if invite.Email != "" && invite.Email != norm {
			return common.ErrEmailMismatch
		}

		existing, err := userRepo.GetByEmail(ctx, norm)
		switch {
		case err == nil:
			if _, err := userRepo.UpdateRole(ctx, existing.ID, invite.Role); err != nil {
				return fmt.Errorf("error updating role: %w", err)
			}
			result = &RedeemResult{
				Role:      invite.Role,
				IsNewUser: false,
				Message:   "role updated to " + invite.Role,
			}

		case errors.Is(err, common.ErrNotFound):
			if plainPassword == "" {
				return common.ErrPasswordRequired
			}
			hash, err := password.Hash(plainPassword)
			if err != nil {
				return fmt.Errorf("error hashing password: %w", err)
			}
			user := &models.User{
				Email:        norm,
				PasswordHash: hash,
				Name:         displayName(norm, ""),
				Role:         invite.Role,
			}
			if _, err := userRepo.Create(ctx, user); err != nil {
				return fmt.Errorf("error creating user: %w", err)
			}
			result = &RedeemResult{
				Role:      invite.Role,
				IsNewUser: true,
				Message:   "user created with role " + invite.Role,
			}

		default:
			return fmt.Errorf("error loading user: %w", err)
		}

		return inviteRepo.MarkUsed(ctx, invite.ID, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "invite redeemed", "role", result.Role, "new_user", result.IsNewUser)

	return result, nil
}

// ListInvites returns invitations newest-first, each annotated with its
// derived status. Used and expired records appear only when requested.
func (s *InviteService) ListInvites(ctx context.Context, includeUsed, includeExpired bool) ([]*models.Invite, error) {
	now := time.Now().UTC()
	list, err := s.repos.Invites(s.db).List(ctx, includeUsed, includeExpired, now)
	if err != nil {
		return nil, err
	}
	for _, invite := range list {
		invite.Status = invite.StatusAt(now)
	}
	return list, nil
}

// Revoke deletes a pending invitation. Used invitations are untouched and
// false is returned; that is not an error.
func (s *InviteService) Revoke(ctx context.Context, token string) (bool, error) {
	return s.repos.Invites(s.db).DeleteUnused(ctx, token)
}

// CleanupExpired deletes all unused invitations whose expiry has passed and
// returns how many were removed. Running it twice in a row removes 0 on the
// second run.
func (s *InviteService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.repos.Invites(s.db).DeleteExpired(ctx, time.Now().UTC())
}

// Stats summarizes the invitation table using the same time-comparison rules
// as ListInvites.
func (s *InviteService) Stats(ctx context.Context) (*invitesrepo.Stats, error) {
	return s.repos.Invites(s.db).Stats(ctx, time.Now().UTC())
}
