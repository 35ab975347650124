package invites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lankamar/bicauth/internal/common"
	"github.com/lankamar/bicauth/internal/dbx"
	"github.com/lankamar/bicauth/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, invite *models.Invite) (*models.Invite, error) {

	query :=
		`INSERT INTO invites (token, role, email, expires_at, created_by)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		invite.Token, invite.Role, invite.Email, invite.ExpiresAt, invite.CreatedBy).
		Scan(&invite.ID, &invite.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return invite, nil
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*models.Invite, error) {
	query :=
		`SELECT id, token, role, COALESCE(email, ''), expires_at, used_at, created_by, created_at
		 FROM invites
		 WHERE token = $1
		 `

	invite := &models.Invite{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&invite.ID, &invite.Token, &invite.Role, &invite.Email,
		&invite.ExpiresAt, &invite.UsedAt, &invite.CreatedBy, &invite.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return invite, nil
}

func (r *PostgresRepository) MarkUsed(ctx context.Context, id int64, at time.Time) error {
	query :=
		`UPDATE invites SET used_at = $1
		 WHERE id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// List returns invitations newest-first. Used and expired records are
// filtered out unless explicitly requested.
func (r *PostgresRepository) List(ctx context.Context, includeUsed, includeExpired bool, now time.Time) ([]*models.Invite, error) {
	query :=
		`SELECT id, token, role, COALESCE(email, ''), expires_at, used_at, created_by, created_at
		 FROM invites
		 WHERE 1=1`
	var args []any

	if !includeUsed {
		query += ` AND used_at IS NULL`
	}
	if !includeExpired {
		args = append(args, now)
		query += fmt.Sprintf(` AND (expires_at IS NULL OR expires_at > $%d)`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Invite
	for rows.Next() {
		invite := &models.Invite{}
		if err := rows.Scan(
			&invite.ID, &invite.Token, &invite.Role, &invite.Email,
			&invite.ExpiresAt, &invite.UsedAt, &invite.CreatedBy, &invite.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, invite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// DeleteUnused removes the invitation only while it is still unused.
// Used invitations are left untouched and false is returned.
func (r *PostgresRepository) DeleteUnused(ctx context.Context, token string) (bool, error) {
	query :=
		`DELETE FROM invites
		 WHERE token = $1 AND used_at IS NULL
		 `

	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query :=
		`DELETE FROM invites
		 WHERE expires_at < $1 AND used_at IS NULL
		 `

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	query :=
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE used_at IS NULL AND (expires_at IS NULL OR expires_at > $1)),
		        COUNT(*) FILTER (WHERE used_at IS NOT NULL),
		        COUNT(*) FILTER (WHERE used_at IS NULL AND expires_at < $1)
		 FROM invites
		 `

	stats := &Stats{}
	err := r.db.QueryRowContext(ctx, query, now).
		Scan(&stats.Total, &stats.Pending, &stats.Used, &stats.Expired)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return stats, nil
}
