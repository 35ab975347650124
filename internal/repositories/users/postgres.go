package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lankamar/bicauth/internal/common"
	"github.com/lankamar/bicauth/internal/dbx"
	"github.com/lankamar/bicauth/internal/models"
)

// uniqueViolation is the PostgreSQL error code raised when the users_email
// unique constraint rejects an insert.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, password_hash, name, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, email_verified, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Name, user.Role).
		Scan(&user.ID, &user.EmailVerified, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, name, role, email_verified, last_login_at, created_at, updated_at
		 FROM users
		 WHERE email = $1
		 `

	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, name, role, email_verified, last_login_at, created_at, updated_at
		 FROM users
		 WHERE id = $1
		 `

	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role,
		&user.EmailVerified, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// List returns all users newest-first. The password hash column is not
// selected; returned records always have an empty PasswordHash.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT id, email, name, role, email_verified, last_login_at, created_at, updated_at
		 FROM users
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID, &user.Email, &user.Name, &user.Role,
			&user.EmailVerified, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, id int64, role string) (bool, error) {
	query :=
		`UPDATE users SET role = $1, updated_at = now()
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, role, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return rowsAffected(res)
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	query :=
		`UPDATE users SET last_login_at = $1
		 WHERE id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) (bool, error) {
	query :=
		`UPDATE users SET password_hash = $1, updated_at = now()
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, hash, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return rowsAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query :=
		`DELETE FROM users
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return rowsAffected(res)
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func rowsAffected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
