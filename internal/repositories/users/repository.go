package users

import (
	"context"
	"time"

	"github.com/lankamar/bicauth/internal/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateRole(ctx context.Context, id int64, role string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}
