package invites

import (
	"context"
	"time"

	"github.com/lankamar/bicauth/internal/models"
)

// Stats summarizes the invitation table. Pending and Expired are computed
// against the instant passed to the query, not against stored state.
type Stats struct {
	Total   int64
	Pending int64
	Used    int64
	Expired int64
}

type Repository interface {
	Create(ctx context.Context, invite *models.Invite) (*models.Invite, error)
	GetByToken(ctx context.Context, token string) (*models.Invite, error)
	MarkUsed(ctx context.Context, id int64, at time.Time) error
	List(ctx context.Context, includeUsed, includeExpired bool, now time.Time) ([]*models.Invite, error)
	DeleteUnused(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Stats(ctx context.Context, now time.Time) (*Stats, error)
}
