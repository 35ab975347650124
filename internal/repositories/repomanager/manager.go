package repomanager

import (
	"context"
	"database/sql"

	"github.com/lankamar/bicauth/internal/dbx"
	"github.com/lankamar/bicauth/internal/repositories/invites"
	"github.com/lankamar/bicauth/internal/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repository code either on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Invites(db dbx.DBTX) invites.Repository
}
