package invites

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lankamar/bicauth/internal/common"
	"github.com/lankamar/bicauth/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+invites\s*\(token,\s*role,\s*email,\s*expires_at,\s*created_by\)\s*VALUES\s*\(\$1,\s*\$2,\s*NULLIF\(\$3,\s*''\),\s*\$4,\s*\$5\)\s*RETURNING\s+id,\s*created_at\s*$`

	now := time.Now().UTC()
	expires := now.Add(72 * time.Hour)
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), now)
	mock.ExpectQuery(q).
		WithArgs("tok-123", "director", "", expires, nil).
		WillReturnRows(rows)

	inv := &models.Invite{Token: "tok-123", Role: "director", ExpiresAt: &expires}
	got, err := repo.Create(context.Background(), inv)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 5 || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected invite: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+invites`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Invite{Token: "t", Role: "usuario"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByToken_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*token,\s*role,\s*COALESCE\(email,\s*''\),\s*expires_at,\s*used_at,\s*created_by,\s*created_at\s+FROM\s+invites\s+WHERE\s+token\s*=\s*\$1\s*$`

	now := time.Now().UTC()
	expires := now.Add(time.Hour)
	rows := sqlmock.NewRows([]string{"id", "token", "role", "email", "expires_at", "used_at", "created_by", "created_at"}).
		AddRow(int64(9), "tok-9", "director", "a@x.com", expires, nil, int64(1), now)
	mock.ExpectQuery(q).WithArgs("tok-9").WillReturnRows(rows)

	got, err := repo.GetByToken(context.Background(), "tok-9")
	if err != nil {
		t.Fatalf("GetByToken error: %v", err)
	}
	if got.ID != 9 || got.Email != "a@x.com" || got.UsedAt != nil || got.CreatedBy == nil || *got.CreatedBy != 1 {
		t.Fatalf("unexpected invite: %+v", got)
	}
}

func TestGetByToken_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+invites\s+WHERE\s+token`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByToken(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestMarkUsed(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Now().UTC()
	mock.ExpectExec(`UPDATE\s+invites\s+SET\s+used_at\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2`).
		WithArgs(at, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkUsed(context.Background(), 9, at); err != nil {
		t.Fatalf("MarkUsed error: %v", err)
	}
}

func TestList_DefaultFiltersUsedAndExpired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+invites\s+WHERE\s+1=1\s+AND\s+used_at\s+IS\s+NULL\s+AND\s+\(expires_at\s+IS\s+NULL\s+OR\s+expires_at\s*>\s*\$1\)\s+ORDER\s+BY\s+created_at\s+DESC\s*$`

	now := time.Now().UTC()
	expires := now.Add(time.Hour)
	rows := sqlmock.NewRows([]string{"id", "token", "role", "email", "expires_at", "used_at", "created_by", "created_at"}).
		AddRow(int64(2), "tok-2", "usuario", "", expires, nil, nil, now)
	mock.ExpectQuery(q).WithArgs(now).WillReturnRows(rows)

	got, err := repo.List(context.Background(), false, false, now)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 1 || got[0].Token != "tok-2" || got[0].Email != "" {
		t.Fatalf("unexpected invites: %+v", got)
	}
}

func TestList_IncludeAll(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+invites\s+WHERE\s+1=1\s+ORDER\s+BY\s+created_at\s+DESC\s*$`

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "token", "role", "email", "expires_at", "used_at", "created_by", "created_at"}).
		AddRow(int64(1), "tok-1", "ceo", "", nil, now, nil, now)
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.List(context.Background(), true, true, now)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 1 || got[0].UsedAt == nil {
		t.Fatalf("unexpected invites: %+v", got)
	}
}

func TestDeleteUnused(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `DELETE\s+FROM\s+invites\s+WHERE\s+token\s*=\s*\$1\s+AND\s+used_at\s+IS\s+NULL`

	mock.ExpectExec(q).WithArgs("tok-live").WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.DeleteUnused(context.Background(), "tok-live")
	if err != nil || !ok {
		t.Fatalf("expected deleted=true, got ok=%v err=%v", ok, err)
	}

	mock.ExpectExec(q).WithArgs("tok-used").WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.DeleteUnused(context.Background(), "tok-used")
	if err != nil || ok {
		t.Fatalf("expected deleted=false for used token, got ok=%v err=%v", ok, err)
	}
}

func TestDeleteExpired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	q := `DELETE\s+FROM\s+invites\s+WHERE\s+expires_at\s*<\s*\$1\s+AND\s+used_at\s+IS\s+NULL`

	mock.ExpectExec(q).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := repo.DeleteExpired(context.Background(), now)
	if err != nil || n != 3 {
		t.Fatalf("expected 3 deleted, got n=%d err=%v", n, err)
	}

	mock.ExpectExec(q).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 0))
	n, err = repo.DeleteExpired(context.Background(), now)
	if err != nil || n != 0 {
		t.Fatalf("expected idempotent second run, got n=%d err=%v", n, err)
	}
}

func TestStats(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"total", "pending", "used", "expired"}).
		AddRow(int64(10), int64(4), int64(5), int64(1))
	mock.ExpectQuery(`(?s)SELECT\s+COUNT\(\*\),.*FILTER.*FROM\s+invites`).
		WithArgs(now).
		WillReturnRows(rows)

	got, err := repo.Stats(context.Background(), now)
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if got.Total != 10 || got.Pending != 4 || got.Used != 5 || got.Expired != 1 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}
