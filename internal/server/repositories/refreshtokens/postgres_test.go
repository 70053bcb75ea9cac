package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/tensillabs/teamspace/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+refresh_tokens`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), "u-1", "tok", time.Hour); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestFind_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	exp := time.Now().Add(time.Hour)
	mock.ExpectQuery(`(?s)SELECT\s+user_id,\s*expires_at\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1`).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).AddRow("u-1", exp))

	got, err := repo.Find(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got.UserID != "u-1" || got.Token != "tok" || !got.Expires.Equal(exp) {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestFind_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+user_id,\s*expires_at\s+FROM\s+refresh_tokens`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1`).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "tok"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_RowAlreadyGone(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1`).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "tok"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestDeleteForUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.DeleteForUser(context.Background(), "u-1"); err != nil {
		t.Fatalf("DeleteForUser error: %v", err)
	}
}
