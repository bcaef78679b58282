package persons

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/akarpovs/personapi/internal/common"
	"github.com/akarpovs/personapi/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("pgxmock.NewPool error: %v", err)
	}
	return NewPostgresRepository(mock), mock
}

const (
	insertQ = `(?s)^INSERT\s+INTO\s+persons\s*\(id,\s*nickname,\s*name,\s*birthdate,\s*stack,\s*stack_search\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*$`
	findQ   = `(?s)^SELECT\s+id,\s*nickname,\s*name,\s*birthdate,\s*stack\s+FROM\s+persons\s+WHERE\s+id\s*=\s*\$1\s*$`
	searchQ = `(?s)^SELECT\s+id,\s*nickname,\s*name,\s*birthdate,\s*stack\s+FROM\s+persons\s+WHERE\s+nickname\s+ILIKE.*LIMIT\s+50\s*$`
	countQ  = `(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+persons\s*$`
)

func TestInsert_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	defer mock.Close()

	p := &models.Person{
		ID:        "6f2c9bfa-0000-4000-8000-000000000001",
		Nickname:  "alice",
		Name:      "Alice Liddell",
		BirthDate: "1990-06-15",
		Stack:     []string{"go", "postgres"},
	}

	mock.ExpectExec(insertQ).
		WithArgs(p.ID, "alice", "Alice Liddell", "1990-06-15", []string{"go", "postgres"}, "go postgres").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Insert(context.Background(), p); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsert_NilStackSearchText(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	defer mock.Close()

	p := &models.Person{ID: "id-1", Nickname: "bob", Name: "Bob", BirthDate: "1990-01-01"}

	mock.ExpectExec(insertQ).
		WithArgs("id-1", "bob", "Bob", "1990-01-01", []string(nil), "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Insert(context.Background(), p); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
}

func TestInsert_UniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	defer mock.Close()

	mock.ExpectExec(insertQ).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "persons_nickname_key"})

	err := repo.Insert(context.Background(), &models.Person{ID: "id-1", Nickname: "alice"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestInsert_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	defer mock.Close()

	mock.ExpectExec(insertQ).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	err := repo.Insert(context.Background(), &models.Person{ID: "id-1", Nickname: "alice"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("generic failure must not be reported as a duplicate")
	}
}

func TestFindByID_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "nickname", "name", "birthdate", "stack"}).
		AddRow("id-1", "alice", "Alice Liddell", "1990-06-15", []string{"go"})
	mock.ExpectQuery(findQ).WithArgs("id-1").WillReturnRows(rows)

	got, err := repo.FindByID(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if got.ID != "id-1" || got.Nickname != "alice" || len(got.Stack) != 1 {
		t.Fatalf("unexpected person: %+v", got)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	defer mock.Close()

	mock.ExpectQuery(findQ).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestSearch_EscapesAndFoldsTerm(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "nickname", "name", "birthdate", "stack"}).
		AddRow("id-1", "alice", "Alice Liddell", "1990-06-15", []string{"go"})
	mock.ExpectQuery(searchQ).WithArgs("%go$%la$_ng$$uage%").WillReturnRows(rows)

	got, err := repo.Search(context.Background(), "Go%la_ng$uage")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(got) != 1 || got[0].Nickname != "alice" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestSearch_NoMatchesReturnsEmptySlice(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "nickname", "name", "birthdate", "stack"})
	mock.ExpectQuery(searchQ).WithArgs("%nobody%").WillReturnRows(rows)

	got, err := repo.Search(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestCount(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	defer mock.Close()

	mock.ExpectQuery(countQ).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))

	got, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if got != 7 {
		t.Fatalf("want 7, got %d", got)
	}
}
