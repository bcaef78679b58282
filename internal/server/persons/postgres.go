package persons

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akarpovs/personapi/internal/common"
	"github.com/akarpovs/personapi/internal/dbx"
	"github.com/akarpovs/personapi/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.Querier
}

func NewPostgresRepository(db dbx.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, person *models.Person) error {

	query :=
		`INSERT INTO persons (id, nickname, name, birthdate, stack, stack_search)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	// stack_search is regenerated from the canonical stack on every insert;
	// it is never edited independently.
	stackSearch := strings.Join(person.Stack, " ")

	_, err := r.db.Exec(ctx, query,
		person.ID, person.Nickname, person.Name, person.BirthDate, person.Stack, stackSearch)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Person, error) {
	query :=
		`SELECT id, nickname, name, birthdate, stack FROM persons
		 WHERE id = $1
		 `

	person := &models.Person{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&person.ID, &person.Nickname, &person.Name, &person.BirthDate, &person.Stack)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return person, nil
}

// likeEscaper uses $ as the LIKE escape character so the SQL below stays free
// of backslash-escaping ambiguity.
var likeEscaper = strings.NewReplacer("$", "$$", "%", "$%", "_", "$_")

func (r *PostgresRepository) Search(ctx context.Context, term string) ([]*models.Person, error) {
	query :=
		`SELECT id, nickname, name, birthdate, stack FROM persons
		 WHERE nickname ILIKE $1 ESCAPE '$' OR
		   name ILIKE $1 ESCAPE '$' OR
		   stack_search ILIKE $1 ESCAPE '$'
		 LIMIT 50
		 `

	// ILIKE folds the stored side; the term is folded here.
	pattern := "%" + strings.ToLower(likeEscaper.Replace(term)) + "%"

	rows, err := r.db.Query(ctx, query, pattern)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Person, 0)
	for rows.Next() {
		person := &models.Person{}
		if err := rows.Scan(&person.ID, &person.Nickname, &person.Name, &person.BirthDate, &person.Stack); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM persons`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}
