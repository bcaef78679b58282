package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akarpovs/personapi/internal/dbx"
	"github.com/akarpovs/personapi/internal/server/migrations"
	"github.com/akarpovs/personapi/internal/server/persons"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
	dsn     string
	pool    *pgxpool.Pool
	persons persons.Repository
}

func (m *PostgresRepositoryManager) Pool() dbx.Querier {
	return m.pool
}

func (m *PostgresRepositoryManager) Persons() persons.Repository {
	return m.persons
}

func (m *PostgresRepositoryManager) Close() {
	m.pool.Close()
}

// RunMigrations applies the embedded goose migrations. Goose drives a
// short-lived database/sql handle on the pgx stdlib driver; the pgx-native
// pool itself is untouched.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	sqlDB, err := sql.Open("pgx", m.dsn)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("db pool error: %w", err)
	}

	m := &PostgresRepositoryManager{
		dsn:     dsn,
		pool:    pool,
		persons: persons.NewPostgresRepository(pool),
	}

	if err := m.RunMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
