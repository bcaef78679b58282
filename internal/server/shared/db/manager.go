package db

import (
	"context"

	"github.com/akarpovs/personapi/internal/dbx"
	"github.com/akarpovs/personapi/internal/server/persons"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Pool() dbx.Querier
	Persons() persons.Repository
	Close()
}
