package persons

import (
	"context"

	"github.com/akarpovs/personapi/internal/server/models"
)

type Repository interface {
	// Insert writes a new person row. A nickname collision detected by the
	// database unique constraint is returned as common.ErrorAlreadyExists.
	Insert(ctx context.Context, person *models.Person) error

	// FindByID returns the person with the given id, or common.ErrorNotFound.
	FindByID(ctx context.Context, id string) (*models.Person, error)

	// Search returns up to 50 persons whose nickname, name, or stack contains
	// the term, case-insensitively.
	Search(ctx context.Context, term string) ([]*models.Person, error)

	// Count returns the total number of persons.
	Count(ctx context.Context) (int64, error)
}
