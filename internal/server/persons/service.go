// Package persons contains the person domain: the repository over Postgres,
// the creation-request validation rules, and the service orchestrating both
// with the process-local index.
package persons

import (
	"context"

	"github.com/akarpovs/personapi/internal/common"
	"github.com/akarpovs/personapi/internal/logging"
	"github.com/akarpovs/personapi/internal/server/index"
	"github.com/akarpovs/personapi/internal/server/models"
	"github.com/google/uuid"
)

type Service struct {
	repo   Repository
	index  *index.Index
	logger logging.Logger
}

func NewService(repo Repository, idx *index.Index, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		index:  idx,
		logger: logger.With("component", "persons"),
	}
}

// Create validates the request, assigns a fresh id, and persists the person.
// Two concurrent creates with the same nickname can both pass the in-memory
// nickname check; the loser of the race comes back from Insert as
// common.ErrorAlreadyExists. The index is only updated after a successful
// write.
func (s *Service) Create(ctx context.Context, req *models.CreatePersonRequest) (*models.Person, error) {
	if !requestIsValid(req, s.index) {
		return nil, common.ErrorValidation
	}

	person := &models.Person{
		ID:        uuid.NewString(),
		Nickname:  req.Nickname,
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Stack:     req.Stack,
	}

	if err := s.repo.Insert(ctx, person); err != nil {
		return nil, err
	}

	s.index.Put(person.ID, person)
	s.index.AddNickname(person.Nickname)
	s.logger.Debug(ctx, "person created", "id", person.ID)

	return person, nil
}

// Get serves from the index when possible and backfills it after a database
// hit, so repeat lookups of the same person skip the round-trip.
func (s *Service) Get(ctx context.Context, id string) (*models.Person, error) {
	if person, ok := s.index.Get(id); ok {
		return person, nil
	}

	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.index.Put(person.ID, person)
	s.index.AddNickname(person.Nickname)

	return person, nil
}

func (s *Service) Search(ctx context.Context, term string) ([]*models.Person, error) {
	return s.repo.Search(ctx, term)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
