package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/wingtrack/wingtrack/modules/core/domain/entities/cadet"
	"github.com/wingtrack/wingtrack/pkg/eventbus"
)

type CadetService struct {
	repo      cadet.Repository
	publisher eventbus.EventBus
}

func NewCadetService(repo cadet.Repository, publisher eventbus.EventBus) *CadetService {
	return &CadetService{repo: repo, publisher: publisher}
}

func (s *CadetService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *CadetService) GetAll(ctx context.Context) ([]*cadet.Cadet, error) {
	return s.repo.GetAll(ctx)
}

func (s *CadetService) GetPaginated(ctx context.Context, params *cadet.FindParams) ([]*cadet.Cadet, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *CadetService) GetByID(ctx context.Context, id uuid.UUID) (*cadet.Cadet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CadetService) Create(ctx context.Context, data *cadet.Cadet) error {
	if err := s.repo.Create(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("cadet.created", data)
	return nil
}

func (s *CadetService) Update(ctx context.Context, data *cadet.Cadet) error {
	if err := s.repo.Update(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("cadet.updated", data)
	return nil
}

func (s *CadetService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish("cadet.deleted", id)
	return nil
}
