package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/wingtrack/wingtrack/modules/records/domain/entities/inspection"
	"github.com/wingtrack/wingtrack/pkg/eventbus"
)

type InspectionService struct {
	repo      inspection.Repository
	publisher eventbus.EventBus
}

func NewInspectionService(repo inspection.Repository, publisher eventbus.EventBus) *InspectionService {
	return &InspectionService{repo: repo, publisher: publisher}
}

func (s *InspectionService) GetPaginated(ctx context.Context, params *inspection.FindParams) ([]*inspection.Inspection, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *InspectionService) GetByID(ctx context.Context, id uuid.UUID) (*inspection.Inspection, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *InspectionService) Create(ctx context.Context, data *inspection.Inspection) error {
	if err := s.repo.Create(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("records.inspection.created", data)
	return nil
}

func (s *InspectionService) Update(ctx context.Context, data *inspection.Inspection) error {
	if err := s.repo.Update(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("records.inspection.updated", data)
	return nil
}

func (s *InspectionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish("records.inspection.deleted", id)
	return nil
}
