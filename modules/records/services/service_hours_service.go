package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/wingtrack/wingtrack/modules/records/domain/entities/servicehours"
	"github.com/wingtrack/wingtrack/pkg/eventbus"
)

type ServiceHoursService struct {
	repo      servicehours.Repository
	publisher eventbus.EventBus
}

func NewServiceHoursService(repo servicehours.Repository, publisher eventbus.EventBus) *ServiceHoursService {
	return &ServiceHoursService{repo: repo, publisher: publisher}
}

func (s *ServiceHoursService) GetPaginated(ctx context.Context, params *servicehours.FindParams) ([]*servicehours.Entry, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *ServiceHoursService) GetByID(ctx context.Context, id uuid.UUID) (*servicehours.Entry, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ServiceHoursService) Create(ctx context.Context, data *servicehours.Entry) error {
	if data.Status == "" {
		data.Status = servicehours.StatusPending
	}
	if err := s.repo.Create(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("records.service_hours.created", data)
	return nil
}

func (s *ServiceHoursService) Update(ctx context.Context, data *servicehours.Entry) error {
	if err := s.repo.Update(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("records.service_hours.updated", data)
	return nil
}

func (s *ServiceHoursService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish("records.service_hours.deleted", id)
	return nil
}
