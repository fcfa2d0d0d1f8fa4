package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/wingtrack/wingtrack/modules/core/domain/entities/tenant"
	"github.com/wingtrack/wingtrack/pkg/eventbus"
)

type TenantService struct {
	repo      tenant.Repository
	publisher eventbus.EventBus
}

func NewTenantService(repo tenant.Repository, publisher eventbus.EventBus) *TenantService {
	return &TenantService{repo: repo, publisher: publisher}
}

func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TenantService) GetAll(ctx context.Context) ([]*tenant.Tenant, error) {
	return s.repo.GetAll(ctx)
}

func (s *TenantService) Create(ctx context.Context, data *tenant.Tenant) error {
	if err := s.repo.Create(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("tenant.created", data)
	return nil
}

func (s *TenantService) Update(ctx context.Context, data *tenant.Tenant) error {
	if err := s.repo.Update(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("tenant.updated", data)
	return nil
}
