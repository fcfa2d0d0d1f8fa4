package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/wingtrack/wingtrack/modules/jobboard/domain/assignment"
	"github.com/wingtrack/wingtrack/pkg/eventbus"
)

type AssignmentService struct {
	repo      assignment.Repository
	publisher eventbus.EventBus
}

func NewAssignmentService(repo assignment.Repository, publisher eventbus.EventBus) *AssignmentService {
	return &AssignmentService{repo: repo, publisher: publisher}
}

func (s *AssignmentService) GetAll(ctx context.Context) ([]*assignment.Assignment, error) {
	return s.repo.GetAll(ctx)
}

func (s *AssignmentService) GetByID(ctx context.Context, id uuid.UUID) (*assignment.Assignment, error) {
	return s.repo.GetByID(ctx, id)
}

// normalizeLinks enforces the single-active-link policy: a role either
// reports to another role or assists one, never both. Setting one side to a
// real value forces the other to the sentinel, and blanks collapse to the
// sentinel too.
func normalizeLinks(data *assignment.Assignment) {
	if data.ReportsTo == "" {
		data.ReportsTo = assignment.NoLink
	}
	if data.Assistant == "" {
		data.Assistant = assignment.NoLink
	}
	if data.HasParent() && data.IsAssistant() {
		// Reports-to wins when both arrive set; the UI never sends that.
		data.Assistant = assignment.NoLink
	}
}

func (s *AssignmentService) Create(ctx context.Context, data *assignment.Assignment) error {
	normalizeLinks(data)
	if err := s.repo.Create(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("jobboard.assignment.created", data)
	return nil
}

func (s *AssignmentService) Update(ctx context.Context, data *assignment.Assignment) error {
	normalizeLinks(data)
	if err := s.repo.Update(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("jobboard.assignment.updated", data)
	return nil
}

func (s *AssignmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish("jobboard.assignment.deleted", id)
	return nil
}

// SaveConnections replaces the manually drawn edge list of one assignment.
func (s *AssignmentService) SaveConnections(ctx context.Context, id uuid.UUID, connections []assignment.Connection) (*assignment.Assignment, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entity.Connections = connections
	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, err
	}
	s.publisher.Publish("jobboard.assignment.updated", entity)
	return entity, nil
}
