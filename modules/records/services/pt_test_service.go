package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/wingtrack/wingtrack/modules/records/domain/entities/pttest"
	"github.com/wingtrack/wingtrack/pkg/eventbus"
)

// Scoring ceilings: hitting each earns the full third of the 100-point
// composite. The run third scales down as the time exceeds the target.
const (
	maxPushups       = 60
	maxSitups        = 60
	targetRunSeconds = 480
)

type PTTestService struct {
	repo      pttest.Repository
	publisher eventbus.EventBus
}

func NewPTTestService(repo pttest.Repository, publisher eventbus.EventBus) *PTTestService {
	return &PTTestService{repo: repo, publisher: publisher}
}

// Score computes the composite 0..100 score for a test result.
func Score(pushups, situps, runSeconds int) float64 {
	third := 100.0 / 3.0
	score := third*ratio(pushups, maxPushups) + third*ratio(situps, maxSitups)
	if runSeconds > 0 {
		run := float64(targetRunSeconds) / float64(runSeconds)
		if run > 1 {
			run = 1
		}
		score += third * run
	}
	return score
}

func ratio(value, max int) float64 {
	if value <= 0 {
		return 0
	}
	if value >= max {
		return 1
	}
	return float64(value) / float64(max)
}

func (s *PTTestService) GetPaginated(ctx context.Context, params *pttest.FindParams) ([]*pttest.Result, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *PTTestService) GetByID(ctx context.Context, id uuid.UUID) (*pttest.Result, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PTTestService) Create(ctx context.Context, data *pttest.Result) error {
	data.Score = Score(data.Pushups, data.Situps, data.RunSeconds)
	if err := s.repo.Create(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("records.pt_test.created", data)
	return nil
}

func (s *PTTestService) Update(ctx context.Context, data *pttest.Result) error {
	data.Score = Score(data.Pushups, data.Situps, data.RunSeconds)
	if err := s.repo.Update(ctx, data); err != nil {
		return err
	}
	s.publisher.Publish("records.pt_test.updated", data)
	return nil
}

func (s *PTTestService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish("records.pt_test.deleted", id)
	return nil
}
