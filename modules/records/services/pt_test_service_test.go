package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/wingtrack/wingtrack/modules/records/domain/entities/pttest"
	"github.com/wingtrack/wingtrack/modules/records/services"
	"github.com/wingtrack/wingtrack/pkg/eventbus"
)

type memoryPTTestRepo struct {
	rows map[uuid.UUID]*pttest.Result
}

func newMemoryPTTestRepo() *memoryPTTestRepo {
	return &memoryPTTestRepo{rows: map[uuid.UUID]*pttest.Result{}}
}

func (r *memoryPTTestRepo) GetPaginated(context.Context, *pttest.FindParams) ([]*pttest.Result, error) {
	out := make([]*pttest.Result, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	return out, nil
}

func (r *memoryPTTestRepo) GetByID(_ context.Context, id uuid.UUID) (*pttest.Result, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return row, nil
}

func (r *memoryPTTestRepo) Create(_ context.Context, data *pttest.Result) error {
	r.rows[data.ID] = data
	return nil
}

func (r *memoryPTTestRepo) Update(_ context.Context, data *pttest.Result) error {
	r.rows[data.ID] = data
	return nil
}

func (r *memoryPTTestRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func TestScore(t *testing.T) {
	require.InDelta(t, 100, services.Score(60, 60, 480), 0.01, "maxed test scores 100")
	require.InDelta(t, 0, services.Score(0, 0, 0), 0.01, "empty test scores 0")

	half := services.Score(30, 30, 960)
	require.InDelta(t, 50, half, 0.01, "half effort scores 50")

	fast := services.Score(0, 0, 240)
	require.InDelta(t, 100.0/3.0, fast, 0.01, "run faster than target caps its third")
}

func TestPTTestServiceComputesScore(t *testing.T) {
	repo := newMemoryPTTestRepo()
	svc := services.NewPTTestService(repo, eventbus.NewEventPublisher(logrus.New()))
	ctx := context.Background()

	result := pttest.New(uuid.New(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	result.Pushups = 60
	result.Situps = 60
	result.RunSeconds = 480
	require.NoError(t, svc.Create(ctx, result))
	require.InDelta(t, 100, result.Score, 0.01)

	result.RunSeconds = 960
	require.NoError(t, svc.Update(ctx, result))
	require.InDelta(t, 100-100.0/6.0, result.Score, 0.01)
}
