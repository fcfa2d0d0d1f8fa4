package pttest

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Result is one physical training test outcome. RunSeconds holds the timed
// run in whole seconds.
type Result struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	CadetID    uuid.UUID
	TestDate   time.Time
	Pushups    int
	Situps     int
	RunSeconds int
	Score      float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func New(cadetID uuid.UUID, testDate time.Time) *Result {
	now := time.Now()
	return &Result{
		ID:        uuid.New(),
		CadetID:   cadetID,
		TestDate:  testDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type FindParams struct {
	CadetID uuid.UUID
	Limit   int
	Offset  int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]*Result, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Result, error)
	Create(ctx context.Context, data *Result) error
	Update(ctx context.Context, data *Result) error
	Delete(ctx context.Context, id uuid.UUID) error
}
