package servicehours

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Entry is one community service hours submission.
type Entry struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	CadetID      uuid.UUID
	ActivityDate time.Time
	Hours        float64
	Organization string
	Description  string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func New(cadetID uuid.UUID, activityDate time.Time, hours float64) *Entry {
	now := time.Now()
	return &Entry{
		ID:           uuid.New(),
		CadetID:      cadetID,
		ActivityDate: activityDate,
		Hours:        hours,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

type FindParams struct {
	CadetID uuid.UUID
	Limit   int
	Offset  int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]*Entry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	Create(ctx context.Context, data *Entry) error
	Update(ctx context.Context, data *Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
}
