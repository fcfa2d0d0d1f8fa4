package inspection

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Inspection is one uniform inspection score, 0 to 100.
type Inspection struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	CadetID        uuid.UUID
	InspectionDate time.Time
	Score          int
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func New(cadetID uuid.UUID, inspectionDate time.Time, score int) *Inspection {
	now := time.Now()
	return &Inspection{
		ID:             uuid.New(),
		CadetID:        cadetID,
		InspectionDate: inspectionDate,
		Score:          score,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

type FindParams struct {
	CadetID uuid.UUID
	Limit   int
	Offset  int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]*Inspection, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Inspection, error)
	Create(ctx context.Context, data *Inspection) error
	Update(ctx context.Context, data *Inspection) error
	Delete(ctx context.Context, id uuid.UUID) error
}
