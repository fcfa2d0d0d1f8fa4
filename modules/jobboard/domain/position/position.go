package position

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Position is a manually saved chart coordinate for one assignment. It is
// school-wide, last-write-wins state: concurrent editors racing on the same
// node is accepted behavior for a low-contention admin tool.
type Position struct {
	AssignmentID uuid.UUID
	TenantID     uuid.UUID
	X            float64
	Y            float64
	UpdatedAt    time.Time
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Position, error)
	Upsert(ctx context.Context, data *Position) error
	Delete(ctx context.Context, assignmentID uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}
