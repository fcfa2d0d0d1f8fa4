package cadet

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Cadet struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	FirstName string
	LastName  string
	Rank      string
	Flight    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(firstName, lastName, rank, flight string) *Cadet {
	now := time.Now()
	return &Cadet{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  lastName,
		Rank:      rank,
		Flight:    flight,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type FindParams struct {
	Limit  int
	Offset int
	Flight string
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetAll(ctx context.Context) ([]*Cadet, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Cadet, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Cadet, error)
	Create(ctx context.Context, data *Cadet) error
	Update(ctx context.Context, data *Cadet) error
	Delete(ctx context.Context, id uuid.UUID) error
}
