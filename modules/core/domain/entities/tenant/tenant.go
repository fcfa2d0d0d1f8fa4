package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant is a school enrolled in the program. Timezone is the IANA zone all
// of the school's calendar math is done in.
type Tenant struct {
	ID        uuid.UUID
	Name      string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(name, timezone string) *Tenant {
	now := time.Now()
	return &Tenant{
		ID:        uuid.New(),
		Name:      name,
		Timezone:  timezone,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Location resolves the school's timezone, falling back to UTC when the
// stored name is invalid.
func (t *Tenant) Location() *time.Location {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetAll(ctx context.Context) ([]*Tenant, error)
	Create(ctx context.Context, data *Tenant) error
	Update(ctx context.Context, data *Tenant) error
}
