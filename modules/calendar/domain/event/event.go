package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a calendar entry. A recurring parent carries its Rule; generated
// instances carry ParentEventID and copy every display field of the parent
// with shifted dates.
type Event struct {
	ID                uuid.UUID
	TenantID          uuid.UUID
	Title             string
	Description       string
	Location          string
	EventType         string
	StartsAt          time.Time
	EndsAt            time.Time
	AllDay            bool
	IsRecurring       bool
	Recurrence        *Rule
	RecurrenceEndDate *time.Time
	ParentEventID     *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func New(title string, startsAt, endsAt time.Time) *Event {
	now := time.Now()
	return &Event{
		ID:        uuid.New(),
		Title:     title,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Instance derives a child occurrence of e at the given window, copying every
// non-date field.
func (e *Event) Instance(startsAt, endsAt time.Time) *Event {
	now := time.Now()
	parentID := e.ID
	return &Event{
		ID:            uuid.New(),
		TenantID:      e.TenantID,
		Title:         e.Title,
		Description:   e.Description,
		Location:      e.Location,
		EventType:     e.EventType,
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		AllDay:        e.AllDay,
		ParentEventID: &parentID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

type FindParams struct {
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Event, error)
	ListInstances(ctx context.Context, parentID uuid.UUID) ([]*Event, error)
	Create(ctx context.Context, data *Event) error
	Update(ctx context.Context, data *Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteInstances(ctx context.Context, parentID uuid.UUID) (int64, error)
}
