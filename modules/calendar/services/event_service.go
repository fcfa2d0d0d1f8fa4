package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wingtrack/wingtrack/modules/calendar/domain/event"
	"github.com/wingtrack/wingtrack/modules/calendar/recurrence"
	"github.com/wingtrack/wingtrack/modules/core/domain/entities/tenant"
	"github.com/wingtrack/wingtrack/pkg/composables"
	"github.com/wingtrack/wingtrack/pkg/eventbus"
)

var (
	instancesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wingtrack_calendar_instances_generated_total",
		Help: "Recurring event instances materialized by the expander.",
	})
	instanceWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wingtrack_calendar_instance_write_failures_total",
		Help: "Generated instances that failed to persist.",
	})
)

// DeleteScope selects how much of a series a delete removes.
type DeleteScope string

const (
	ScopeOccurrence DeleteScope = "occurrence"
	ScopeSeries     DeleteScope = "series"
)

// ExpansionResult reports a write that may have materialized instances.
// Warnings carry per-instance persistence failures; the parent write itself
// is never partial.
type ExpansionResult struct {
	Event            *event.Event
	InstancesCreated int
	Warnings         []string
}

type EventService struct {
	repo      event.Repository
	tenants   tenant.Repository
	publisher eventbus.EventBus
	limits    recurrence.Limits
}

func NewEventService(repo event.Repository, tenants tenant.Repository, publisher eventbus.EventBus, limits recurrence.Limits) *EventService {
	return &EventService{repo: repo, tenants: tenants, publisher: publisher, limits: limits}
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EventService) GetPaginated(ctx context.Context, params *event.FindParams) ([]*event.Event, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *EventService) ValidateRule(rule *event.Rule) error {
	return recurrence.Validate(rule)
}

// Create persists the event and, for recurring events, materializes its
// instances. The parent is written transactionally; each instance is written
// in its own transaction so that a single bad row degrades to a warning
// instead of losing the series.
func (s *EventService) Create(ctx context.Context, data *event.Event) (*ExpansionResult, error) {
	if data.IsRecurring {
		if err := recurrence.Validate(data.Recurrence); err != nil {
			return nil, err
		}
	}
	if err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, data)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish("calendar.event.created", data)

	result := &ExpansionResult{Event: data}
	if data.IsRecurring {
		if err := s.materialize(ctx, data, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Update rewrites the event. When the event is a recurring parent its
// instances are dropped and regenerated from the updated rule.
func (s *EventService) Update(ctx context.Context, data *event.Event) (*ExpansionResult, error) {
	if data.IsRecurring {
		if err := recurrence.Validate(data.Recurrence); err != nil {
			return nil, err
		}
	}
	if err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, data); err != nil {
			return err
		}
		if data.ParentEventID == nil {
			_, err := s.repo.DeleteInstances(txCtx, data.ID)
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish("calendar.event.updated", data)

	result := &ExpansionResult{Event: data}
	if data.IsRecurring && data.ParentEventID == nil {
		if err := s.materialize(ctx, data, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Regenerate rebuilds the instances of a series from its stored rule. Called
// with an instance id it resolves to the series parent first.
func (s *EventService) Regenerate(ctx context.Context, id uuid.UUID) (*ExpansionResult, error) {
	parent, err := s.resolveParent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !parent.IsRecurring || parent.Recurrence == nil {
		return nil, errors.New("event is not recurring")
	}
	if err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		_, err := s.repo.DeleteInstances(txCtx, parent.ID)
		return err
	}); err != nil {
		return nil, err
	}
	result := &ExpansionResult{Event: parent}
	if err := s.materialize(ctx, parent, result); err != nil {
		return nil, err
	}
	s.publisher.Publish("calendar.event.regenerated", parent)
	return result, nil
}

// Delete removes a single occurrence or a whole series. Deleting a parent
// with occurrence scope still removes its instances since they cannot outlive
// the series.
func (s *EventService) Delete(ctx context.Context, id uuid.UUID, scope DeleteScope) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	target := entity
	if scope == ScopeSeries && entity.ParentEventID != nil {
		target, err = s.repo.GetByID(ctx, *entity.ParentEventID)
		if err != nil {
			return err
		}
	}
	if err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		if target.ParentEventID == nil {
			if _, err := s.repo.DeleteInstances(txCtx, target.ID); err != nil {
				return err
			}
		}
		return s.repo.Delete(txCtx, target.ID)
	}); err != nil {
		return err
	}
	s.publisher.Publish("calendar.event.deleted", target.ID)
	return nil
}

func (s *EventService) materialize(ctx context.Context, parent *event.Event, result *ExpansionResult) error {
	loc, err := s.tenantLocation(ctx, parent.TenantID)
	if err != nil {
		return err
	}
	specs, err := recurrence.Expand(parent.StartsAt, parent.EndsAt, parent.Recurrence, loc, s.limits)
	if err != nil {
		return err
	}
	logger, hasLogger := composables.TryUseLogger(ctx)
	for _, spec := range specs {
		inst := parent.Instance(spec.StartsAt, spec.EndsAt)
		err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
			return s.repo.Create(txCtx, inst)
		})
		if err != nil {
			instanceWriteFailures.Inc()
			warning := fmt.Sprintf("instance at %s not persisted: %v", spec.StartsAt.Format(time.RFC3339), err)
			result.Warnings = append(result.Warnings, warning)
			if hasLogger {
				logger.WithField("parent_event_id", parent.ID).Warn(warning)
			}
			continue
		}
		result.InstancesCreated++
		instancesGenerated.Inc()
	}
	return nil
}

func (s *EventService) resolveParent(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.ParentEventID == nil {
		return entity, nil
	}
	return s.repo.GetByID(ctx, *entity.ParentEventID)
}

func (s *EventService) tenantLocation(ctx context.Context, tenantID uuid.UUID) (*time.Location, error) {
	if tenantID == uuid.Nil {
		id, err := composables.UseTenantID(ctx)
		if err != nil {
			return nil, err
		}
		tenantID = id
	}
	t, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, errors.Wrap(err, "resolving school timezone")
	}
	return t.Location(), nil
}
