package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wingtrack/wingtrack/modules/calendar/domain/event"
	"github.com/wingtrack/wingtrack/pkg/composables"
)

var ErrEventNotFound = errors.New("event not found")

type PgEventRepository struct{}

func NewEventRepository() event.Repository {
	return &PgEventRepository{}
}

const eventColumns = `id, tenant_id, title, description, location, event_type,
	starts_at, ends_at, all_day, is_recurring, recurrence_rule, recurrence_end_date,
	parent_event_id, created_at, updated_at`

func scanEvent(row pgx.Row) (*event.Event, error) {
	var e event.Event
	var rule []byte
	err := row.Scan(
		&e.ID, &e.TenantID, &e.Title, &e.Description, &e.Location, &e.EventType,
		&e.StartsAt, &e.EndsAt, &e.AllDay, &e.IsRecurring, &rule, &e.RecurrenceEndDate,
		&e.ParentEventID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if len(rule) > 0 {
		e.Recurrence = &event.Rule{}
		if err := json.Unmarshal(rule, e.Recurrence); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

func collectEvents(rows pgx.Rows) ([]*event.Event, error) {
	defer rows.Close()
	var out []*event.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func marshalRule(r *event.Rule) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

func (g *PgEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	return scanEvent(tx.QueryRow(ctx, `
		SELECT `+eventColumns+` FROM calendar_events
		WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (g *PgEventRepository) GetPaginated(ctx context.Context, params *event.FindParams) ([]*event.Event, error) {
	if params == nil {
		params = &event.FindParams{}
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	if !params.From.IsZero() || !params.To.IsZero() {
		rows, err := tx.Query(ctx, `
			SELECT `+eventColumns+` FROM calendar_events
			WHERE tenant_id = $1
			  AND ($2::timestamptz IS NULL OR ends_at >= $2)
			  AND ($3::timestamptz IS NULL OR starts_at <= $3)
			ORDER BY starts_at, id
			OFFSET $4 LIMIT $5`,
			tenantID, nullableTime(params.From), nullableTime(params.To), offset, limit)
		if err != nil {
			return nil, err
		}
		return collectEvents(rows)
	}

	rows, err := tx.Query(ctx, `
		SELECT `+eventColumns+` FROM calendar_events
		WHERE tenant_id = $1
		ORDER BY starts_at, id
		OFFSET $2 LIMIT $3`, tenantID, offset, limit)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (g *PgEventRepository) ListInstances(ctx context.Context, parentID uuid.UUID) ([]*event.Event, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
		SELECT `+eventColumns+` FROM calendar_events
		WHERE tenant_id = $1 AND parent_event_id = $2
		ORDER BY starts_at`, tenantID, parentID)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (g *PgEventRepository) Create(ctx context.Context, data *event.Event) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	rule, err := marshalRule(data.Recurrence)
	if err != nil {
		return err
	}
	data.TenantID = tenantID
	_, err = tx.Exec(ctx, `
		INSERT INTO calendar_events (
			id, tenant_id, title, description, location, event_type,
			starts_at, ends_at, all_day, is_recurring, recurrence_rule, recurrence_end_date,
			parent_event_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		data.ID, data.TenantID, data.Title, data.Description, data.Location, data.EventType,
		data.StartsAt, data.EndsAt, data.AllDay, data.IsRecurring, rule, data.RecurrenceEndDate,
		data.ParentEventID, data.CreatedAt, data.UpdatedAt)
	return err
}

func (g *PgEventRepository) Update(ctx context.Context, data *event.Event) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	rule, err := marshalRule(data.Recurrence)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE calendar_events
		SET title = $3, description = $4, location = $5, event_type = $6,
		    starts_at = $7, ends_at = $8, all_day = $9, is_recurring = $10,
		    recurrence_rule = $11, recurrence_end_date = $12, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, data.ID, data.Title, data.Description, data.Location, data.EventType,
		data.StartsAt, data.EndsAt, data.AllDay, data.IsRecurring, rule, data.RecurrenceEndDate)
	return err
}

func (g *PgEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, "DELETE FROM calendar_events WHERE tenant_id = $1 AND id = $2", tenantID, id)
	return err
}

func (g *PgEventRepository) DeleteInstances(ctx context.Context, parentID uuid.UUID) (int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM calendar_events WHERE tenant_id = $1 AND parent_event_id = $2", tenantID, parentID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
