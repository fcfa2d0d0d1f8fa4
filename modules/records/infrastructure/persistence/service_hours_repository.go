package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wingtrack/wingtrack/modules/records/domain/entities/servicehours"
	"github.com/wingtrack/wingtrack/pkg/composables"
)

var ErrServiceHoursNotFound = errors.New("service hours entry not found")

type PgServiceHoursRepository struct{}

func NewServiceHoursRepository() servicehours.Repository {
	return &PgServiceHoursRepository{}
}

const serviceHoursColumns = "id, tenant_id, cadet_id, activity_date, hours, organization, description, status, created_at, updated_at"

func scanServiceHours(row pgx.Row) (*servicehours.Entry, error) {
	var e servicehours.Entry
	err := row.Scan(&e.ID, &e.TenantID, &e.CadetID, &e.ActivityDate, &e.Hours, &e.Organization, &e.Description, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceHoursNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (g *PgServiceHoursRepository) GetPaginated(ctx context.Context, params *servicehours.FindParams) ([]*servicehours.Entry, error) {
	if params == nil {
		params = &servicehours.FindParams{}
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
		limit = 25
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	rows, err := tx.Query(ctx, `
		SELECT `+serviceHoursColumns+` FROM service_hours
		WHERE tenant_id = $1 AND ($2::uuid IS NULL OR cadet_id = $2)
		ORDER BY activity_date DESC, id
		OFFSET $3 LIMIT $4`, tenantID, nullableUUID(params.CadetID), offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*servicehours.Entry
	for rows.Next() {
		e, err := scanServiceHours(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (g *PgServiceHoursRepository) GetByID(ctx context.Context, id uuid.UUID) (*servicehours.Entry, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	return scanServiceHours(tx.QueryRow(ctx, `
		SELECT `+serviceHoursColumns+` FROM service_hours
		WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (g *PgServiceHoursRepository) Create(ctx context.Context, data *servicehours.Entry) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	data.TenantID = tenantID
	_, err = tx.Exec(ctx, `
		INSERT INTO service_hours (id, tenant_id, cadet_id, activity_date, hours, organization, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		data.ID, data.TenantID, data.CadetID, data.ActivityDate, data.Hours, data.Organization, data.Description, data.Status, data.CreatedAt, data.UpdatedAt)
	return err
}

func (g *PgServiceHoursRepository) Update(ctx context.Context, data *servicehours.Entry) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE service_hours
		SET cadet_id = $3, activity_date = $4, hours = $5, organization = $6, description = $7, status = $8, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, data.ID, data.CadetID, data.ActivityDate, data.Hours, data.Organization, data.Description, data.Status)
	return err
}

func (g *PgServiceHoursRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, "DELETE FROM service_hours WHERE tenant_id = $1 AND id = $2", tenantID, id)
	return err
}

func nullableUUID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}
