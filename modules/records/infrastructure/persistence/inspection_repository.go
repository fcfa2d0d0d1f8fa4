package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wingtrack/wingtrack/modules/records/domain/entities/inspection"
	"github.com/wingtrack/wingtrack/pkg/composables"
)

var ErrInspectionNotFound = errors.New("uniform inspection not found")

type PgInspectionRepository struct{}

func NewInspectionRepository() inspection.Repository {
	return &PgInspectionRepository{}
}

const inspectionColumns = "id, tenant_id, cadet_id, inspection_date, score, notes, created_at, updated_at"

func scanInspection(row pgx.Row) (*inspection.Inspection, error) {
	var i inspection.Inspection
	err := row.Scan(&i.ID, &i.TenantID, &i.CadetID, &i.InspectionDate, &i.Score, &i.Notes, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInspectionNotFound
		}
		return nil, err
	}
	return &i, nil
}

func (g *PgInspectionRepository) GetPaginated(ctx context.Context, params *inspection.FindParams) ([]*inspection.Inspection, error) {
	if params == nil {
		params = &inspection.FindParams{}
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
		SELECT `+inspectionColumns+` FROM uniform_inspections
		WHERE tenant_id = $1 AND ($2::uuid IS NULL OR cadet_id = $2)
		ORDER BY inspection_date DESC, id
		OFFSET $3 LIMIT $4`, tenantID, nullableUUID(params.CadetID), offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*inspection.Inspection
	for rows.Next() {
		i, err := scanInspection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (g *PgInspectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*inspection.Inspection, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	return scanInspection(tx.QueryRow(ctx, `
		SELECT `+inspectionColumns+` FROM uniform_inspections
		WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (g *PgInspectionRepository) Create(ctx context.Context, data *inspection.Inspection) error {
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
		INSERT INTO uniform_inspections (id, tenant_id, cadet_id, inspection_date, score, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		data.ID, data.TenantID, data.CadetID, data.InspectionDate, data.Score, data.Notes, data.CreatedAt, data.UpdatedAt)
	return err
}

func (g *PgInspectionRepository) Update(ctx context.Context, data *inspection.Inspection) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE uniform_inspections
		SET cadet_id = $3, inspection_date = $4, score = $5, notes = $6, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, data.ID, data.CadetID, data.InspectionDate, data.Score, data.Notes)
	return err
}

func (g *PgInspectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, "DELETE FROM uniform_inspections WHERE tenant_id = $1 AND id = $2", tenantID, id)
	return err
}
