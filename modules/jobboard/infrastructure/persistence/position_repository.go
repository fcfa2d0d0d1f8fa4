package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/wingtrack/wingtrack/modules/jobboard/domain/position"
	"github.com/wingtrack/wingtrack/pkg/composables"
)

type PgPositionRepository struct{}

func NewPositionRepository() position.Repository {
	return &PgPositionRepository{}
}

func (g *PgPositionRepository) GetAll(ctx context.Context) ([]*position.Position, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
		SELECT assignment_id, tenant_id, x, y, updated_at
		FROM job_layout_positions WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*position.Position
	for rows.Next() {
		var p position.Position
		if err := rows.Scan(&p.AssignmentID, &p.TenantID, &p.X, &p.Y, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// Upsert is last-write-wins: concurrent editors dragging the same node race
// and the later write sticks.
func (g *PgPositionRepository) Upsert(ctx context.Context, data *position.Position) error {
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
		INSERT INTO job_layout_positions (assignment_id, tenant_id, x, y, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (assignment_id)
		DO UPDATE SET x = EXCLUDED.x, y = EXCLUDED.y, updated_at = now()
		WHERE job_layout_positions.tenant_id = EXCLUDED.tenant_id`,
		data.AssignmentID, data.TenantID, data.X, data.Y)
	return err
}

func (g *PgPositionRepository) Delete(ctx context.Context, assignmentID uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, "DELETE FROM job_layout_positions WHERE tenant_id = $1 AND assignment_id = $2", tenantID, assignmentID)
	return err
}

func (g *PgPositionRepository) DeleteAll(ctx context.Context) (int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM job_layout_positions WHERE tenant_id = $1", tenantID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
