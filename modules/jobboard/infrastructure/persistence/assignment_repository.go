package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wingtrack/wingtrack/modules/jobboard/domain/assignment"
	"github.com/wingtrack/wingtrack/pkg/composables"
)

var ErrAssignmentNotFound = errors.New("assignment not found")

type PgAssignmentRepository struct{}

func NewAssignmentRepository() assignment.Repository {
	return &PgAssignmentRepository{}
}

const assignmentColumns = "id, tenant_id, role_name, cadet_id, reports_to, assistant, connections, created_at, updated_at"

func scanAssignment(row pgx.Row) (*assignment.Assignment, error) {
	var a assignment.Assignment
	var connections []byte
	err := row.Scan(&a.ID, &a.TenantID, &a.RoleName, &a.CadetID, &a.ReportsTo, &a.Assistant, &connections, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if len(connections) > 0 {
		if err := json.Unmarshal(connections, &a.Connections); err != nil {
			return nil, err
		}
	}
	return &a, nil
}

func (g *PgAssignmentRepository) GetAll(ctx context.Context) ([]*assignment.Assignment, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
		SELECT `+assignmentColumns+` FROM job_assignments
		WHERE tenant_id = $1 ORDER BY role_name, id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*assignment.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (g *PgAssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*assignment.Assignment, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	return scanAssignment(tx.QueryRow(ctx, `
		SELECT `+assignmentColumns+` FROM job_assignments
		WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (g *PgAssignmentRepository) Create(ctx context.Context, data *assignment.Assignment) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	connections, err := marshalConnections(data.Connections)
	if err != nil {
		return err
	}
	data.TenantID = tenantID
	_, err = tx.Exec(ctx, `
		INSERT INTO job_assignments (id, tenant_id, role_name, cadet_id, reports_to, assistant, connections, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		data.ID, data.TenantID, data.RoleName, data.CadetID, data.ReportsTo, data.Assistant, connections, data.CreatedAt, data.UpdatedAt)
	return err
}

func (g *PgAssignmentRepository) Update(ctx context.Context, data *assignment.Assignment) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	connections, err := marshalConnections(data.Connections)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE job_assignments
		SET role_name = $3, cadet_id = $4, reports_to = $5, assistant = $6, connections = $7, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, data.ID, data.RoleName, data.CadetID, data.ReportsTo, data.Assistant, connections)
	return err
}

func (g *PgAssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, "DELETE FROM job_assignments WHERE tenant_id = $1 AND id = $2", tenantID, id)
	return err
}

func marshalConnections(connections []assignment.Connection) ([]byte, error) {
	if connections == nil {
		connections = []assignment.Connection{}
	}
	return json.Marshal(connections)
}
