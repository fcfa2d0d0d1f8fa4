package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wingtrack/wingtrack/modules/records/domain/entities/pttest"
	"github.com/wingtrack/wingtrack/pkg/composables"
)

var ErrPTTestNotFound = errors.New("pt test not found")

type PgPTTestRepository struct{}

func NewPTTestRepository() pttest.Repository {
	return &PgPTTestRepository{}
}

const ptTestColumns = "id, tenant_id, cadet_id, test_date, pushups, situps, run_seconds, score, created_at, updated_at"

func scanPTTest(row pgx.Row) (*pttest.Result, error) {
	var r pttest.Result
	err := row.Scan(&r.ID, &r.TenantID, &r.CadetID, &r.TestDate, &r.Pushups, &r.Situps, &r.RunSeconds, &r.Score, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPTTestNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (g *PgPTTestRepository) GetPaginated(ctx context.Context, params *pttest.FindParams) ([]*pttest.Result, error) {
	if params == nil {
		params = &pttest.FindParams{}
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
		SELECT `+ptTestColumns+` FROM pt_tests
		WHERE tenant_id = $1 AND ($2::uuid IS NULL OR cadet_id = $2)
		ORDER BY test_date DESC, id
		OFFSET $3 LIMIT $4`, tenantID, nullableUUID(params.CadetID), offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*pttest.Result
	for rows.Next() {
		r, err := scanPTTest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (g *PgPTTestRepository) GetByID(ctx context.Context, id uuid.UUID) (*pttest.Result, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	return scanPTTest(tx.QueryRow(ctx, `
		SELECT `+ptTestColumns+` FROM pt_tests
		WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (g *PgPTTestRepository) Create(ctx context.Context, data *pttest.Result) error {
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
		INSERT INTO pt_tests (id, tenant_id, cadet_id, test_date, pushups, situps, run_seconds, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		data.ID, data.TenantID, data.CadetID, data.TestDate, data.Pushups, data.Situps, data.RunSeconds, data.Score, data.CreatedAt, data.UpdatedAt)
	return err
}

func (g *PgPTTestRepository) Update(ctx context.Context, data *pttest.Result) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE pt_tests
		SET cadet_id = $3, test_date = $4, pushups = $5, situps = $6, run_seconds = $7, score = $8, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, data.ID, data.CadetID, data.TestDate, data.Pushups, data.Situps, data.RunSeconds, data.Score)
	return err
}

func (g *PgPTTestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, "DELETE FROM pt_tests WHERE tenant_id = $1 AND id = $2", tenantID, id)
	return err
}
