package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wingtrack/wingtrack/modules/core/domain/entities/cadet"
	"github.com/wingtrack/wingtrack/pkg/composables"
)

var ErrCadetNotFound = errors.New("cadet not found")

type PgCadetRepository struct{}

func NewCadetRepository() cadet.Repository {
	return &PgCadetRepository{}
}

const cadetColumns = "id, tenant_id, first_name, last_name, rank, flight, created_at, updated_at"

func scanCadet(row pgx.Row) (*cadet.Cadet, error) {
	var c cadet.Cadet
	err := row.Scan(&c.ID, &c.TenantID, &c.FirstName, &c.LastName, &c.Rank, &c.Flight, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCadetNotFound
		}
		return nil, err
	}
	return &c, nil
}

func collectCadets(rows pgx.Rows) ([]*cadet.Cadet, error) {
	defer rows.Close()
	var out []*cadet.Cadet
	for rows.Next() {
		c, err := scanCadet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (g *PgCadetRepository) Count(ctx context.Context) (int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	err = tx.QueryRow(ctx, "SELECT COUNT(*) FROM cadets WHERE tenant_id = $1", tenantID).Scan(&count)
	return count, err
}

func (g *PgCadetRepository) GetAll(ctx context.Context) ([]*cadet.Cadet, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
		SELECT `+cadetColumns+` FROM cadets
		WHERE tenant_id = $1 ORDER BY last_name, first_name`, tenantID)
	if err != nil {
		return nil, err
	}
	return collectCadets(rows)
}

func (g *PgCadetRepository) GetPaginated(ctx context.Context, params *cadet.FindParams) ([]*cadet.Cadet, error) {
	if params == nil {
		params = &cadet.FindParams{}
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
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	if params.Flight != "" {
		rows, err := tx.Query(ctx, `
			SELECT `+cadetColumns+` FROM cadets
			WHERE tenant_id = $1 AND flight = $2
			ORDER BY last_name, first_name
			OFFSET $3 LIMIT $4`, tenantID, params.Flight, offset, limit)
		if err != nil {
			return nil, err
		}
		return collectCadets(rows)
	}

	rows, err := tx.Query(ctx, `
		SELECT `+cadetColumns+` FROM cadets
		WHERE tenant_id = $1
		ORDER BY last_name, first_name
		OFFSET $2 LIMIT $3`, tenantID, offset, limit)
	if err != nil {
		return nil, err
	}
	return collectCadets(rows)
}

func (g *PgCadetRepository) GetByID(ctx context.Context, id uuid.UUID) (*cadet.Cadet, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	return scanCadet(tx.QueryRow(ctx, `
		SELECT `+cadetColumns+` FROM cadets
		WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (g *PgCadetRepository) Create(ctx context.Context, data *cadet.Cadet) error {
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
		INSERT INTO cadets (id, tenant_id, first_name, last_name, rank, flight, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		data.ID, data.TenantID, data.FirstName, data.LastName, data.Rank, data.Flight, data.CreatedAt, data.UpdatedAt)
	return err
}

func (g *PgCadetRepository) Update(ctx context.Context, data *cadet.Cadet) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE cadets
		SET first_name = $3, last_name = $4, rank = $5, flight = $6, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, data.ID, data.FirstName, data.LastName, data.Rank, data.Flight)
	return err
}

func (g *PgCadetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, "DELETE FROM cadets WHERE tenant_id = $1 AND id = $2", tenantID, id)
	return err
}
