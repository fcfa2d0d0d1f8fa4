package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wingtrack/wingtrack/modules/core/domain/entities/tenant"
	"github.com/wingtrack/wingtrack/pkg/composables"
)

var ErrTenantNotFound = errors.New("tenant not found")

type PgTenantRepository struct{}

func NewTenantRepository() tenant.Repository {
	return &PgTenantRepository{}
}

func (g *PgTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	row := tx.QueryRow(ctx, `
		SELECT id, name, timezone, created_at, updated_at
		FROM tenants WHERE id = $1`, id)
	var t tenant.Tenant
	if err := row.Scan(&t.ID, &t.Name, &t.Timezone, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (g *PgTenantRepository) GetAll(ctx context.Context) ([]*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
		SELECT id, name, timezone, created_at, updated_at
		FROM tenants ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*tenant.Tenant
	for rows.Next() {
		var t tenant.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Timezone, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (g *PgTenantRepository) Create(ctx context.Context, data *tenant.Tenant) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO tenants (id, name, timezone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		data.ID, data.Name, data.Timezone, data.CreatedAt, data.UpdatedAt)
	return err
}

func (g *PgTenantRepository) Update(ctx context.Context, data *tenant.Tenant) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE tenants SET name = $2, timezone = $3, updated_at = now()
		WHERE id = $1`,
		data.ID, data.Name, data.Timezone)
	return err
}
