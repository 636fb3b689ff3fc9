package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

var _ repository.AlertConfigRepository = (*AlertConfigRepo)(nil)

// AlertConfigRepo implementación del puerto AlertConfigRepository sobre PostgreSQL.
type AlertConfigRepo struct {
	q Querier
}

// NewAlertConfigRepository construye el adaptador de persistencia para configuraciones de alerta.
func NewAlertConfigRepository(q Querier) *AlertConfigRepo {
	return &AlertConfigRepo{q: q}
}

const alertConfigColumns = `id, unit_id, critical_days, pre_block_days, active, created_at, updated_at`

func alertConfigDest(c *entity.AlertConfig) []any {
	return []any{&c.ID, &c.UnitID, &c.CriticalDays, &c.PreBlockDays, &c.Active, &c.CreatedAt, &c.UpdatedAt}
}

func mapAlertConfigErr(err error, op string) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isCheckViolation(err):
		return domain.ErrInvalidThresholds
	case isForeignKeyViolation(err):
		return domain.ErrUnitNotFound
	}
	return fmt.Errorf("%s alert config: %w", op, err)
}

// Create persiste una configuración.
func (r *AlertConfigRepo) Create(ctx context.Context, c *entity.AlertConfig) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO alert_configs (`+alertConfigColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.UnitID, c.CriticalDays, c.PreBlockDays, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return mapAlertConfigErr(err, "insert")
	}
	return nil
}

func (r *AlertConfigRepo) getOne(ctx context.Context, cond, what string, args ...any) (*entity.AlertConfig, error) {
	var c entity.AlertConfig
	err := r.q.QueryRow(ctx, `SELECT `+alertConfigColumns+` FROM alert_configs WHERE `+cond, args...).Scan(alertConfigDest(&c)...)
	return notFoundAsNil(&c, err, what)
}

// GetByID obtiene una configuración por ID.
func (r *AlertConfigRepo) GetByID(ctx context.Context, id string) (*entity.AlertConfig, error) {
	return r.getOne(ctx, `id = $1`, "alert config", id)
}

// GetByUnit obtiene la configuración activa de la unidad.
func (r *AlertConfigRepo) GetByUnit(ctx context.Context, unitID string) (*entity.AlertConfig, error) {
	return r.getOne(ctx, `unit_id = $1 AND active`, "alert config by unit", unitID)
}

// GetGlobal obtiene la configuración global activa.
func (r *AlertConfigRepo) GetGlobal(ctx context.Context) (*entity.AlertConfig, error) {
	return r.getOne(ctx, `unit_id IS NULL AND active ORDER BY created_at LIMIT 1`, "global alert config")
}

// Update actualiza umbrales y estado.
func (r *AlertConfigRepo) Update(ctx context.Context, c *entity.AlertConfig) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE alert_configs SET unit_id = $2, critical_days = $3, pre_block_days = $4, active = $5, updated_at = $6
		WHERE id = $1`,
		c.ID, c.UnitID, c.CriticalDays, c.PreBlockDays, c.Active, c.UpdatedAt,
	)
	if err != nil {
		return mapAlertConfigErr(err, "update")
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una configuración.
func (r *AlertConfigRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM alert_configs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete alert config: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista configuraciones; unitID vacío devuelve todas (global primero).
func (r *AlertConfigRepo) List(ctx context.Context, unitID string) ([]*entity.AlertConfig, error) {
	var w filter
	if unitID != "" {
		w.add("unit_id = ?", unitID)
	}
	rows, err := r.q.Query(ctx, `SELECT `+alertConfigColumns+` FROM alert_configs`+w.where()+
		` ORDER BY unit_id NULLS FIRST, created_at`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list alert configs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AlertConfig
	for rows.Next() {
		var c entity.AlertConfig
		if err := rows.Scan(alertConfigDest(&c)...); err != nil {
			return nil, fmt.Errorf("scan alert config: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
