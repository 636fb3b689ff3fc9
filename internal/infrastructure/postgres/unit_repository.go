package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

// UnitRepo implementación del puerto UnitRepository sobre PostgreSQL (usable con pool o tx).
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador de persistencia para unidades de negocio.
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

const unitColumns = `id, code, name, address, active, created_at, updated_at`

// Create persiste una nueva unidad.
func (r *UnitRepo) Create(ctx context.Context, u *entity.BusinessUnit) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO business_units (`+unitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Code, u.Name, u.Address, u.Active, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert business unit: %w", err)
	}
	return nil
}

// GetByID obtiene una unidad por ID (activa o no).
func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.BusinessUnit, error) {
	var u entity.BusinessUnit
	err := r.q.QueryRow(ctx, `SELECT `+unitColumns+` FROM business_units WHERE id = $1`, id).
		Scan(&u.ID, &u.Code, &u.Name, &u.Address, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	return notFoundAsNil(&u, err, "business unit")
}

// GetByCode obtiene una unidad por código.
func (r *UnitRepo) GetByCode(ctx context.Context, code string) (*entity.BusinessUnit, error) {
	var u entity.BusinessUnit
	err := r.q.QueryRow(ctx, `SELECT `+unitColumns+` FROM business_units WHERE code = $1`, code).
		Scan(&u.ID, &u.Code, &u.Name, &u.Address, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	return notFoundAsNil(&u, err, "business unit by code")
}

// Update actualiza datos y estado de la unidad.
func (r *UnitRepo) Update(ctx context.Context, u *entity.BusinessUnit) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE business_units SET code = $2, name = $3, address = $4, active = $5, updated_at = $6
		WHERE id = $1`,
		u.ID, u.Code, u.Name, u.Address, u.Active, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update business unit: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUnitNotFound
	}
	return nil
}

// ListActive lista unidades activas ordenadas por código.
func (r *UnitRepo) ListActive(ctx context.Context, f repository.UnitFilter) ([]*entity.BusinessUnit, error) {
	var w filter
	w.addRaw("active")
	if f.IDs != nil {
		w.add("id = ANY(?)", f.IDs)
	}
	if f.Search != "" {
		w.add("(code ILIKE ? OR name ILIKE ?)", "%"+f.Search+"%")
	}
	query := `SELECT ` + unitColumns + ` FROM business_units` + w.where() + ` ORDER BY code`
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list business units: %w", err)
	}
	defer rows.Close()
	var list []*entity.BusinessUnit
	for rows.Next() {
		var u entity.BusinessUnit
		if err := rows.Scan(&u.ID, &u.Code, &u.Name, &u.Address, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan business unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}
