package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación del puerto LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de persistencia para lotes.
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `l.id, l.product_id, l.lot_number, l.expiration_date, l.manufacture_date, l.quantity,
	l.stock_display, l.location, l.unit_cost, l.supplier, l.active, l.created_at, l.updated_at`

func lotDest(l *entity.Lot) []any {
	return []any{&l.ID, &l.ProductID, &l.LotNumber, &l.ExpirationDate, &l.ManufactureDate, &l.Quantity,
		&l.StockDisplay, &l.Location, &l.UnitCost, &l.Supplier, &l.Active, &l.CreatedAt, &l.UpdatedAt}
}

// Create persiste un nuevo lote.
func (r *LotRepo) Create(ctx context.Context, l *entity.Lot) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO lots (id, product_id, lot_number, expiration_date, manufacture_date, quantity,
			stock_display, location, unit_cost, supplier, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		l.ID, l.ProductID, l.LotNumber, l.ExpirationDate, l.ManufactureDate, l.Quantity,
		l.StockDisplay, l.Location, l.UnitCost, l.Supplier, l.Active, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

func (r *LotRepo) getOne(ctx context.Context, cond, what string, args ...any) (*entity.Lot, error) {
	var l entity.Lot
	err := r.q.QueryRow(ctx, `SELECT `+lotColumns+` FROM lots l WHERE `+cond+` LIMIT 1`, args...).Scan(lotDest(&l)...)
	return notFoundAsNil(&l, err, what)
}

// GetByID obtiene un lote por ID.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	return r.getOne(ctx, `l.id = $1`, "lot", id)
}

// GetByProductAndNumber obtiene un lote por producto y número.
func (r *LotRepo) GetByProductAndNumber(ctx context.Context, productID, lotNumber string) (*entity.Lot, error) {
	return r.getOne(ctx, `l.product_id = $1 AND l.lot_number = $2`, "lot by number", productID, lotNumber)
}

// GetByProductAndExpiration obtiene el lote del producto con esa fecha (nil = sin fecha).
func (r *LotRepo) GetByProductAndExpiration(ctx context.Context, productID string, expiration *time.Time) (*entity.Lot, error) {
	return r.getOne(ctx, `l.product_id = $1 AND l.expiration_date IS NOT DISTINCT FROM $2::date ORDER BY l.created_at`,
		"lot by expiration", productID, expiration)
}

// Update sobrescribe los datos del lote.
func (r *LotRepo) Update(ctx context.Context, l *entity.Lot) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE lots SET lot_number = $2, expiration_date = $3, manufacture_date = $4, quantity = $5,
			stock_display = $6, location = $7, unit_cost = $8, supplier = $9, active = $10, updated_at = $11
		WHERE id = $1`,
		l.ID, l.LotNumber, l.ExpirationDate, l.ManufactureDate, l.Quantity,
		l.StockDisplay, l.Location, l.UnitCost, l.Supplier, l.Active, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update lot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un lote.
func (r *LotRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM lots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByProduct elimina todos los lotes del producto.
func (r *LotRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM lots WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete lots by product: %w", err)
	}
	return nil
}

// ListActiveByProducts lotes activos de los productos en orden FEFO.
func (r *LotRepo) ListActiveByProducts(ctx context.Context, productIDs []string) ([]*entity.Lot, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	return r.query(ctx, `SELECT `+lotColumns+` FROM lots l
		WHERE l.product_id = ANY($1) AND l.active
		ORDER BY l.expiration_date ASC NULLS LAST, l.lot_number`, productIDs)
}

// List lista lotes activos con filtros, en orden FEFO.
func (r *LotRepo) List(ctx context.Context, f repository.LotFilter) ([]*entity.Lot, error) {
	var w filter
	w.addRaw("l.active")
	if f.UnitIDs != nil {
		w.add("p.unit_id = ANY(?)", f.UnitIDs)
	}
	if f.ProductID != "" {
		w.add("l.product_id = ?", f.ProductID)
	}
	if f.ExpiredBefore != nil {
		w.add("l.expiration_date < ?::date", *f.ExpiredBefore)
	}
	if f.WithStock {
		w.addRaw("l.quantity > 0")
	}
	query := `SELECT ` + lotColumns + ` FROM lots l JOIN products p ON p.id = l.product_id` +
		w.where() + ` ORDER BY l.expiration_date ASC NULLS LAST, l.lot_number`
	query += w.page(f.Limit, f.Offset)
	return r.query(ctx, query, w.args...)
}

func (r *LotRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Lot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		var l entity.Lot
		if err := rows.Scan(lotDest(&l)...); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
