package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de persistencia para movimientos de stock.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementSelect = `
	SELECT m.id, m.product_id, m.lot_id, m.type, m.status, m.quantity, m.origin_unit_id, m.destination_unit_id,
		m.expected_date, m.effective_date, m.notes, m.user_id, m.active, m.created_at, m.updated_at,
		p.code, p.name, COALESCE(l.lot_number, '')
	FROM stock_movements m
	JOIN products p ON p.id = m.product_id
	LEFT JOIN lots l ON l.id = m.lot_id`

func movementDest(m *entity.StockMovement) []any {
	return []any{&m.ID, &m.ProductID, &m.LotID, &m.Type, &m.Status, &m.Quantity, &m.OriginUnitID, &m.DestinationUnitID,
		&m.ExpectedDate, &m.EffectiveDate, &m.Notes, &m.UserID, &m.Active, &m.CreatedAt, &m.UpdatedAt,
		&m.ProductCode, &m.ProductName, &m.LotNumber}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, product_id, lot_id, type, status, quantity, origin_unit_id,
			destination_unit_id, expected_date, effective_date, notes, user_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		m.ID, m.ProductID, m.LotID, m.Type, m.Status, m.Quantity, m.OriginUnitID,
		m.DestinationUnitID, m.ExpectedDate, m.EffectiveDate, m.Notes, m.UserID, m.Active, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto, lote o unidad inexistente", domain.ErrInvalidInput)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: tipo, estado o cantidad inválidos", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento con datos del producto y lote.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := r.q.QueryRow(ctx, movementSelect+` WHERE m.id = $1`, id).Scan(movementDest(&m)...)
	return notFoundAsNil(&m, err, "stock movement")
}

// List lista movimientos activos, más recientes primero.
// Con UnitIDs se incluyen los movimientos cuyo origen, destino o producto pertenezcan a esas unidades.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var w filter
	w.addRaw("m.active")
	if f.UnitIDs != nil {
		w.add("(p.unit_id = ANY(?) OR m.origin_unit_id = ANY(?) OR m.destination_unit_id = ANY(?))", f.UnitIDs)
	}
	if f.ProductID != "" {
		w.add("m.product_id = ?", f.ProductID)
	}
	if f.Type != "" {
		w.add("m.type = ?", f.Type)
	}
	if f.Status != "" {
		w.add("m.status = ?", f.Status)
	}
	query := movementSelect + w.where() + ` ORDER BY m.created_at DESC`
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(movementDest(&m)...); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado y la fecha efectiva.
func (r *MovementRepo) UpdateStatus(ctx context.Context, id, status string, effective *time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock_movements SET status = $2, effective_date = COALESCE($3::date, effective_date), updated_at = now()
		WHERE id = $1`, id, status, effective)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: estado inválido", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update stock movement status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SumInboundInTransit suma por producto las entradas aún en tránsito.
func (r *MovementRepo) SumInboundInTransit(ctx context.Context, productIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT product_id, COALESCE(SUM(quantity), 0)
		FROM stock_movements
		WHERE product_id = ANY($1) AND type = 'IN' AND status = 'IN_TRANSIT' AND active
		GROUP BY product_id`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("sum in transit: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var total int64
		if err := rows.Scan(&id, &total); err != nil {
			return nil, fmt.Errorf("scan in transit: %w", err)
		}
		out[id] = int(total)
	}
	return out, rows.Err()
}
