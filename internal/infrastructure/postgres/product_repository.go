package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `p.id, p.unit_id, p.code, p.name, p.category, p.unit_measure, p.description,
	p.conversion_factor, p.image_url, p.active, p.created_at, p.updated_at`

func productDest(p *entity.Product) []any {
	return []any{&p.ID, &p.UnitID, &p.Code, &p.Name, &p.Category, &p.UnitMeasure, &p.Description,
		&p.ConversionFactor, &p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, unit_id, code, name, category, unit_measure, description,
			conversion_factor, image_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.UnitID, p.Code, p.Name, p.Category, p.UnitMeasure, p.Description,
		p.ConversionFactor, p.ImageURL, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUnitNotFound
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID con su unidad.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `p.id = $1`, "product", id)
}

// GetByUnitAndCode obtiene un producto por unidad y código (activo o no).
func (r *ProductRepo) GetByUnitAndCode(ctx context.Context, unitID, code string) (*entity.Product, error) {
	return r.getOne(ctx, `p.unit_id = $1 AND p.code = $2`, "product by code", unitID, code)
}

func (r *ProductRepo) getOne(ctx context.Context, cond, what string, args ...any) (*entity.Product, error) {
	var p entity.Product
	var u entity.BusinessUnit
	dest := append(productDest(&p), &u.ID, &u.Code, &u.Name, &u.Address, &u.Active)
	err := r.q.QueryRow(ctx, `
		SELECT `+productColumns+`, b.id, b.code, b.name, b.address, b.active
		FROM products p JOIN business_units b ON b.id = p.unit_id
		WHERE `+cond, args...).Scan(dest...)
	if err == nil {
		p.Unit = &u
	}
	return notFoundAsNil(&p, err, what)
}

// Update actualiza los datos editables del producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET unit_id = $2, code = $3, name = $4, category = $5, unit_measure = $6,
			description = $7, conversion_factor = $8, image_url = $9, active = $10, updated_at = $11
		WHERE id = $1`,
		p.ID, p.UnitID, p.Code, p.Name, p.Category, p.UnitMeasure, p.Description,
		p.ConversionFactor, p.ImageURL, p.Active, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto por ID; sus lotes se eliminan en cascada.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos activos con su unidad, ordenados por código.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var w filter
	w.addRaw("p.active")
	if f.UnitIDs != nil {
		w.add("p.unit_id = ANY(?)", f.UnitIDs)
	}
	if f.UnitID != "" {
		w.add("p.unit_id = ?", f.UnitID)
	}
	if f.Search != "" {
		w.add("(p.code ILIKE ? OR p.name ILIKE ?)", "%"+f.Search+"%")
	}
	if f.Category != "" {
		w.add("p.category ILIKE ?", "%"+f.Category+"%")
	}
	query := `
		SELECT ` + productColumns + `, b.id, b.code, b.name, b.address, b.active
		FROM products p JOIN business_units b ON b.id = p.unit_id` + w.where() + ` ORDER BY p.code, b.code`
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		var u entity.BusinessUnit
		if err := rows.Scan(append(productDest(&p), &u.ID, &u.Code, &u.Name, &u.Address, &u.Active)...); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Unit = &u
		list = append(list, &p)
	}
	return list, rows.Err()
}
