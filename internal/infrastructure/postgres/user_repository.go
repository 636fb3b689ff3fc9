package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, phone, position, is_superuser, active, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Phone, &u.Position, &u.IsSuperuser, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Position,
		u.IsSuperuser, u.Active, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID con sus unidades.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername obtiene un usuario por username con sus unidades.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	u, err = notFoundAsNil(u, err, "user")
	if err != nil || u == nil {
		return u, err
	}
	if u.Units, err = r.units(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// units carga los vínculos del usuario con unidades activas.
func (r *UserRepo) units(ctx context.Context, userID string) ([]entity.UserUnit, error) {
	rows, err := r.q.Query(ctx, `
		SELECT uu.user_id, uu.unit_id, b.code, b.name, uu.role, uu.linked_at
		FROM user_units uu
		JOIN business_units b ON b.id = uu.unit_id
		WHERE uu.user_id = $1 AND b.active
		ORDER BY b.code`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user units: %w", err)
	}
	defer rows.Close()
	var links []entity.UserUnit
	for rows.Next() {
		var l entity.UserUnit
		if err := rows.Scan(&l.UserID, &l.UnitID, &l.UnitCode, &l.UnitName, &l.Role, &l.LinkedAt); err != nil {
			return nil, fmt.Errorf("scan user unit: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// List lista usuarios paginados (sin cargar unidades).
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// LinkUnit crea o actualiza el vínculo usuario-unidad.
func (r *UserRepo) LinkUnit(ctx context.Context, l entity.UserUnit) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_units (user_id, unit_id, role, linked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, unit_id) DO UPDATE SET role = EXCLUDED.role`,
		l.UserID, l.UnitID, l.Role, l.LinkedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("link user unit: %w", err)
	}
	return nil
}
