package repository

import (
	"context"

	"github.com/jhoicas/validade-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las lecturas cargan User.Units con los vínculos a unidades activas.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	LinkUnit(ctx context.Context, link entity.UserUnit) error
}
