package repository

import (
	"context"

	"github.com/jhoicas/validade-api/internal/domain/entity"
)

// UnitFilter filtros de listado de unidades. IDs nil = sin restricción (superusuario).
type UnitFilter struct {
	IDs    []string
	Search string
	Limit  int
	Offset int
}

// UnitRepository define el puerto de persistencia para BusinessUnit (DIP).
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.BusinessUnit) error
	GetByID(ctx context.Context, id string) (*entity.BusinessUnit, error)
	GetByCode(ctx context.Context, code string) (*entity.BusinessUnit, error)
	Update(ctx context.Context, unit *entity.BusinessUnit) error
	// ListActive lista solo unidades activas.
	ListActive(ctx context.Context, f UnitFilter) ([]*entity.BusinessUnit, error)
}
