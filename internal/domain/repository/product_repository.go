package repository

import (
	"context"

	"github.com/jhoicas/validade-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos. UnitIDs nil = todas las unidades.
type ProductFilter struct {
	UnitIDs  []string
	UnitID   string
	Search   string // código o nombre (ILIKE)
	Category string
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByUnitAndCode(ctx context.Context, unitID, code string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// Delete elimina el producto; sus lotes caen en cascada.
	Delete(ctx context.Context, id string) error
	// List devuelve solo productos activos con la unidad cargada.
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
}
