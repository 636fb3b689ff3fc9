package repository

import (
	"context"
	"time"

	"github.com/jhoicas/validade-api/internal/domain/entity"
)

// LotFilter filtros de listado de lotes.
type LotFilter struct {
	UnitIDs       []string
	ProductID     string
	ExpiredBefore *time.Time
	WithStock     bool
	Limit         int
	Offset        int
}

// LotRepository define el puerto de persistencia para Lot (DIP).
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	GetByProductAndNumber(ctx context.Context, productID, lotNumber string) (*entity.Lot, error)
	// GetByProductAndExpiration busca por fecha exacta; expiration nil busca el lote sin fecha.
	GetByProductAndExpiration(ctx context.Context, productID string, expiration *time.Time) (*entity.Lot, error)
	Update(ctx context.Context, lot *entity.Lot) error
	Delete(ctx context.Context, id string) error
	DeleteByProduct(ctx context.Context, productID string) error
	// ListActiveByProducts devuelve lotes activos en orden FEFO (vencimiento ascendente, sin fecha al final).
	ListActiveByProducts(ctx context.Context, productIDs []string) ([]*entity.Lot, error)
	List(ctx context.Context, f LotFilter) ([]*entity.Lot, error)
}
