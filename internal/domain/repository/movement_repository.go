package repository

import (
	"context"
	"time"

	"github.com/jhoicas/validade-api/internal/domain/entity"
)

// MovementFilter filtros de listado de movimientos. UnitIDs nil = todas.
type MovementFilter struct {
	UnitIDs   []string
	ProductID string
	Type      string
	Status    string
	Limit     int
	Offset    int
}

// MovementRepository define el puerto de persistencia para StockMovement (DIP).
type MovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
	UpdateStatus(ctx context.Context, id, status string, effective *time.Time) error
	// SumInboundInTransit suma cantidades IN en tránsito por producto.
	SumInboundInTransit(ctx context.Context, productIDs []string) (map[string]int, error)
}
