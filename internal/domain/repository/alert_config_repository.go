package repository

import (
	"context"

	"github.com/jhoicas/validade-api/internal/domain/entity"
)

// AlertConfigRepository define el puerto de persistencia para AlertConfig (DIP).
type AlertConfigRepository interface {
	Create(ctx context.Context, cfg *entity.AlertConfig) error
	GetByID(ctx context.Context, id string) (*entity.AlertConfig, error)
	// GetByUnit devuelve la configuración activa de la unidad o nil.
	GetByUnit(ctx context.Context, unitID string) (*entity.AlertConfig, error)
	// GetGlobal devuelve la configuración global activa o nil.
	GetGlobal(ctx context.Context) (*entity.AlertConfig, error)
	Update(ctx context.Context, cfg *entity.AlertConfig) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, unitID string) ([]*entity.AlertConfig, error)
}
