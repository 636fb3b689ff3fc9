package repository

import (
	"context"

	"github.com/jhoicas/validade-api/internal/domain/entity"
)

// QueryLogFilter UserID vacío = todos los usuarios.
type QueryLogFilter struct {
	UserID    string
	QueryType string
	Limit     int
	Offset    int
}

// QueryLogRepository solo permite crear y listar (append-only).
type QueryLogRepository interface {
	Create(ctx context.Context, log *entity.QueryLog) error
	List(ctx context.Context, f QueryLogFilter) ([]*entity.QueryLog, error)
}
