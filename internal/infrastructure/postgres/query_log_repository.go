package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

var _ repository.QueryLogRepository = (*QueryLogRepo)(nil)

// QueryLogRepo auditoría de consultas. Solo inserta y lista.
type QueryLogRepo struct {
	q Querier
}

// NewQueryLogRepository construye el adaptador de persistencia para logs de consulta.
func NewQueryLogRepository(q Querier) *QueryLogRepo {
	return &QueryLogRepo{q: q}
}

// Create registra una consulta.
func (r *QueryLogRepo) Create(ctx context.Context, l *entity.QueryLog) error {
	params := l.Params
	if len(params) == 0 {
		params = []byte("{}")
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO query_logs (id, user_id, query_type, params, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.UserID, l.QueryType, string(params), l.IPAddress, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert query log: %w", err)
	}
	return nil
}

// List lista consultas, más recientes primero.
func (r *QueryLogRepo) List(ctx context.Context, f repository.QueryLogFilter) ([]*entity.QueryLog, error) {
	var w filter
	if f.UserID != "" {
		w.add("user_id = ?", f.UserID)
	}
	if f.QueryType != "" {
		w.add("query_type = ?", f.QueryType)
	}
	query := `SELECT id, user_id, query_type, params, ip_address, created_at FROM query_logs` +
		w.where() + ` ORDER BY created_at DESC`
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list query logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.QueryLog
	for rows.Next() {
		var l entity.QueryLog
		var params []byte
		if err := rows.Scan(&l.ID, &l.UserID, &l.QueryType, &params, &l.IPAddress, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan query log: %w", err)
		}
		l.Params = params
		list = append(list, &l)
	}
	return list, rows.Err()
}
