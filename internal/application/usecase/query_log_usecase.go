package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/repository"
	"github.com/jhoicas/validade-api/pkg/logger"
)

// QueryLogUseCase auditoría de consultas de lectura.
type QueryLogUseCase struct {
	repo repository.QueryLogRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewQueryLogUseCase construye el caso de uso.
func NewQueryLogUseCase(repo repository.QueryLogRepository, log *logger.Logger) *QueryLogUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &QueryLogUseCase{repo: repo, log: log.Component("audit"), now: time.Now}
}

// Record registra una consulta. Un fallo de auditoría se loguea y no interrumpe la lectura.
func (uc *QueryLogUseCase) Record(ctx context.Context, caller Caller, queryType string, params map[string]any) {
	if params == nil {
		params = map[string]any{}
	}
	raw, err := json.Marshal(params)
	if err != nil {
		raw = []byte("{}")
	}
	entry := &entity.QueryLog{
		ID:        uuid.New().String(),
		QueryType: queryType,
		Params:    raw,
		IPAddress: caller.IP,
		CreatedAt: uc.now(),
	}
	if id := caller.UserID(); id != "" {
		entry.UserID = &id
	}
	if err := uc.repo.Create(ctx, entry); err != nil {
		uc.log.Warn().Err(err).Str("query_type", queryType).Msg("no se pudo registrar la consulta")
	}
}

// List lista registros: el superusuario ve todos, el resto solo los propios.
func (uc *QueryLogUseCase) List(ctx context.Context, caller Caller, in dto.QueryLogFilter) ([]dto.QueryLogResponse, error) {
	in.DefaultPage()
	f := repository.QueryLogFilter{QueryType: in.QueryType, Limit: in.Limit, Offset: in.Offset}
	if !caller.Superuser() {
		f.UserID = caller.UserID()
	}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.QueryLogResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.QueryLogResponse{
			ID:        l.ID,
			UserID:    l.UserID,
			QueryType: l.QueryType,
			Params:    l.Params,
			IPAddress: l.IPAddress,
			CreatedAt: l.CreatedAt,
		})
	}
	return out, nil
}
