package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/application/usecase"
)

// QueryLogHandler auditoría de consultas.
type QueryLogHandler struct {
	uc *usecase.QueryLogUseCase
}

// NewQueryLogHandler construye el handler.
func NewQueryLogHandler(uc *usecase.QueryLogUseCase) *QueryLogHandler {
	return &QueryLogHandler{uc: uc}
}

// List godoc
// @Summary      Listar registros de consulta
// @Description  Un usuario común solo ve sus propias consultas.
// @Tags         query-logs
// @Security     Bearer
// @Produce      json
// @Param        query_type  query  string  false  "VALIDITY, CRITICALITY, STOCK"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {array}  dto.QueryLogResponse
// @Router       /api/query-logs [get]
func (h *QueryLogHandler) List(c *fiber.Ctx) error {
	var f dto.QueryLogFilter
	if !bindQuery(c, &f) {
		return nil
	}
	out, err := h.uc.List(c.UserContext(), callerFrom(c), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
