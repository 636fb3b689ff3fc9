package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/application/usecase"
)

// StockHandler consulta de stock por producto.
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List godoc
// @Summary      Stock por producto (en stock, en tránsito, total)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Código o nombre"
// @Param        unit_id   query  string  false  "Unidad"
// @Param        category  query  string  false  "Categoría"
// @Param        limit     query  int     false  "Límite"  default(50)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200       {object}  dto.StockListResponse
// @Failure      403       {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var f dto.StockFilter
	if !bindQuery(c, &f) {
		return nil
	}
	out, err := h.uc.List(c.UserContext(), callerFrom(c), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Totales de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Código o nombre"
// @Param        unit_id   query  string  false  "Unidad"
// @Param        category  query  string  false  "Categoría"
// @Success      200       {object}  dto.StockSummaryResponse
// @Router       /api/stock/summary [get]
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	var f dto.StockFilter
	if !bindQuery(c, &f) {
		return nil
	}
	out, err := h.uc.Summary(c.UserContext(), callerFrom(c), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
