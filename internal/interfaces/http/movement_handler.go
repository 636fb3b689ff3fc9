package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/application/usecase"
)

// MovementHandler movimientos de stock.
type MovementHandler struct {
	uc *usecase.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *usecase.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar movimiento
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if !bindJSON(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.UserContext(), callerFrom(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), callerFrom(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        type        query  string  false  "IN, OUT, TRANSFER, ADJUSTMENT"
// @Param        status      query  string  false  "IN_TRANSIT, RECEIVED, CANCELLED"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {array}  dto.MovementResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var f dto.MovementFilter
	if !bindQuery(c, &f) {
		return nil
	}
	out, err := h.uc.List(c.UserContext(), callerFrom(c), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de un movimiento en tránsito
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID"
// @Param        body  body  dto.UpdateMovementStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/status [patch]
func (h *MovementHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateMovementStatusRequest
	if !bindJSON(c, &in) {
		return nil
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), callerFrom(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
