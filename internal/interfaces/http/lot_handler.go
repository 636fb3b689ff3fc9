package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/application/usecase"
)

// LotHandler CRUD de lotes.
type LotHandler struct {
	uc *usecase.LotUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *usecase.LotUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

// Create godoc
// @Summary      Crear lote
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "Datos del lote"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
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
// @Summary      Obtener lote
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [get]
func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), callerFrom(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar lotes (FEFO)
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        expired     query  bool    false  "Solo vencidos"
// @Param        with_stock  query  bool    false  "Solo con stock"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {array}  dto.LotResponse
// @Router       /api/lots [get]
func (h *LotHandler) List(c *fiber.Ctx) error {
	var f dto.LotFilter
	if !bindQuery(c, &f) {
		return nil
	}
	out, err := h.uc.List(c.UserContext(), callerFrom(c), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar lote
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del lote"
// @Param        body  body  dto.UpdateLotRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.LotResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [put]
func (h *LotHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLotRequest
	if !bindJSON(c, &in) {
		return nil
	}
	out, err := h.uc.Update(c.UserContext(), callerFrom(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar lote
// @Tags         lots
// @Security     Bearer
// @Param        id   path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [delete]
func (h *LotHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), callerFrom(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
