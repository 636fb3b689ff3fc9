package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/application/usecase"
)

// UnitHandler unidades de negocio.
type UnitHandler struct {
	uc *usecase.UnitUseCase
}

// NewUnitHandler construye el handler.
func NewUnitHandler(uc *usecase.UnitUseCase) *UnitHandler {
	return &UnitHandler{uc: uc}
}

// Create godoc
// @Summary      Crear unidad
// @Tags         units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUnitRequest  true  "Datos de la unidad"
// @Success      201   {object}  dto.UnitResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/units [post]
func (h *UnitHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUnitRequest
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
// @Summary      Obtener unidad
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la unidad"
// @Success      200  {object}  dto.UnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/units/{id} [get]
func (h *UnitHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), callerFrom(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar unidad
// @Tags         units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la unidad"
// @Param        body  body  dto.UpdateUnitRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.UnitResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/units/{id} [put]
func (h *UnitHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUnitRequest
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
// @Summary      Desactivar unidad
// @Tags         units
// @Security     Bearer
// @Param        id   path  string  true  "ID de la unidad"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/units/{id} [delete]
func (h *UnitHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.UserContext(), callerFrom(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Listar unidades visibles
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Código o nombre"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.UnitResponse
// @Router       /api/units [get]
func (h *UnitHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if !bindQuery(c, &page) {
		return nil
	}
	out, err := h.uc.List(c.UserContext(), callerFrom(c), c.Query("search"), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Unidades resumidas para selectores
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UnitSummaryResponse
// @Router       /api/units/summary [get]
func (h *UnitHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), callerFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
