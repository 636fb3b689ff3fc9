package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/application/usecase"
)

// AlertConfigHandler umbrales de alerta globales y por unidad.
type AlertConfigHandler struct {
	uc *usecase.AlertConfigUseCase
}

// NewAlertConfigHandler construye el handler.
func NewAlertConfigHandler(uc *usecase.AlertConfigUseCase) *AlertConfigHandler {
	return &AlertConfigHandler{uc: uc}
}

// Create godoc
// @Summary      Crear configuración de alertas
// @Description  Sin unit_id la configuración es global y solo la crea un superusuario.
// @Tags         alert-configs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AlertConfigRequest  true  "Umbrales"
// @Success      201   {object}  dto.AlertConfigResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/alert-configs [post]
func (h *AlertConfigHandler) Create(c *fiber.Ctx) error {
	var in dto.AlertConfigRequest
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
// @Summary      Obtener configuración de alertas
// @Tags         alert-configs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.AlertConfigResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alert-configs/{id} [get]
func (h *AlertConfigHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), callerFrom(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar configuraciones de alertas
// @Tags         alert-configs
// @Security     Bearer
// @Produce      json
// @Param        unit_id  query  string  false  "Unidad"
// @Success      200      {array}   dto.AlertConfigResponse
// @Failure      403      {object}  dto.ErrorResponse
// @Router       /api/alert-configs [get]
func (h *AlertConfigHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), callerFrom(c), c.Query("unit_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar configuración de alertas
// @Tags         alert-configs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID"
// @Param        body  body  dto.AlertConfigRequest  true  "Umbrales"
// @Success      200   {object}  dto.AlertConfigResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/alert-configs/{id} [put]
func (h *AlertConfigHandler) Update(c *fiber.Ctx) error {
	var in dto.AlertConfigRequest
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
// @Summary      Eliminar configuración de alertas
// @Tags         alert-configs
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alert-configs/{id} [delete]
func (h *AlertConfigHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), callerFrom(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
