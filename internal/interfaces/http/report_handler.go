package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/validade-api/internal/application/usecase"
)

// ReportHandler reportes de criticidad.
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Criticality godoc
// @Summary      Reporte de criticidad (bloqueados y pre-bloqueo)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        unit_id  query  string  false  "ID de la unidad"
// @Param        code     query  string  false  "Código de la unidad"
// @Success      200      {object}  dto.CriticalityReportResponse
// @Failure      403      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/criticality-report [get]
func (h *ReportHandler) Criticality(c *fiber.Ctx) error {
	out, err := h.uc.Criticality(c.UserContext(), callerFrom(c), c.Query("unit_id"), c.Query("code"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// CriticalityPDF godoc
// @Summary      Reporte de criticidad en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        unit_id  query  string  false  "ID de la unidad"
// @Param        code     query  string  false  "Código de la unidad"
// @Success      200      {file}    file
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/criticality-report/pdf [get]
func (h *ReportHandler) CriticalityPDF(c *fiber.Ctx) error {
	body, filename, err := h.uc.CriticalityPDF(c.UserContext(), callerFrom(c), c.Query("unit_id"), c.Query("code"))
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}
