package http

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/application/importer"
	"github.com/jhoicas/validade-api/internal/domain"
)

var importExtensions = map[string]bool{".csv": true, ".xlsx": true, ".xlsm": true, ".xls": true}

// ImportHandler carga de planillas por unidad.
type ImportHandler struct {
	svc *importer.Service
}

// NewImportHandler construye el handler.
func NewImportHandler(svc *importer.Service) *ImportHandler {
	return &ImportHandler{svc: svc}
}

// DailyStock godoc
// @Summary      Importar estoque total diario (Grade 020502)
// @Tags         imports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true   "Planilla CSV o Excel"
// @Param        unit_id    formData  string  true   "Unidad"
// @Param        separator  formData  string  false  "Separador CSV"
// @Param        encoding   formData  string  false  "Encoding CSV"
// @Param        sheet      formData  string  false  "Hoja Excel"
// @Param        dry_run    formData  bool    false  "Simular sin persistir"
// @Success      200        {object}  importer.Result
// @Failure      400        {object}  importer.Result
// @Failure      403        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/imports/daily-stock [post]
func (h *ImportHandler) DailyStock(c *fiber.Ctx) error {
	return h.handle(c, importer.KindDailyStock)
}

// Counts godoc
// @Summary      Importar conteo de validades (Contagens)
// @Tags         imports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true   "Planilla CSV o Excel"
// @Param        unit_id    formData  string  true   "Unidad"
// @Param        separator  formData  string  false  "Separador CSV"
// @Param        encoding   formData  string  false  "Encoding CSV"
// @Param        sheet      formData  string  false  "Hoja Excel"
// @Param        dry_run    formData  bool    false  "Simular sin persistir"
// @Success      200        {object}  importer.Result
// @Failure      400        {object}  importer.Result
// @Failure      403        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/imports/counts [post]
func (h *ImportHandler) Counts(c *fiber.Ctx) error {
	return h.handle(c, importer.KindCounts)
}

func (h *ImportHandler) handle(c *fiber.Ctx, kind importer.Kind) error {
	unitID := strings.TrimSpace(c.FormValue("unit_id"))
	if unitID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "unit_id es obligatorio"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo requerido en el campo file"})
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !importExtensions[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "extensión no soportada: use .csv, .xlsx, .xlsm o .xls"})
	}

	caller := callerFrom(c)
	if err := caller.RequireUnit(unitID); err != nil {
		return fail(c, err)
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()

	opts := importer.Options{
		Separator: c.FormValue("separator"),
		Encoding:  c.FormValue("encoding"),
		Sheet:     c.FormValue("sheet"),
		DryRun:    formBool(c.FormValue("dry_run")),
	}
	res, err := h.svc.Import(c.UserContext(), kind, unitID, importer.Source{Filename: fh.Filename, Body: f}, opts)
	if err != nil {
		if errors.Is(err, domain.ErrUnitNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "unidad no encontrada"})
		}
		return fail(c, err)
	}
	if !res.Success {
		return c.Status(fiber.StatusBadRequest).JSON(res)
	}
	return c.JSON(res)
}

func formBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "si", "sim":
		return true
	}
	return false
}
