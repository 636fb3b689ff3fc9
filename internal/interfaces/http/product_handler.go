package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
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
// @Summary      Obtener producto con estado de vencimiento
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), callerFrom(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos con estado
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Código o nombre"
// @Param        unit_id   query  string  false  "Unidad"
// @Param        category  query  string  false  "Categoría"
// @Param        limit     query  int     false  "Límite"  default(50)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200       {object}  dto.ProductListResponse
// @Failure      403       {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var f dto.ProductFilter
	if !bindQuery(c, &f) {
		return nil
	}
	out, err := h.uc.List(c.UserContext(), callerFrom(c), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Validity godoc
// @Summary      Consulta de validez por código o nombre
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search   query  string  true   "Código o nombre"
// @Param        unit_id  query  string  false  "Unidad"
// @Success      200      {object}  dto.ProductListResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/products/validity [get]
func (h *ProductHandler) Validity(c *fiber.Ctx) error {
	var f dto.ProductFilter
	if !bindQuery(c, &f) {
		return nil
	}
	if f.Search == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el parámetro search es obligatorio"})
	}
	out, err := h.uc.Validity(c.UserContext(), callerFrom(c), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Lots godoc
// @Summary      Lotes con stock del producto (FEFO)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}   dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/lots [get]
func (h *ProductHandler) Lots(c *fiber.Ctx) error {
	out, err := h.uc.Lots(c.UserContext(), callerFrom(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
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
// @Summary      Eliminar producto y sus lotes
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), callerFrom(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
