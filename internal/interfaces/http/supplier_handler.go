package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/usecase"
)

const (
	msgSupplierCreated = "Proveedor añadido con éxito"
	msgSupplierUpdated = "Proveedor actualizado con éxito"
	msgSupplierDeleted = "Proveedor eliminado con éxito"
)

// SupplierHandler maneja la gestión de proveedores (solo administradores).
type SupplierHandler struct {
	uc *usecase.SupplierUseCase
}

// NewSupplierHandler construye el handler.
func NewSupplierHandler(uc *usecase.SupplierUseCase) *SupplierHandler {
	return &SupplierHandler{uc: uc}
}

// List godoc
// @Summary      Listar proveedores
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        page    query  int     false  "Página"  default(1)
// @Param        search  query  string  false  "Texto en razón social, contacto o CIF"
// @Success      200  {object}  dto.SupplierListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /suppliers [get]
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), dto.SupplierListQuery{Page: pageParam(c), Search: c.Query("search")})
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de proveedor con sus productos activos
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.SupplierResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /suppliers/{id} [get]
func (h *SupplierHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// NewForm formulario vacío de alta.
func (h *SupplierHandler) NewForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"supplier": dto.SupplierFormRequest{}})
}

// Create godoc
// @Summary      Alta de proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplierFormRequest  true  "Datos del proveedor"
// @Success      201   {object}  dto.SupplierResponse
// @Failure      400   {object}  dto.FormErrorResponse
// @Router       /suppliers/add [post]
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var in dto.SupplierFormRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	RequestLogger(c).Info().Str("supplier_id", out.ID).Msg("proveedor creado")
	if isAJAX(c) {
		return c.JSON(dto.MessageResponse{Success: true, Message: msgSupplierCreated, Redirect: "/suppliers"})
	}
	return formDone(c, fiber.StatusCreated, "/suppliers", out)
}

// EditForm devuelve el proveedor a editar.
func (h *SupplierHandler) EditForm(c *fiber.Ctx) error {
	return h.Get(c)
}

// Update godoc
// @Summary      Editar proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del proveedor"
// @Param        body  body  dto.SupplierFormRequest  true  "Datos del proveedor"
// @Success      200   {object}  dto.SupplierResponse
// @Failure      400   {object}  dto.FormErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /suppliers/{id}/edit [post]
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	var in dto.SupplierFormRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	if isAJAX(c) {
		return c.JSON(dto.MessageResponse{Success: true, Message: msgSupplierUpdated})
	}
	return formDone(c, fiber.StatusOK, "/suppliers", out)
}

// Delete godoc
// @Summary      Baja lógica de proveedor
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /suppliers/{id}/delete [post]
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	RequestLogger(c).Info().Str("supplier_id", c.Params("id")).Msg("proveedor eliminado")
	return formDone(c, fiber.StatusOK, "/suppliers", dto.MessageResponse{Success: true, Message: msgSupplierDeleted})
}
