package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/usecase"
)

// Mensajes de las operaciones sobre productos.
const (
	msgProductCreated = "Producto añadido con éxito"
	msgProductUpdated = "Producto actualizado con éxito"
	msgProductDeleted = "Producto eliminado con éxito"
)

// ProductHandler maneja catálogo, formularios de producto y consultas de stock.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary      Catálogo de productos
// @Description  Paginado; una página mayor que la última devuelve la última. Stock solo para administradores.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        page       query  int     false  "Página"  default(1)
// @Param        search     query  string  false  "Texto en nombre, descripción o referencia"
// @Param        category   query  string  false  "ID de categoría"
// @Param        low_stock  query  string  false  "on para solo stock bajo"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := dto.ProductListQuery{
		Page:     pageParam(c),
		Search:   c.Query("search"),
		Category: c.Query("category"),
		LowStock: queryFlag(c, "low_stock"),
	}
	out, err := h.uc.List(c.UserContext(), q, IsAdmin(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"), IsAdmin(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Info godoc
// @Summary      Precio y proveedores de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductInfoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/product_info/{id} [get]
func (h *ProductHandler) Info(c *fiber.Ctx) error {
	out, err := h.uc.Info(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// NewForm devuelve las opciones del formulario de alta (categorías y proveedores).
func (h *ProductHandler) NewForm(c *fiber.Ctx) error {
	opts, err := h.uc.FormOptions(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(opts)
}

// Create godoc
// @Summary      Alta de producto
// @Description  supplier="new" crea el proveedor en línea con los campos new_supplier.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductFormRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.FormErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /products/add [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductFormRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	RequestLogger(c).Info().Str("product_id", out.ID).Msg("producto creado")
	if isAJAX(c) {
		return c.JSON(dto.MessageResponse{Success: true, Message: msgProductCreated, Redirect: "/products"})
	}
	return formDone(c, fiber.StatusCreated, "/products", out)
}

// EditForm devuelve el producto a editar junto con las opciones del formulario.
func (h *ProductHandler) EditForm(c *fiber.Ctx) error {
	ctx := c.UserContext()
	product, err := h.uc.Get(ctx, c.Params("id"), true)
	if err != nil {
		return handleError(c, err)
	}
	opts, err := h.uc.FormOptions(ctx)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"product": product, "options": opts})
}

// Update godoc
// @Summary      Editar producto
// @Description  Si se elige proveedor, reemplaza el conjunto de proveedores del producto.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.ProductFormRequest  true  "Datos del producto"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.FormErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /products/{id}/edit [post]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.ProductFormRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	if isAJAX(c) {
		return c.JSON(dto.MessageResponse{Success: true, Message: msgProductUpdated})
	}
	return formDone(c, fiber.StatusOK, "/products", out)
}

// Delete godoc
// @Summary      Baja lógica de producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/{id}/delete [post]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	RequestLogger(c).Info().Str("product_id", c.Params("id")).Msg("producto eliminado")
	return formDone(c, fiber.StatusOK, "/products", dto.MessageResponse{Success: true, Message: msgProductDeleted})
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LowStockResponse
// @Router       /low-stock-products [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Categorías
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Categories(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
