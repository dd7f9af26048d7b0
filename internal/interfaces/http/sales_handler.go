package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/sales"
	"github.com/jhoicas/Suministros-api/internal/domain"
)

const (
	msgCartAdded     = "Producto añadido al carrito"
	msgCartUpdated   = "Cantidad actualizada"
	msgCartRemoved   = "Producto eliminado del carrito"
	msgCheckoutDone  = "Compra realizada con éxito"
	msgCheckoutError = "Ha ocurrido un error al procesar la compra. Por favor, inténtelo de nuevo."
)

// SalesHandler maneja carrito, checkout y confirmación de pedidos (solo clientes).
type SalesHandler struct {
	cart     *sales.CartUseCase
	checkout *sales.CheckoutUseCase
	metrics  *Metrics
}

// NewSalesHandler construye el handler.
func NewSalesHandler(cart *sales.CartUseCase, checkout *sales.CheckoutUseCase, metrics *Metrics) *SalesHandler {
	return &SalesHandler{cart: cart, checkout: checkout, metrics: metrics}
}

// CustomersOnly rechaza a los administradores con el mensaje indicado.
// En navegación de páginas redirige al dashboard.
func CustomersOnly(msg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsAdmin(c) {
			return c.Next()
		}
		if wantsPage(c) {
			return c.Redirect("/dashboard", fiber.StatusSeeOther)
		}
		return forbidden(c, msg)
	}
}

// View godoc
// @Summary      Contenido del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /cart [get]
func (h *SalesHandler) View(c *fiber.Ctx) error {
	out, err := h.cart.View(c.UserContext(), GetUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Total godoc
// @Summary      Total del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartTotalResponse
// @Router       /api/cart-total [get]
func (h *SalesHandler) Total(c *fiber.Ctx) error {
	total, err := h.cart.Total(c.UserContext(), GetUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.CartTotalResponse{Total: total})
}

// Add godoc
// @Summary      Añadir al carrito
// @Description  Acumula la cantidad si el producto ya está en el carrito.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del producto"
// @Param        body  body  dto.CartQuantityRequest  true  "Cantidad"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.FormErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /add-to-cart/{id} [post]
func (h *SalesHandler) Add(c *fiber.Ctx) error {
	qty, err := quantityParam(c)
	if err != nil {
		return invalidBody(c)
	}
	if err := h.cart.Add(c.UserContext(), GetUserID(c), c.Params("id"), qty); err != nil {
		return handleError(c, err)
	}
	return formDone(c, fiber.StatusOK, "/cart", dto.MessageResponse{Success: true, Message: msgCartAdded})
}

// Update godoc
// @Summary      Cambiar cantidad de una línea
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del producto"
// @Param        body  body  dto.CartQuantityRequest  true  "Cantidad"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.FormErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /update-cart/{id} [post]
func (h *SalesHandler) Update(c *fiber.Ctx) error {
	qty, err := quantityParam(c)
	if err != nil {
		return invalidBody(c)
	}
	if err := h.cart.Update(c.UserContext(), GetUserID(c), c.Params("id"), qty); err != nil {
		return handleError(c, err)
	}
	return formDone(c, fiber.StatusOK, "/cart", dto.MessageResponse{Success: true, Message: msgCartUpdated})
}

// Remove godoc
// @Summary      Quitar producto del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /remove-from-cart/{id} [post]
func (h *SalesHandler) Remove(c *fiber.Ctx) error {
	if err := h.cart.Remove(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return formDone(c, fiber.StatusOK, "/cart", dto.MessageResponse{Success: true, Message: msgCartRemoved})
}

// CheckoutPage resumen del carrito antes de pagar. Carrito vacío → /cart.
func (h *SalesHandler) CheckoutPage(c *fiber.Ctx) error {
	out, err := h.checkout.Prepare(c.UserContext(), GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) && wantsPage(c) {
			return c.Redirect("/cart", fiber.StatusSeeOther)
		}
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Checkout godoc
// @Summary      Finalizar compra
// @Description  Crea la venta, descuenta stock y vacía el carrito en una sola transacción.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Datos de envío y pago simulado"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.FormErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /checkout [post]
func (h *SalesHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	sale, err := h.checkout.Checkout(c.UserContext(), GetUserID(c), in)
	if err != nil {
		h.metrics.checkout(false)
		var berr *domain.BusinessError
		if errors.As(err, &berr) && isFormPost(c) && !isAJAX(c) {
			return c.Redirect("/cart", fiber.StatusSeeOther)
		}
		var verr *domain.ValidationError
		if !errors.As(err, &verr) && berr == nil {
			RequestLogger(c).Error().Err(err).Msg("error al procesar la compra")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: msgCheckoutError})
		}
		return handleError(c, err)
	}
	h.metrics.checkout(true)
	RequestLogger(c).Info().Str("sale_id", sale.ID).Str("total", sale.Total.StringFixed(2)).Msg(msgCheckoutDone)
	return formDone(c, fiber.StatusCreated, "/order-confirmation/"+sale.ID, sale)
}

// Confirmation godoc
// @Summary      Confirmación de pedido
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /order-confirmation/{id} [get]
func (h *SalesHandler) Confirmation(c *fiber.Ctx) error {
	out, err := h.checkout.Confirmation(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// ReceiptPDF godoc
// @Summary      Justificante del pedido en PDF
// @Tags         cart
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /order-confirmation/{id}/pdf [get]
func (h *SalesHandler) ReceiptPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.checkout.ReceiptPDF(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// quantityParam lee quantity del cuerpo (JSON o formulario); ausente equivale a 0.
func quantityParam(c *fiber.Ctx) (int, error) {
	if len(c.Body()) == 0 {
		return 0, nil
	}
	if isFormPost(c) {
		raw := c.FormValue("quantity")
		if raw == "" {
			return 0, nil
		}
		q, err := strconv.Atoi(raw)
		if err != nil {
			// el formulario lo reporta como cantidad inválida
			return 0, nil
		}
		return q, nil
	}
	var in dto.CartQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return 0, err
	}
	return in.Quantity, nil
}
