package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/purchasing"
)

// HeaderOrderDigest digest SHA-256 (base64) del XML canónico del pedido.
const HeaderOrderDigest = "X-Order-Digest"

// PurchasingHandler maneja los pedidos a proveedor (solo administradores).
type PurchasingHandler struct {
	uc      *purchasing.PurchasingUseCase
	metrics *Metrics
}

// NewPurchasingHandler construye el handler.
func NewPurchasingHandler(uc *purchasing.PurchasingUseCase, metrics *Metrics) *PurchasingHandler {
	return &PurchasingHandler{uc: uc, metrics: metrics}
}

// NotifySupplier godoc
// @Summary      Notificar pedido a proveedor
// @Description  Registra el pedido con el precio descontado y suma la cantidad al stock.
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NotifySupplierRequest  true  "productId, supplier, quantity, message"
// @Success      200   {object}  dto.NotifySupplierResponse
// @Failure      400   {object}  dto.FormErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/notify_supplier [post]
func (h *PurchasingHandler) NotifySupplier(c *fiber.Ctx) error {
	var in dto.NotifySupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.NotifySupplier(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	h.metrics.supplierOrder()
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de pedido a proveedor
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchasingHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// OrderXML godoc
// @Summary      Pedido a proveedor en XML
// @Description  Documento PurchaseOrder; la cabecera X-Order-Digest lleva el SHA-256 de su forma canónica.
// @Tags         purchasing
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {string}  string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/order.xml [get]
func (h *PurchasingHandler) OrderXML(c *fiber.Ctx) error {
	doc, err := h.uc.OrderDocument(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(HeaderOrderDigest, doc.Digest)
	return c.Send(doc.XML)
}
