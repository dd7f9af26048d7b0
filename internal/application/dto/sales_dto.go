package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartQuantityRequest cantidad enviada por los formularios del carrito.
type CartQuantityRequest struct {
	Quantity int `json:"quantity" form:"quantity"`
}

// CartLineResponse línea del carrito.
type CartLineResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	FormattedPrice    string          `json:"formatted_price"`
	Quantity          int             `json:"quantity"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	FormattedSubtotal string          `json:"formatted_subtotal"`
}

// CartResponse contenido del carrito.
type CartResponse struct {
	Items          []CartLineResponse `json:"items"`
	Total          decimal.Decimal    `json:"total"`
	FormattedTotal string             `json:"formatted_total"`
}

// CartTotalResponse respuesta de /api/cart-total.
type CartTotalResponse struct {
	Total decimal.Decimal `json:"total"`
}

// CheckoutRequest formulario de pago simulado.
type CheckoutRequest struct {
	Name       string `json:"name" form:"name"`
	Email      string `json:"email" form:"email"`
	Address    string `json:"address" form:"address"`
	CardNumber string `json:"card_number" form:"card_number"`
	Expiry     string `json:"expiry" form:"expiry"`
	CVV        string `json:"cvv" form:"cvv"`
}

// SaleItemResponse línea de una venta.
type SaleItemResponse struct {
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Quantity          int             `json:"quantity"`
	Price             decimal.Decimal `json:"price"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	FormattedSubtotal string          `json:"formatted_subtotal"`
}

// SaleResponse salida de una venta (confirmación de pedido).
type SaleResponse struct {
	ID              string             `json:"id"`
	Date            time.Time          `json:"date"`
	Total           decimal.Decimal    `json:"total"`
	FormattedTotal  string             `json:"formatted_total"`
	ShippingAddress string             `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
	Items           []SaleItemResponse `json:"items"`
}
