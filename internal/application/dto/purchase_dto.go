package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotifySupplierRequest formulario de /api/notify_supplier.
type NotifySupplierRequest struct {
	ProductID  string `json:"productId" form:"productId"`
	SupplierID string `json:"supplier" form:"supplier"`
	Quantity   string `json:"quantity" form:"quantity"`
	Message    string `json:"message" form:"message"`
}

// PurchaseItemResponse línea de un pedido a proveedor.
type PurchaseItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Reference   string          `json:"reference"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse salida de un pedido a proveedor.
type PurchaseResponse struct {
	ID             string                 `json:"id"`
	SupplierID     string                 `json:"supplier_id"`
	Supplier       string                 `json:"supplier"`
	Date           time.Time              `json:"date"`
	Total          decimal.Decimal        `json:"total"`
	FormattedTotal string                 `json:"formatted_total"`
	Message        string                 `json:"message"`
	Items          []PurchaseItemResponse `json:"items"`
}

// NotifySupplierResponse respuesta AJAX de la notificación a proveedor.
type NotifySupplierResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Purchase PurchaseResponse `json:"purchase"`
}

// PurchaseOrderDocument documento XML del pedido con su digest canónico.
type PurchaseOrderDocument struct {
	XML    []byte
	Digest string // SHA-256 base64 de la forma canónica
}
