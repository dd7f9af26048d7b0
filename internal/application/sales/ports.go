// Package sales contiene los casos de uso del carrito, el checkout y la confirmación de pedidos.
package sales

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
)

// ReceiptPDFGenerator genera el comprobante PDF de una venta confirmada.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *dto.SaleResponse, customer string) ([]byte, error)
}
