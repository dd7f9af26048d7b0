package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase pedido de reposición a un proveedor.
type Purchase struct {
	ID           string
	SupplierID   string
	SupplierName string // cargado por el repositorio
	Date         time.Time
	Total        decimal.Decimal
	Message      string
	Items        []PurchaseItem
}

// PurchaseItem línea de pedido. Price ya incluye el descuento del proveedor vigente al crearla.
type PurchaseItem struct {
	ID          string
	PurchaseID  string
	ProductID   string
	ProductName string
	Reference   string
	Quantity    int
	Price       decimal.Decimal
}

// Subtotal precio × cantidad.
func (i PurchaseItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeTotal suma de los subtotales de las líneas.
func (p *Purchase) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range p.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// FormattedTotal total con símbolo de euro.
func (p *Purchase) FormattedTotal() string { return FormatEUR(p.Total) }
