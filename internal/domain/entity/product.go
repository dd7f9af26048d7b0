package entity

import (
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// SupplierRef referencia ligera a un proveedor activo asociado a un producto.
type SupplierRef struct {
	ID          string
	CompanyName string
}

// Product representa un producto del catálogo. Stock es un entero único (sin multi-bodega).
type Product struct {
	SoftDelete
	ID              string
	Name            string
	Description     string
	Price           decimal.Decimal // precio de venta, >= 0
	Stock           int
	MinStock        int
	Location        string
	ReferenceNumber string // único
	Color           string
	Weight          *decimal.Decimal // kg, opcional
	Dimensions      string
	Manufacturer    string
	CategoryID      string
	CategoryName    string        // cargado por el repositorio
	Suppliers       []SupplierRef // solo proveedores activos
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

var stockStatusFactor = decimal.NewFromFloat(0.9)

// IsLowStock evaluación en proceso de la regla de stock bajo.
// La versión SQL es inventory.LowStockPredicate; ambas comparten inventory.LowStockMargin.
func (p *Product) IsLowStock() bool {
	return inventory.IsLowStock(p.Stock, p.MinStock)
}

// StockStatus devuelve "low" si el stock cae por debajo del 90% del mínimo, "normal" en otro caso.
func (p *Product) StockStatus() string {
	threshold := decimal.NewFromInt(int64(p.MinStock)).Mul(stockStatusFactor)
	if decimal.NewFromInt(int64(p.Stock)).LessThanOrEqual(threshold) {
		return "low"
	}
	return "normal"
}

// FormattedPrice precio con símbolo de euro.
func (p *Product) FormattedPrice() string {
	return FormatEUR(p.Price)
}

// FormattedWeight peso con unidad o "N/A".
func (p *Product) FormattedWeight() string {
	if p.Weight == nil || p.Weight.IsZero() {
		return "N/A"
	}
	return p.Weight.StringFixed(2) + " kg"
}

// PrimarySupplier primer proveedor activo asociado, si existe.
func (p *Product) PrimarySupplier() *SupplierRef {
	if len(p.Suppliers) == 0 {
		return nil
	}
	s := p.Suppliers[0]
	return &s
}

// SuggestedOrderQty cantidad sugerida para reponer el producto.
func (p *Product) SuggestedOrderQty() int {
	return inventory.SuggestedOrderQty(p.Stock, p.MinStock)
}

var _ ActiveRecordFilter = (*Product)(nil)
