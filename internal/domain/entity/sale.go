package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta de un usuario. Total debe ser igual a la suma de los subtotales de sus líneas.
type Sale struct {
	ID              string
	UserID          string
	SupplierID      *string
	Date            time.Time
	Total           decimal.Decimal
	ShippingAddress string
	PaymentMethod   string
	Items           []SaleItem
}

// SaleItem línea de venta. Price se copia del producto al momento de la venta.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string // cargado por el repositorio
	SupplierID  *string
	Quantity    int
	Price       decimal.Decimal
}

// Subtotal precio × cantidad.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// FormattedSubtotal subtotal con símbolo de euro.
func (i SaleItem) FormattedSubtotal() string { return FormatEUR(i.Subtotal()) }

// ComputeTotal suma de los subtotales de las líneas.
func (s *Sale) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// FormattedTotal total con símbolo de euro.
func (s *Sale) FormattedTotal() string { return FormatEUR(s.Total) }
