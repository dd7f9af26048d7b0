package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRef referencia ligera a un producto activo suministrado por un proveedor.
type ProductRef struct {
	ID    string
	Name  string
	Stock int
}

// Supplier representa a un proveedor. El CIF es su identificador fiscal único.
type Supplier struct {
	SoftDelete
	ID            string
	CompanyName   string
	ContactName   string
	Phone         string
	Email         string
	Address       string
	City          string
	Country       string
	PostalCode    string
	CIF           string
	Discount      *decimal.Decimal // porcentaje [0,100]
	IVA           *decimal.Decimal // porcentaje [0,100]
	PaymentMethod string
	BankAccount   string
	Notes         string
	Products      []ProductRef // solo productos activos, cargado bajo demanda
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var hundred = decimal.NewFromInt(100)

// FormattedDiscount descuento como "5.00%" o "N/A".
func (s *Supplier) FormattedDiscount() string { return FormatPercent(s.Discount) }

// FormattedIVA IVA como "21.00%" o "N/A".
func (s *Supplier) FormattedIVA() string { return FormatPercent(s.IVA) }

// DiscountedPrice aplica el descuento del proveedor a un precio unitario (redondeo a 2 decimales).
func (s *Supplier) DiscountedPrice(price decimal.Decimal) decimal.Decimal {
	if s.Discount == nil || s.Discount.IsZero() {
		return price
	}
	factor := hundred.Sub(*s.Discount).Div(hundred)
	return price.Mul(factor).Round(2)
}

var _ ActiveRecordFilter = (*Supplier)(nil)
