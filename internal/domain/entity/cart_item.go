package entity

import "github.com/shopspring/decimal"

// CartItem línea del carrito de un usuario (cantidad >= 1). Product se carga al listar.
type CartItem struct {
	ID        string
	UserID    string
	ProductID string
	Quantity  int
	Product   *Product
}

// Subtotal precio actual del producto × cantidad.
func (c *CartItem) Subtotal() decimal.Decimal {
	if c.Product == nil {
		return decimal.Zero
	}
	return c.Product.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// FormattedSubtotal subtotal con símbolo de euro.
func (c *CartItem) FormattedSubtotal() string { return FormatEUR(c.Subtotal()) }

// CartTotal total del carrito: Σ precio × cantidad.
func CartTotal(items []*CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
