package inventory

import (
	"fmt"
	"math"
)

// LowStockMargin unidades por encima del mínimo que todavía se consideran stock bajo.
// Compartido por la evaluación en memoria (IsLowStock) y la SQL (LowStockPredicate).
const LowStockMargin = 0

// reorderFactor multiplicador del stock mínimo para calcular el pedido sugerido.
const reorderFactor = 1.5

// IsLowStock indica si un producto está en stock bajo: stock <= min_stock + margen.
func IsLowStock(stock, minStock int) bool {
	return stock <= minStock+LowStockMargin
}

// LowStockPredicate devuelve la condición SQL equivalente a IsLowStock para la tabla con alias dado.
// Ej: LowStockPredicate("p") => "p.stock <= p.min_stock + 0".
func LowStockPredicate(alias string) string {
	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}
	return fmt.Sprintf("%sstock <= %smin_stock + %d", prefix, prefix, LowStockMargin)
}

// SuggestedOrderQty cantidad a pedir para dejar el stock en 1.5 veces el mínimo. Nunca negativa.
func SuggestedOrderQty(stock, minStock int) int {
	target := int(math.Ceil(float64(minStock) * reorderFactor))
	if qty := target - stock; qty > 0 {
		return qty
	}
	return 0
}
