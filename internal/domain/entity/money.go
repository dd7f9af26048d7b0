package entity

import "github.com/shopspring/decimal"

// FormatEUR formatea un importe como "€12.50".
func FormatEUR(d decimal.Decimal) string {
	return "€" + d.StringFixed(2)
}

// FormatPercent formatea un porcentaje opcional como "21.00%" o "N/A".
func FormatPercent(p *decimal.Decimal) string {
	if p == nil {
		return "N/A"
	}
	return p.StringFixed(2) + "%"
}
