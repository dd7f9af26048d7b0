package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DailyTotal total agregado de un día (UTC, truncado a medianoche).
type DailyTotal struct {
	Day   time.Time
	Total decimal.Decimal
}

// ProductSalesResult resultado crudo de los rankings de productos vendidos.
// Lo produce la DB; el use case lo convierte en DTO.
type ProductSalesResult struct {
	ProductID string
	Name      string
	Quantity  int
	Revenue   decimal.Decimal // Σ cantidad × precio de las líneas de venta
}

// RecentSaleLine línea de venta reciente de un cliente.
type RecentSaleLine struct {
	SaleID      string
	ProductID   string
	ProductName string
	Price       decimal.Decimal
	Quantity    int
	Date        time.Time
	SaleTotal   decimal.Decimal
}

// CategorySalesResult ventas acumuladas de una categoría.
type CategorySalesResult struct {
	Name       string
	TotalSales decimal.Decimal
}

// SupplierStockResult stock agregado de los productos activos de un proveedor.
type SupplierStockResult struct {
	SupplierID string
	Name       string
	TotalStock int
}

// OrderLine línea del historial de pedidos a proveedores.
type OrderLine struct {
	PurchaseID string
	Date       time.Time
	Supplier   string
	Product    string
	Price      decimal.Decimal
	Quantity   int
	Total      decimal.Decimal
}

// CustomerSaleLine línea del historial de compras de un cliente.
type CustomerSaleLine struct {
	SaleID   string
	Date     time.Time
	Product  string
	Quantity int
	Price    decimal.Decimal
	Total    decimal.Decimal
}

// DatedSaleLine línea de venta de un día concreto con datos del comprador.
type DatedSaleLine struct {
	SaleID   string
	Date     time.Time
	Username string
	Email    string
	Product  string
	Supplier string // vacío si la línea no tiene proveedor
	Quantity int
	Price    decimal.Decimal
	Total    decimal.Decimal
}

// AnalyticsRepository define las consultas de lectura para dashboards y estadísticas.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// ── Dashboards ────────────────────────────────────────────────────────────

	// DailySalesTotals suma Sale.total por día en [from, to]. Solo devuelve días con ventas.
	DailySalesTotals(ctx context.Context, from, to time.Time) ([]DailyTotal, error)
	// DailyPurchaseTotals suma Purchase.total por día en [from, to].
	DailyPurchaseTotals(ctx context.Context, from, to time.Time) ([]DailyTotal, error)
	// DailyUserSpend suma cantidad × precio de las líneas de venta del usuario por día.
	DailyUserSpend(ctx context.Context, userID string, from, to time.Time) ([]DailyTotal, error)

	// TopProductsByQuantity productos activos más vendidos. userID vacío = todos los usuarios.
	TopProductsByQuantity(ctx context.Context, userID string, limit int) ([]ProductSalesResult, error)
	// TopProductsByRevenue productos activos con más ingresos.
	TopProductsByRevenue(ctx context.Context, limit int) ([]ProductSalesResult, error)
	// RecentSaleLines últimas líneas compradas por el usuario, fecha desc.
	RecentSaleLines(ctx context.Context, userID string, limit int) ([]RecentSaleLine, error)

	// ── Estadísticas ──────────────────────────────────────────────────────────

	CountActiveProducts(ctx context.Context) (int, error)
	CountActiveSuppliers(ctx context.Context) (int, error)
	// CountCustomers cuenta los usuarios no administradores.
	CountCustomers(ctx context.Context) (int, error)
	// InventoryValue Σ precio × stock de productos activos (cero si no hay).
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
	SalesByCategory(ctx context.Context, limit int) ([]CategorySalesResult, error)
	TopSuppliersByStock(ctx context.Context, limit int) ([]SupplierStockResult, error)

	// ── Historiales paginados (devuelven también el total de filas) ──────────

	// PurchaseOrderLines historial de pedidos (fecha desc, id desc). activeOnly excluye
	// proveedores y productos eliminados.
	PurchaseOrderLines(ctx context.Context, activeOnly bool, limit, offset int) ([]OrderLine, int, error)
	CustomerSaleLines(ctx context.Context, userID string, limit, offset int) ([]CustomerSaleLine, int, error)
	SaleLinesByDate(ctx context.Context, day time.Time, limit, offset int) ([]DatedSaleLine, int, error)
}
