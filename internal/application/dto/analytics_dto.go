package dto

import "github.com/shopspring/decimal"

// ChartData serie diaria para los gráficos del dashboard.
// Las etiquetas son fechas "YYYY-MM-DD"; todas las series tienen la misma longitud.
type ChartData struct {
	Labels    []string          `json:"labels"`
	Sales     []decimal.Decimal `json:"sales,omitempty"`
	Purchases []decimal.Decimal `json:"purchases,omitempty"`
	Profit    []decimal.Decimal `json:"profit,omitempty"`
	Spend     []decimal.Decimal `json:"spend,omitempty"`
}

// ProductRankDTO elemento de los rankings de productos.
type ProductRankDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// RecentPurchaseDTO línea comprada recientemente por el cliente.
type RecentPurchaseDTO struct {
	SaleID    string          `json:"sale_id"`
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Date      string          `json:"date"`
	Total     decimal.Decimal `json:"total"`
}

// DashboardResponse datos del dashboard. Admin rellena TopProfitable; el cliente RecentPurchases y MyTopProducts.
type DashboardResponse struct {
	Role            string              `json:"role"`
	Chart           ChartData           `json:"chart_data"`
	TopSelling      []ProductRankDTO    `json:"top_selling_products"`
	TopProfitable   []ProductRankDTO    `json:"top_profitable_products,omitempty"`
	MyTopProducts   []ProductRankDTO    `json:"my_top_products,omitempty"`
	RecentPurchases []RecentPurchaseDTO `json:"recent_purchases,omitempty"`
}

// LowStockDTO producto con stock bajo en estadísticas.
type LowStockDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Stock    int    `json:"stock"`
	MinStock int    `json:"min_stock"`
}

// CategorySalesDTO ventas por categoría.
type CategorySalesDTO struct {
	Name       string          `json:"name"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// SupplierStockDTO proveedor con el stock agregado de sus productos.
type SupplierStockDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TotalStock int    `json:"total_stock"`
}

// OrderLineDTO línea del historial de pedidos a proveedores.
type OrderLineDTO struct {
	PurchaseID string          `json:"purchase_id"`
	Date       string          `json:"date"`
	Supplier   string          `json:"supplier"`
	Product    string          `json:"product"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Total      decimal.Decimal `json:"total"`
}

// StatisticsResponse página de estadísticas. FailedSections lista las secciones que fallaron
// y quedaron con su valor por defecto.
type StatisticsResponse struct {
	TotalProducts        int                `json:"total_products"`
	TotalSuppliers       int                `json:"total_suppliers"`
	TotalUsers           int                `json:"total_users"`
	InventoryValue       decimal.Decimal    `json:"inventory_value"`
	LowStockProducts     []LowStockDTO      `json:"low_stock_products"`
	SalesByCategory      []CategorySalesDTO `json:"sales_by_category"`
	TopSuppliers         []SupplierStockDTO `json:"top_suppliers"`
	OrderHistory         []OrderLineDTO     `json:"order_history"`
	OrderHistoryPage     PageMeta           `json:"order_history_pagination"`
	FailedSections       []string           `json:"failed_sections,omitempty"`
	PrunedPurchaseOrders int                `json:"pruned_purchase_orders,omitempty"`
}

// CustomerSaleDTO línea del historial de compras del cliente.
type CustomerSaleDTO struct {
	SaleID   string          `json:"sale_id"`
	Date     string          `json:"date"`
	Product  string          `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// PurchaseHistoryResponse respuesta de /api/client_purchase_history.
type PurchaseHistoryResponse struct {
	Purchases   []CustomerSaleDTO `json:"purchases"`
	TotalPages  int               `json:"total_pages"`
	CurrentPage int               `json:"current_page"`
}

// DatedSaleDTO venta de un día con datos del comprador.
type DatedSaleDTO struct {
	SaleID   string          `json:"sale_id"`
	Date     string          `json:"date"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Product  string          `json:"product"`
	Supplier string          `json:"supplier"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// SalesByDateResponse respuesta de /api/sales_by_date/:date.
type SalesByDateResponse struct {
	Sales       []DatedSaleDTO `json:"sales"`
	TotalPages  int            `json:"total_pages"`
	CurrentPage int            `json:"current_page"`
}

// OrderHistoryResponse respuesta de /api/order_history.
type OrderHistoryResponse struct {
	Orders      []OrderLineDTO `json:"orders"`
	TotalPages  int            `json:"total_pages"`
	CurrentPage int            `json:"current_page"`
}

// DateTimeLayout formato de fechas en las respuestas JSON ("%Y-%m-%d %H:%M:%S").
const DateTimeLayout = "2006-01-02 15:04:05"
