package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para dashboards y estadísticas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// DailySalesTotals suma Sale.total por día UTC en [from, to].
func (r *AnalyticsRepo) DailySalesTotals(ctx context.Context, from, to time.Time) ([]repository.DailyTotal, error) {
	const query = `
	SELECT (s.date AT TIME ZONE 'UTC')::date AS day,
	       SUM(s.total)                     AS total
	FROM sales s
	WHERE s.date BETWEEN $1 AND $2
	GROUP BY day
	ORDER BY day`
	return r.dailyTotals(ctx, "DailySalesTotals", query, from, to)
}

// DailyPurchaseTotals suma Purchase.total por día UTC en [from, to].
func (r *AnalyticsRepo) DailyPurchaseTotals(ctx context.Context, from, to time.Time) ([]repository.DailyTotal, error) {
	const query = `
	SELECT (pu.date AT TIME ZONE 'UTC')::date AS day,
	       SUM(pu.total)                     AS total
	FROM purchases pu
	WHERE pu.date BETWEEN $1 AND $2
	GROUP BY day
	ORDER BY day`
	return r.dailyTotals(ctx, "DailyPurchaseTotals", query, from, to)
}

// DailyUserSpend suma cantidad × precio de las líneas compradas por el usuario, por día UTC.
func (r *AnalyticsRepo) DailyUserSpend(ctx context.Context, userID string, from, to time.Time) ([]repository.DailyTotal, error) {
	const query = `
	SELECT (s.date AT TIME ZONE 'UTC')::date AS day,
	       SUM(si.quantity * si.price)      AS total
	FROM sales s
	JOIN sale_items si ON si.sale_id = s.id
	WHERE s.date BETWEEN $1 AND $2
	  AND s.user_id = $3
	GROUP BY day
	ORDER BY day`
	return r.dailyTotals(ctx, "DailyUserSpend", query, from, to, userID)
}

func (r *AnalyticsRepo) dailyTotals(ctx context.Context, op, query string, args ...any) ([]repository.DailyTotal, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.%s: %w", op, err)
	}
	defer rows.Close()

	var results []repository.DailyTotal
	for rows.Next() {
		var row repository.DailyTotal
		if err := rows.Scan(&row.Day, &row.Total); err != nil {
			return nil, fmt.Errorf("analytics.%s scan: %w", op, err)
		}
		row.Day = time.Date(row.Day.Year(), row.Day.Month(), row.Day.Day(), 0, 0, 0, 0, time.UTC)
		results = append(results, row)
	}
	return results, rows.Err()
}

// TopProductsByQuantity productos activos más vendidos por unidades. userID vacío = todos.
func (r *AnalyticsRepo) TopProductsByQuantity(ctx context.Context, userID string, limit int) ([]repository.ProductSalesResult, error) {
	const query = `
	SELECT p.id,
	       p.name,
	       SUM(si.quantity)            AS total_quantity,
	       SUM(si.quantity * si.price) AS total_sales
	FROM sale_items si
	JOIN products p ON p.id = si.product_id
	JOIN sales    s ON s.id = si.sale_id
	WHERE NOT p.is_deleted
	  AND ($1::text = '' OR s.user_id::text = $1::text)
	GROUP BY p.id, p.name
	ORDER BY total_quantity DESC, p.name
	LIMIT $2`
	return r.productSales(ctx, "TopProductsByQuantity", query, userID, limit)
}

// TopProductsByRevenue productos activos con mayor Σ cantidad × precio.
func (r *AnalyticsRepo) TopProductsByRevenue(ctx context.Context, limit int) ([]repository.ProductSalesResult, error) {
	const query = `
	SELECT p.id,
	       p.name,
	       SUM(si.quantity)            AS total_quantity,
	       SUM(si.quantity * si.price) AS total_sales
	FROM sale_items si
	JOIN products p ON p.id = si.product_id
	WHERE NOT p.is_deleted
	GROUP BY p.id, p.name
	ORDER BY total_sales DESC, p.name
	LIMIT $1`
	return r.productSales(ctx, "TopProductsByRevenue", query, limit)
}

func (r *AnalyticsRepo) productSales(ctx context.Context, op, query string, args ...any) ([]repository.ProductSalesResult, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.%s: %w", op, err)
	}
	defer rows.Close()

	var results []repository.ProductSalesResult
	for rows.Next() {
		var row repository.ProductSalesResult
		if err := rows.Scan(&row.ProductID, &row.Name, &row.Quantity, &row.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.%s scan: %w", op, err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// RecentSaleLines últimas líneas de venta del usuario.
func (r *AnalyticsRepo) RecentSaleLines(ctx context.Context, userID string, limit int) ([]repository.RecentSaleLine, error) {
	const query = `
	SELECT s.id, p.id, p.name, si.price, si.quantity, s.date, s.total
	FROM sales s
	JOIN sale_items si ON si.sale_id = s.id
	JOIN products   p  ON p.id       = si.product_id
	WHERE s.user_id = $1
	ORDER BY s.date DESC, s.id DESC, p.name
	LIMIT $2`
	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.RecentSaleLines: %w", err)
	}
	defer rows.Close()

	var results []repository.RecentSaleLine
	for rows.Next() {
		var row repository.RecentSaleLine
		if err := rows.Scan(&row.SaleID, &row.ProductID, &row.ProductName, &row.Price, &row.Quantity, &row.Date, &row.SaleTotal); err != nil {
			return nil, fmt.Errorf("analytics.RecentSaleLines scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func (r *AnalyticsRepo) CountActiveProducts(ctx context.Context) (int, error) {
	return r.count(ctx, "CountActiveProducts", `SELECT COUNT(*) FROM products WHERE NOT is_deleted`)
}

func (r *AnalyticsRepo) CountActiveSuppliers(ctx context.Context) (int, error) {
	return r.count(ctx, "CountActiveSuppliers", `SELECT COUNT(*) FROM suppliers WHERE NOT is_deleted`)
}

func (r *AnalyticsRepo) CountCustomers(ctx context.Context) (int, error) {
	return r.count(ctx, "CountCustomers", `SELECT COUNT(*) FROM users WHERE NOT is_admin`)
}

func (r *AnalyticsRepo) count(ctx context.Context, op, query string, args ...any) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.%s: %w", op, err)
	}
	return n, nil
}

// InventoryValue Σ precio × stock de los productos activos; cero si no hay ninguno.
func (r *AnalyticsRepo) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var v decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(price * stock), 0) FROM products WHERE NOT is_deleted`).Scan(&v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("analytics.InventoryValue: %w", err)
	}
	return v, nil
}

// SalesByCategory ventas acumuladas por categoría de productos activos.
func (r *AnalyticsRepo) SalesByCategory(ctx context.Context, limit int) ([]repository.CategorySalesResult, error) {
	const query = `
	SELECT c.name,
	       SUM(si.quantity * si.price) AS total_sales
	FROM sale_items si
	JOIN products   p ON p.id = si.product_id
	JOIN categories c ON c.id = p.category_id
	WHERE NOT p.is_deleted
	GROUP BY c.name
	ORDER BY total_sales DESC, c.name
	LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.SalesByCategory: %w", err)
	}
	defer rows.Close()

	var results []repository.CategorySalesResult
	for rows.Next() {
		var row repository.CategorySalesResult
		if err := rows.Scan(&row.Name, &row.TotalSales); err != nil {
			return nil, fmt.Errorf("analytics.SalesByCategory scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// TopSuppliersByStock proveedores activos ordenados por el stock total de sus productos activos.
func (r *AnalyticsRepo) TopSuppliersByStock(ctx context.Context, limit int) ([]repository.SupplierStockResult, error) {
	const query = `
	SELECT s.id,
	       s.company_name,
	       SUM(p.stock) AS total_stock
	FROM suppliers s
	JOIN product_suppliers ps ON ps.supplier_id = s.id
	JOIN products          p  ON p.id           = ps.product_id
	WHERE NOT s.is_deleted
	  AND NOT p.is_deleted
	GROUP BY s.id, s.company_name
	ORDER BY total_stock DESC, s.company_name
	LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopSuppliersByStock: %w", err)
	}
	defer rows.Close()

	var results []repository.SupplierStockResult
	for rows.Next() {
		var row repository.SupplierStockResult
		if err := rows.Scan(&row.SupplierID, &row.Name, &row.TotalStock); err != nil {
			return nil, fmt.Errorf("analytics.TopSuppliersByStock scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// PurchaseOrderLines historial de líneas de pedido, fecha desc e id desc.
func (r *AnalyticsRepo) PurchaseOrderLines(ctx context.Context, activeOnly bool, limit, offset int) ([]repository.OrderLine, int, error) {
	const from = `
	FROM purchases pu
	JOIN suppliers      s  ON s.id           = pu.supplier_id
	JOIN purchase_items pi ON pi.purchase_id = pu.id
	JOIN products       p  ON p.id           = pi.product_id
	WHERE (NOT $1 OR (NOT s.is_deleted AND NOT p.is_deleted))`

	total, err := r.count(ctx, "PurchaseOrderLines", `SELECT COUNT(*)`+from, activeOnly)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT pu.id, pu.date, s.company_name, p.name, pi.price, pi.quantity, pi.price * pi.quantity` + from + `
	ORDER BY pu.date DESC, pu.id DESC, p.name
	LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, activeOnly, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("analytics.PurchaseOrderLines: %w", err)
	}
	defer rows.Close()

	var results []repository.OrderLine
	for rows.Next() {
		var row repository.OrderLine
		if err := rows.Scan(&row.PurchaseID, &row.Date, &row.Supplier, &row.Product, &row.Price, &row.Quantity, &row.Total); err != nil {
			return nil, 0, fmt.Errorf("analytics.PurchaseOrderLines scan: %w", err)
		}
		results = append(results, row)
	}
	return results, total, rows.Err()
}

// CustomerSaleLines historial paginado de líneas compradas por el usuario.
func (r *AnalyticsRepo) CustomerSaleLines(ctx context.Context, userID string, limit, offset int) ([]repository.CustomerSaleLine, int, error) {
	const from = `
	FROM sales s
	JOIN sale_items si ON si.sale_id = s.id
	JOIN products   p  ON p.id       = si.product_id
	WHERE s.user_id = $1`

	total, err := r.count(ctx, "CustomerSaleLines", `SELECT COUNT(*)`+from, userID)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT s.id, s.date, p.name, si.quantity, si.price, si.quantity * si.price` + from + `
	ORDER BY s.date DESC, s.id DESC, p.name
	LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("analytics.CustomerSaleLines: %w", err)
	}
	defer rows.Close()

	var results []repository.CustomerSaleLine
	for rows.Next() {
		var row repository.CustomerSaleLine
		if err := rows.Scan(&row.SaleID, &row.Date, &row.Product, &row.Quantity, &row.Price, &row.Total); err != nil {
			return nil, 0, fmt.Errorf("analytics.CustomerSaleLines scan: %w", err)
		}
		results = append(results, row)
	}
	return results, total, rows.Err()
}

// SaleLinesByDate líneas de venta del día UTC indicado con comprador y proveedor.
func (r *AnalyticsRepo) SaleLinesByDate(ctx context.Context, day time.Time, limit, offset int) ([]repository.DatedSaleLine, int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	const from = `
	FROM sales s
	JOIN users      u  ON u.id       = s.user_id
	JOIN sale_items si ON si.sale_id = s.id
	JOIN products   p  ON p.id       = si.product_id
	LEFT JOIN suppliers sp ON sp.id  = si.supplier_id
	WHERE s.date >= $1 AND s.date < $2`

	total, err := r.count(ctx, "SaleLinesByDate", `SELECT COUNT(*)`+from, start, end)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT s.id, s.date, u.username, u.email, p.name, COALESCE(sp.company_name, ''),
	       si.quantity, si.price, si.quantity * si.price` + from + `
	ORDER BY s.date DESC, s.id DESC, p.name
	LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, start, end, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("analytics.SaleLinesByDate: %w", err)
	}
	defer rows.Close()

	var results []repository.DatedSaleLine
	for rows.Next() {
		var row repository.DatedSaleLine
		if err := rows.Scan(&row.SaleID, &row.Date, &row.Username, &row.Email, &row.Product, &row.Supplier,
			&row.Quantity, &row.Price, &row.Total); err != nil {
			return nil, 0, fmt.Errorf("analytics.SaleLinesByDate scan: %w", err)
		}
		results = append(results, row)
	}
	return results, total, rows.Err()
}
