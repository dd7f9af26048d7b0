package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.AnalyticsRepository = (*analyticsRepo)(nil)

type analyticsRepo struct{ db *DB }

func (r *analyticsRepo) read(fn func(st *state)) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	fn(r.db.st)
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func sortedDaily(m map[time.Time]decimal.Decimal) []repository.DailyTotal {
	out := make([]repository.DailyTotal, 0, len(m))
	for d, v := range m {
		out = append(out, repository.DailyTotal{Day: d, Total: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

func (r *analyticsRepo) DailySalesTotals(_ context.Context, from, to time.Time) ([]repository.DailyTotal, error) {
	m := map[time.Time]decimal.Decimal{}
	r.read(func(st *state) {
		for _, s := range st.sales {
			if inRange(s.Date, from, to) {
				d := dayOf(s.Date)
				m[d] = m[d].Add(s.Total)
			}
		}
	})
	return sortedDaily(m), nil
}

func (r *analyticsRepo) DailyPurchaseTotals(_ context.Context, from, to time.Time) ([]repository.DailyTotal, error) {
	m := map[time.Time]decimal.Decimal{}
	r.read(func(st *state) {
		for _, p := range st.purchases {
			if inRange(p.Date, from, to) {
				d := dayOf(p.Date)
				m[d] = m[d].Add(p.Total)
			}
		}
	})
	return sortedDaily(m), nil
}

func (r *analyticsRepo) DailyUserSpend(_ context.Context, userID string, from, to time.Time) ([]repository.DailyTotal, error) {
	m := map[time.Time]decimal.Decimal{}
	r.read(func(st *state) {
		for _, s := range st.sales {
			if s.UserID != userID || !inRange(s.Date, from, to) {
				continue
			}
			d := dayOf(s.Date)
			for _, it := range s.Items {
				m[d] = m[d].Add(it.Subtotal())
			}
		}
	})
	return sortedDaily(m), nil
}

// productTotals agrega las líneas de venta por producto activo.
func (st *state) productTotals(userID string) []repository.ProductSalesResult {
	acc := map[string]*repository.ProductSalesResult{}
	for _, s := range st.sales {
		if userID != "" && s.UserID != userID {
			continue
		}
		for _, it := range s.Items {
			p, ok := st.products[it.ProductID]
			if !ok || p.IsDeleted {
				continue
			}
			row := acc[p.ID]
			if row == nil {
				row = &repository.ProductSalesResult{ProductID: p.ID, Name: p.Name}
				acc[p.ID] = row
			}
			row.Quantity += it.Quantity
			row.Revenue = row.Revenue.Add(it.Subtotal())
		}
	}
	out := make([]repository.ProductSalesResult, 0, len(acc))
	for _, row := range acc {
		out = append(out, *row)
	}
	return out
}

func limitRows[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

func (r *analyticsRepo) TopProductsByQuantity(_ context.Context, userID string, limit int) ([]repository.ProductSalesResult, error) {
	var out []repository.ProductSalesResult
	r.read(func(st *state) {
		out = st.productTotals(userID)
		sort.Slice(out, func(i, j int) bool {
			if out[i].Quantity != out[j].Quantity {
				return out[i].Quantity > out[j].Quantity
			}
			return out[i].Name < out[j].Name
		})
	})
	return limitRows(out, limit), nil
}

func (r *analyticsRepo) TopProductsByRevenue(_ context.Context, limit int) ([]repository.ProductSalesResult, error) {
	var out []repository.ProductSalesResult
	r.read(func(st *state) {
		out = st.productTotals("")
		sort.Slice(out, func(i, j int) bool {
			if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
				return c > 0
			}
			return out[i].Name < out[j].Name
		})
	})
	return limitRows(out, limit), nil
}

func (r *analyticsRepo) RecentSaleLines(_ context.Context, userID string, limit int) ([]repository.RecentSaleLine, error) {
	var out []repository.RecentSaleLine
	r.read(func(st *state) {
		for _, s := range st.userSalesDesc(userID) {
			for _, it := range itemsByName(st, s.Items) {
				out = append(out, repository.RecentSaleLine{
					SaleID: s.ID, ProductID: it.ProductID, ProductName: it.ProductName,
					Price: it.Price, Quantity: it.Quantity, Date: s.Date, SaleTotal: s.Total,
				})
			}
		}
	})
	return limitRows(out, limit), nil
}

func itemsByName(st *state, items []entity.SaleItem) []entity.SaleItem {
	out := make([]entity.SaleItem, len(items))
	copy(out, items)
	for i := range out {
		if p, ok := st.products[out[i].ProductID]; ok {
			out[i].ProductName = p.Name
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out
}

func (r *analyticsRepo) CountActiveProducts(_ context.Context) (int, error) {
	n := 0
	r.read(func(st *state) { n = len(st.activeProducts()) })
	return n, nil
}

func (r *analyticsRepo) CountActiveSuppliers(_ context.Context) (int, error) {
	n := 0
	r.read(func(st *state) { n = len(st.activeSuppliers()) })
	return n, nil
}

func (r *analyticsRepo) CountCustomers(_ context.Context) (int, error) {
	n := 0
	r.read(func(st *state) {
		for _, u := range st.users {
			if !u.IsAdmin {
				n++
			}
		}
	})
	return n, nil
}

func (r *analyticsRepo) InventoryValue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	r.read(func(st *state) {
		for _, p := range st.products {
			if !p.IsDeleted {
				total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
			}
		}
	})
	return total, nil
}

func (r *analyticsRepo) SalesByCategory(_ context.Context, limit int) ([]repository.CategorySalesResult, error) {
	acc := map[string]decimal.Decimal{}
	r.read(func(st *state) {
		for _, s := range st.sales {
			for _, it := range s.Items {
				p, ok := st.products[it.ProductID]
				if !ok || p.IsDeleted {
					continue
				}
				cat, ok := st.categories[p.CategoryID]
				if !ok {
					continue
				}
				acc[cat.Name] = acc[cat.Name].Add(it.Subtotal())
			}
		}
	})
	out := make([]repository.CategorySalesResult, 0, len(acc))
	for name, total := range acc {
		out = append(out, repository.CategorySalesResult{Name: name, TotalSales: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalSales.Cmp(out[j].TotalSales); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return limitRows(out, limit), nil
}

func (r *analyticsRepo) TopSuppliersByStock(_ context.Context, limit int) ([]repository.SupplierStockResult, error) {
	acc := map[string]*repository.SupplierStockResult{}
	r.read(func(st *state) {
		for _, l := range st.links {
			s, ok := st.suppliers[l.supplierID]
			if !ok || s.IsDeleted {
				continue
			}
			p, ok := st.products[l.productID]
			if !ok || p.IsDeleted {
				continue
			}
			row := acc[s.ID]
			if row == nil {
				row = &repository.SupplierStockResult{SupplierID: s.ID, Name: s.CompanyName}
				acc[s.ID] = row
			}
			row.TotalStock += p.Stock
		}
	})
	out := make([]repository.SupplierStockResult, 0, len(acc))
	for _, row := range acc {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalStock != out[j].TotalStock {
			return out[i].TotalStock > out[j].TotalStock
		}
		return out[i].Name < out[j].Name
	})
	return limitRows(out, limit), nil
}

func (r *analyticsRepo) PurchaseOrderLines(_ context.Context, activeOnly bool, limit, offset int) ([]repository.OrderLine, int, error) {
	var all []repository.OrderLine
	r.read(func(st *state) {
		for _, pu := range st.purchasesDesc() {
			s, ok := st.suppliers[pu.SupplierID]
			if !ok || (activeOnly && s.IsDeleted) {
				continue
			}
			var lines []repository.OrderLine
			for _, it := range pu.Items {
				p, ok := st.products[it.ProductID]
				if !ok || (activeOnly && p.IsDeleted) {
					continue
				}
				lines = append(lines, repository.OrderLine{
					PurchaseID: pu.ID, Date: pu.Date, Supplier: s.CompanyName, Product: p.Name,
					Price: it.Price, Quantity: it.Quantity, Total: it.Subtotal(),
				})
			}
			sort.SliceStable(lines, func(i, j int) bool { return lines[i].Product < lines[j].Product })
			all = append(all, lines...)
		}
	})
	return page(all, limit, offset), len(all), nil
}

func (r *analyticsRepo) CustomerSaleLines(_ context.Context, userID string, limit, offset int) ([]repository.CustomerSaleLine, int, error) {
	var all []repository.CustomerSaleLine
	r.read(func(st *state) {
		for _, s := range st.userSalesDesc(userID) {
			for _, it := range itemsByName(st, s.Items) {
				all = append(all, repository.CustomerSaleLine{
					SaleID: s.ID, Date: s.Date, Product: it.ProductName,
					Quantity: it.Quantity, Price: it.Price, Total: it.Subtotal(),
				})
			}
		}
	})
	return page(all, limit, offset), len(all), nil
}

func (r *analyticsRepo) SaleLinesByDate(_ context.Context, day time.Time, limit, offset int) ([]repository.DatedSaleLine, int, error) {
	start := dayOf(day)
	end := start.AddDate(0, 0, 1)
	var all []repository.DatedSaleLine
	r.read(func(st *state) {
		var sales []*entity.Sale
		for _, s := range st.sales {
			if !s.Date.Before(start) && s.Date.Before(end) {
				sales = append(sales, s)
			}
		}
		sort.Slice(sales, func(i, j int) bool {
			if !sales[i].Date.Equal(sales[j].Date) {
				return sales[i].Date.After(sales[j].Date)
			}
			return sales[i].ID > sales[j].ID
		})
		for _, s := range sales {
			u, ok := st.users[s.UserID]
			if !ok {
				continue
			}
			for _, it := range itemsByName(st, s.Items) {
				line := repository.DatedSaleLine{
					SaleID: s.ID, Date: s.Date, Username: u.Username, Email: u.Email, Product: it.ProductName,
					Quantity: it.Quantity, Price: it.Price, Total: it.Subtotal(),
				}
				if it.SupplierID != nil {
					if sp, ok := st.suppliers[*it.SupplierID]; ok {
						line.Supplier = sp.CompanyName
					}
				}
				all = append(all, line)
			}
		}
	})
	return page(all, limit, offset), len(all), nil
}
