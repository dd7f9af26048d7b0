package analytics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/jhoicas/Suministros-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	categoriesTop = 10
	suppliersTop  = 5
)

// Nombres de sección reportados en failed_sections.
const (
	SectionTotalProducts   = "total_products"
	SectionTotalSuppliers  = "total_suppliers"
	SectionTotalUsers      = "total_users"
	SectionInventoryValue  = "inventory_value"
	SectionLowStock        = "low_stock_products"
	SectionSalesByCategory = "sales_by_category"
	SectionTopSuppliers    = "top_suppliers"
	SectionOrderHistory    = "order_history"
	SectionPurchasePrune   = "purchase_prune"
)

// StatisticsUseCase estadísticas de administración. Cada sección se calcula de forma aislada:
// si una falla se registra el error, se conserva su valor por defecto y se reporta en FailedSections.
type StatisticsUseCase struct {
	analyticsRepo     repository.AnalyticsRepository
	store             repository.Store
	tx                repository.TxRunner
	pageSize          int
	purchaseRetention int
}

// NewStatisticsUseCase construye el caso de uso.
func NewStatisticsUseCase(
	analyticsRepo repository.AnalyticsRepository,
	store repository.Store,
	tx repository.TxRunner,
	pageSize, purchaseRetention int,
) *StatisticsUseCase {
	if pageSize <= 0 {
		pageSize = 10
	}
	if purchaseRetention <= 0 {
		purchaseRetention = 50
	}
	return &StatisticsUseCase{
		analyticsRepo:     analyticsRepo,
		store:             store,
		tx:                tx,
		pageSize:          pageSize,
		purchaseRetention: purchaseRetention,
	}
}

// sections ejecuta funciones de sección en paralelo y acumula los nombres de las que fallan.
type sections struct {
	ctx    context.Context
	wg     sync.WaitGroup
	mu     sync.Mutex
	failed []string
}

func (s *sections) run(name string, fn func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := fn(); err != nil {
			logger.FromContext(s.ctx).Error().Err(err).Str("section", name).Msg("estadísticas: sección fallida")
			s.mu.Lock()
			s.failed = append(s.failed, name)
			s.mu.Unlock()
		}
	}()
}

func (s *sections) wait() []string {
	s.wg.Wait()
	sort.Strings(s.failed)
	return s.failed
}

// aggregates lanza las secciones comunes a la página y al refresco.
func (uc *StatisticsUseCase) aggregates(ctx context.Context, out *dto.StatisticsResponse) *sections {
	s := &sections{ctx: ctx}
	s.run(SectionTotalProducts, func() (err error) {
		out.TotalProducts, err = uc.analyticsRepo.CountActiveProducts(ctx)
		return err
	})
	s.run(SectionTotalSuppliers, func() (err error) {
		out.TotalSuppliers, err = uc.analyticsRepo.CountActiveSuppliers(ctx)
		return err
	})
	s.run(SectionTotalUsers, func() (err error) {
		out.TotalUsers, err = uc.analyticsRepo.CountCustomers(ctx)
		return err
	})
	s.run(SectionInventoryValue, func() error {
		v, err := uc.analyticsRepo.InventoryValue(ctx)
		if err != nil {
			return err
		}
		out.InventoryValue = v.Round(2)
		return nil
	})
	s.run(SectionLowStock, func() error {
		products, err := uc.store.Products().ListLowStock(ctx)
		if err != nil {
			return err
		}
		for _, p := range products {
			out.LowStockProducts = append(out.LowStockProducts, dto.LowStockDTO{
				ID: p.ID, Name: p.Name, Stock: p.Stock, MinStock: p.MinStock,
			})
		}
		return nil
	})
	s.run(SectionSalesByCategory, func() error {
		rows, err := uc.analyticsRepo.SalesByCategory(ctx, categoriesTop)
		if err != nil {
			return err
		}
		for _, r := range rows {
			out.SalesByCategory = append(out.SalesByCategory, dto.CategorySalesDTO{Name: r.Name, TotalSales: r.TotalSales.Round(2)})
		}
		return nil
	})
	s.run(SectionTopSuppliers, func() error {
		rows, err := uc.analyticsRepo.TopSuppliersByStock(ctx, suppliersTop)
		if err != nil {
			return err
		}
		for _, r := range rows {
			out.TopSuppliers = append(out.TopSuppliers, dto.SupplierStockDTO{ID: r.SupplierID, Name: r.Name, TotalStock: r.TotalStock})
		}
		return nil
	})
	return s
}

func newStatistics() *dto.StatisticsResponse {
	return &dto.StatisticsResponse{
		InventoryValue:   decimal.Zero,
		LowStockProducts: []dto.LowStockDTO{},
		SalesByCategory:  []dto.CategorySalesDTO{},
		TopSuppliers:     []dto.SupplierStockDTO{},
		OrderHistory:     []dto.OrderLineDTO{},
	}
}

// Statistics datos de la página de estadísticas con la página pedida del historial de pedidos
// (solo proveedores y productos activos).
func (uc *StatisticsUseCase) Statistics(ctx context.Context, page int) *dto.StatisticsResponse {
	out := newStatistics()
	s := uc.aggregates(ctx, out)
	out.OrderHistoryPage = dto.NewPageMeta(1, uc.pageSize, 0)
	s.run(SectionOrderHistory, func() error {
		lines, meta, err := clampedPage(page, uc.pageSize, func(limit, offset int) ([]repository.OrderLine, int, error) {
			return uc.analyticsRepo.PurchaseOrderLines(ctx, true, limit, offset)
		})
		if err != nil {
			return err
		}
		out.OrderHistory = toOrderLines(lines)
		out.OrderHistoryPage = meta
		return nil
	})
	out.FailedSections = s.wait()
	return out
}

// Refresh recalcula los agregados para el refresco en cliente, devuelve los últimos pedidos
// y poda el historial de pedidos más allá de los más recientes.
func (uc *StatisticsUseCase) Refresh(ctx context.Context) *dto.StatisticsResponse {
	out := newStatistics()
	s := uc.aggregates(ctx, out)
	s.run(SectionOrderHistory, func() error {
		lines, total, err := uc.analyticsRepo.PurchaseOrderLines(ctx, false, uc.purchaseRetention, 0)
		if err != nil {
			return err
		}
		out.OrderHistory = toOrderLines(lines)
		out.OrderHistoryPage = dto.NewPageMeta(1, uc.purchaseRetention, total)
		return nil
	})
	failed := s.wait()

	err := uc.tx.Run(ctx, func(tx repository.Store) error {
		n, err := tx.Purchases().Prune(ctx, uc.purchaseRetention)
		out.PrunedPurchaseOrders = n
		return err
	})
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("estadísticas: poda de pedidos fallida")
		out.PrunedPurchaseOrders = 0
		failed = append(failed, SectionPurchasePrune)
	}
	out.FailedSections = failed
	return out
}

// ClientPurchaseHistory historial paginado de compras del cliente.
func (uc *StatisticsUseCase) ClientPurchaseHistory(ctx context.Context, userID string, page int) (*dto.PurchaseHistoryResponse, error) {
	lines, meta, err := clampedPage(page, uc.pageSize, func(limit, offset int) ([]repository.CustomerSaleLine, int, error) {
		return uc.analyticsRepo.CustomerSaleLines(ctx, userID, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	out := &dto.PurchaseHistoryResponse{
		Purchases:   make([]dto.CustomerSaleDTO, 0, len(lines)),
		TotalPages:  meta.TotalPages,
		CurrentPage: meta.Page,
	}
	for _, l := range lines {
		out.Purchases = append(out.Purchases, dto.CustomerSaleDTO{
			SaleID:   l.SaleID,
			Date:     l.Date.UTC().Format(dto.DateTimeLayout),
			Product:  l.Product,
			Quantity: l.Quantity,
			Price:    l.Price,
			Total:    l.Total,
		})
	}
	return out, nil
}

// SalesByDate ventas de un día (YYYY-MM-DD), paginadas. Una fecha mal formada es ErrInvalidInput.
func (uc *StatisticsUseCase) SalesByDate(ctx context.Context, date string, page int) (*dto.SalesByDateResponse, error) {
	day, err := time.ParseInLocation(dayLayout, date, time.UTC)
	if err != nil {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, "Formato de fecha inválido")
	}
	lines, meta, err := clampedPage(page, uc.pageSize, func(limit, offset int) ([]repository.DatedSaleLine, int, error) {
		return uc.analyticsRepo.SaleLinesByDate(ctx, day, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	out := &dto.SalesByDateResponse{
		Sales:       make([]dto.DatedSaleDTO, 0, len(lines)),
		TotalPages:  meta.TotalPages,
		CurrentPage: meta.Page,
	}
	for _, l := range lines {
		supplier := l.Supplier
		if supplier == "" {
			supplier = "N/A"
		}
		out.Sales = append(out.Sales, dto.DatedSaleDTO{
			SaleID:   l.SaleID,
			Date:     l.Date.UTC().Format(dto.DateTimeLayout),
			Username: l.Username,
			Email:    l.Email,
			Product:  l.Product,
			Supplier: supplier,
			Quantity: l.Quantity,
			Price:    l.Price,
			Total:    l.Total,
		})
	}
	return out, nil
}

// OrderHistory historial paginado de pedidos a proveedores activos.
func (uc *StatisticsUseCase) OrderHistory(ctx context.Context, page int) (*dto.OrderHistoryResponse, error) {
	lines, meta, err := clampedPage(page, uc.pageSize, func(limit, offset int) ([]repository.OrderLine, int, error) {
		return uc.analyticsRepo.PurchaseOrderLines(ctx, true, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	return &dto.OrderHistoryResponse{
		Orders:      toOrderLines(lines),
		TotalPages:  meta.TotalPages,
		CurrentPage: meta.Page,
	}, nil
}

// clampedPage pide la página y, si queda fuera de rango, vuelve a pedir la última válida.
func clampedPage[T any](page, size int, fetch func(limit, offset int) ([]T, int, error)) ([]T, dto.PageMeta, error) {
	if page < 1 {
		page = 1
	}
	rows, total, err := fetch(size, dto.Offset(page, size))
	if err != nil {
		return nil, dto.PageMeta{}, err
	}
	if clamped := dto.ClampPage(page, total, size); clamped != page {
		page = clamped
		if rows, total, err = fetch(size, dto.Offset(page, size)); err != nil {
			return nil, dto.PageMeta{}, err
		}
	}
	return rows, dto.NewPageMeta(page, size, total), nil
}

func toOrderLines(lines []repository.OrderLine) []dto.OrderLineDTO {
	out := make([]dto.OrderLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.OrderLineDTO{
			PurchaseID: l.PurchaseID,
			Date:       l.Date.UTC().Format(dto.DateTimeLayout),
			Supplier:   l.Supplier,
			Product:    l.Product,
			Price:      l.Price,
			Quantity:   l.Quantity,
			Total:      l.Total,
		})
	}
	return out
}
