// Package analytics contiene los casos de uso de lectura para dashboards y estadísticas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const (
	seriesDays      = 31 // hoy y los 30 días anteriores
	topProducts     = 10
	recentPurchases = 50
	dayLayout       = "2006-01-02"
)

// DashboardUseCase genera los datos del dashboard según el rol.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: func() time.Time { return time.Now().UTC() }}
}

// window devuelve el inicio del primer día de la serie y el instante actual.
func (uc *DashboardUseCase) window() (time.Time, time.Time) {
	now := uc.now().UTC()
	first := now.AddDate(0, 0, -(seriesDays - 1))
	return time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.UTC), now
}

// Admin construye el dashboard de administrador.
//
// Cuatro consultas en paralelo:
//  1. DailySalesTotals     → serie de ventas
//  2. DailyPurchaseTotals  → serie de compras (beneficio = ventas − compras)
//  3. TopProductsByQuantity → más vendidos
//  4. TopProductsByRevenue  → más rentables
func (uc *DashboardUseCase) Admin(ctx context.Context) (*dto.DashboardResponse, error) {
	from, to := uc.window()

	type seriesResult struct {
		totals []repository.DailyTotal
		err    error
	}
	type rankResult struct {
		rows []repository.ProductSalesResult
		err  error
	}
	salesCh := make(chan seriesResult, 1)
	purchasesCh := make(chan seriesResult, 1)
	byQtyCh := make(chan rankResult, 1)
	byRevCh := make(chan rankResult, 1)

	go func() {
		t, err := uc.analyticsRepo.DailySalesTotals(ctx, from, to)
		salesCh <- seriesResult{t, err}
	}()
	go func() {
		t, err := uc.analyticsRepo.DailyPurchaseTotals(ctx, from, to)
		purchasesCh <- seriesResult{t, err}
	}()
	go func() {
		r, err := uc.analyticsRepo.TopProductsByQuantity(ctx, "", topProducts)
		byQtyCh <- rankResult{r, err}
	}()
	go func() {
		r, err := uc.analyticsRepo.TopProductsByRevenue(ctx, topProducts)
		byRevCh <- rankResult{r, err}
	}()

	sales := <-salesCh
	purchases := <-purchasesCh
	byQty := <-byQtyCh
	byRev := <-byRevCh

	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas diarias: %w", sales.err)
	}
	if purchases.err != nil {
		return nil, fmt.Errorf("dashboard: compras diarias: %w", purchases.err)
	}
	if byQty.err != nil {
		return nil, fmt.Errorf("dashboard: más vendidos: %w", byQty.err)
	}
	if byRev.err != nil {
		return nil, fmt.Errorf("dashboard: más rentables: %w", byRev.err)
	}

	salesSeries := fillSeries(from, sales.totals)
	purchaseSeries := fillSeries(from, purchases.totals)
	profit := make([]decimal.Decimal, seriesDays)
	for i := range profit {
		profit[i] = salesSeries[i].Sub(purchaseSeries[i])
	}
	return &dto.DashboardResponse{
		Role: entity.RoleAdmin,
		Chart: dto.ChartData{
			Labels:    seriesLabels(from),
			Sales:     salesSeries,
			Purchases: purchaseSeries,
			Profit:    profit,
		},
		TopSelling:    toRanks(byQty.rows),
		TopProfitable: toRanks(byRev.rows),
	}, nil
}

// Customer construye el dashboard de un cliente: sus compras recientes, su gasto diario,
// sus productos más comprados y los más vendidos de la tienda.
func (uc *DashboardUseCase) Customer(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	from, to := uc.window()

	type recentResult struct {
		rows []repository.RecentSaleLine
		err  error
	}
	type seriesResult struct {
		totals []repository.DailyTotal
		err    error
	}
	type rankResult struct {
		rows []repository.ProductSalesResult
		err  error
	}
	recentCh := make(chan recentResult, 1)
	spendCh := make(chan seriesResult, 1)
	mineCh := make(chan rankResult, 1)
	globalCh := make(chan rankResult, 1)

	go func() {
		r, err := uc.analyticsRepo.RecentSaleLines(ctx, userID, recentPurchases)
		recentCh <- recentResult{r, err}
	}()
	go func() {
		t, err := uc.analyticsRepo.DailyUserSpend(ctx, userID, from, to)
		spendCh <- seriesResult{t, err}
	}()
	go func() {
		r, err := uc.analyticsRepo.TopProductsByQuantity(ctx, userID, topProducts)
		mineCh <- rankResult{r, err}
	}()
	go func() {
		r, err := uc.analyticsRepo.TopProductsByQuantity(ctx, "", topProducts)
		globalCh <- rankResult{r, err}
	}()

	recent := <-recentCh
	spend := <-spendCh
	mine := <-mineCh
	global := <-globalCh

	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: compras recientes: %w", recent.err)
	}
	if spend.err != nil {
		return nil, fmt.Errorf("dashboard: gasto diario: %w", spend.err)
	}
	if mine.err != nil {
		return nil, fmt.Errorf("dashboard: mis productos: %w", mine.err)
	}
	if global.err != nil {
		return nil, fmt.Errorf("dashboard: más vendidos: %w", global.err)
	}

	out := &dto.DashboardResponse{
		Role: entity.RoleCustomer,
		Chart: dto.ChartData{
			Labels: seriesLabels(from),
			Spend:  fillSeries(from, spend.totals),
		},
		TopSelling:      toRanks(global.rows),
		MyTopProducts:   toRanks(mine.rows),
		RecentPurchases: make([]dto.RecentPurchaseDTO, 0, len(recent.rows)),
	}
	for _, r := range recent.rows {
		out.RecentPurchases = append(out.RecentPurchases, dto.RecentPurchaseDTO{
			SaleID:    r.SaleID,
			ProductID: r.ProductID,
			Product:   r.ProductName,
			Price:     r.Price,
			Quantity:  r.Quantity,
			Date:      r.Date.UTC().Format(dto.DateTimeLayout),
			Total:     r.SaleTotal,
		})
	}
	return out, nil
}

// fillSeries reparte los totales diarios en seriesDays posiciones; los días sin datos quedan en cero.
func fillSeries(from time.Time, totals []repository.DailyTotal) []decimal.Decimal {
	byDay := make(map[string]decimal.Decimal, len(totals))
	for _, t := range totals {
		key := t.Day.UTC().Format(dayLayout)
		byDay[key] = byDay[key].Add(t.Total)
	}
	out := make([]decimal.Decimal, seriesDays)
	for i := range out {
		out[i] = byDay[from.AddDate(0, 0, i).Format(dayLayout)].Round(2)
	}
	return out
}

func seriesLabels(from time.Time) []string {
	labels := make([]string, seriesDays)
	for i := range labels {
		labels[i] = from.AddDate(0, 0, i).Format(dayLayout)
	}
	return labels
}

func toRanks(rows []repository.ProductSalesResult) []dto.ProductRankDTO {
	out := make([]dto.ProductRankDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ProductRankDTO{
			ProductID: r.ProductID,
			Name:      r.Name,
			Quantity:  r.Quantity,
			Revenue:   r.Revenue.Round(2),
		})
	}
	return out
}
