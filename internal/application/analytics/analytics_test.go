package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db       *memory.DB
	user     *entity.User
	product  *entity.Product
	supplier *entity.Supplier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := memory.New()
	store := db.Store()
	now := time.Now().UTC()

	user := &entity.User{ID: entity.NewID(), Username: "cliente", Email: "cliente@example.com", CreatedAt: now}
	admin := &entity.User{ID: entity.NewID(), Username: "admin", Email: "admin@example.com", IsAdmin: true, CreatedAt: now}
	require.NoError(t, store.Users().Create(ctx, user))
	require.NoError(t, store.Users().Create(ctx, admin))
	cat := &entity.Category{ID: entity.NewID(), Name: "Herramientas"}
	require.NoError(t, store.Categories().Create(ctx, cat))
	sup := &entity.Supplier{ID: entity.NewID(), CompanyName: "Proveedor Norte", CIF: "B1", CreatedAt: now}
	require.NoError(t, store.Suppliers().Create(ctx, sup))
	p := &entity.Product{
		ID: entity.NewID(), Name: "Martillo", Price: decimal.RequireFromString("10.00"), Stock: 2, MinStock: 5,
		ReferenceNumber: "REF1", CategoryID: cat.ID, CreatedAt: now,
	}
	require.NoError(t, store.Products().Create(ctx, p))
	require.NoError(t, store.Products().AddSupplier(ctx, p.ID, sup.ID))
	return &fixture{db: db, user: user, product: p, supplier: sup}
}

func (f *fixture) sale(t *testing.T, at time.Time, qty int, withSupplier bool) {
	t.Helper()
	item := entity.SaleItem{ID: entity.NewID(), ProductID: f.product.ID, Quantity: qty, Price: f.product.Price}
	if withSupplier {
		id := f.supplier.ID
		item.SupplierID = &id
	}
	s := &entity.Sale{ID: entity.NewID(), UserID: f.user.ID, Date: at, Items: []entity.SaleItem{item}}
	s.Total = s.ComputeTotal()
	require.NoError(t, f.db.Store().Sales().Create(context.Background(), s))
}

func (f *fixture) purchase(t *testing.T, at time.Time, qty int) *entity.Purchase {
	t.Helper()
	p := &entity.Purchase{
		ID: entity.NewID(), SupplierID: f.supplier.ID, Date: at,
		Items: []entity.PurchaseItem{{ID: entity.NewID(), ProductID: f.product.ID, Quantity: qty, Price: decimal.RequireFromString("8.00")}},
	}
	p.Total = p.ComputeTotal()
	require.NoError(t, f.db.Store().Purchases().Create(context.Background(), p))
	return p
}

func TestAdminDashboard_NoSalesGives31ZeroPoints(t *testing.T) {
	f := newFixture(t)
	res, err := NewDashboardUseCase(f.db.Analytics()).Admin(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Chart.Labels, 31)
	require.Len(t, res.Chart.Sales, 31)
	require.Len(t, res.Chart.Purchases, 31)
	require.Len(t, res.Chart.Profit, 31)
	for i := 0; i < 31; i++ {
		assert.True(t, res.Chart.Sales[i].IsZero())
		assert.True(t, res.Chart.Profit[i].IsZero())
	}
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), res.Chart.Labels[30])
	assert.Empty(t, res.TopSelling)
}

func TestAdminDashboard_SeriesAndRankings(t *testing.T) {
	f := newFixture(t)
	fixed := time.Date(2026, 5, 31, 15, 0, 0, 0, time.UTC)
	f.sale(t, fixed.Add(-time.Hour), 3, true)     // hoy: 30
	f.sale(t, fixed.AddDate(0, 0, -2), 1, false)  // hace 2 días: 10
	f.sale(t, fixed.AddDate(0, 0, -40), 5, false) // fuera de la ventana
	f.purchase(t, fixed.Add(-2*time.Hour), 2)     // hoy: 16

	uc := NewDashboardUseCase(f.db.Analytics())
	uc.now = func() time.Time { return fixed }
	res, err := uc.Admin(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-05-01", res.Chart.Labels[0])
	assert.True(t, res.Chart.Sales[30].Equal(decimal.NewFromInt(30)))
	assert.True(t, res.Chart.Purchases[30].Equal(decimal.NewFromInt(16)))
	assert.True(t, res.Chart.Profit[30].Equal(decimal.NewFromInt(14)))
	assert.True(t, res.Chart.Sales[28].Equal(decimal.NewFromInt(10)))

	require.Len(t, res.TopSelling, 1)
	assert.Equal(t, 9, res.TopSelling[0].Quantity)
	require.Len(t, res.TopProfitable, 1)
	assert.True(t, res.TopProfitable[0].Revenue.Equal(decimal.NewFromInt(90)))
}

func TestAdminDashboard_RankingsSkipDeletedProducts(t *testing.T) {
	f := newFixture(t)
	fixed := time.Date(2026, 5, 31, 15, 0, 0, 0, time.UTC)
	f.sale(t, fixed.Add(-time.Hour), 4, true)
	require.NoError(t, f.db.Store().Products().SoftDelete(context.Background(), f.product.ID, fixed))

	uc := NewDashboardUseCase(f.db.Analytics())
	uc.now = func() time.Time { return fixed }
	res, err := uc.Admin(context.Background())
	require.NoError(t, err)

	// la venta sigue contando en la serie diaria, pero el producto sale de los rankings
	assert.True(t, res.Chart.Sales[30].Equal(decimal.NewFromInt(40)))
	assert.Empty(t, res.TopSelling)
	assert.Empty(t, res.TopProfitable)
}

func TestCustomerDashboard(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()
	f.sale(t, now.Add(-time.Minute), 2, true)
	f.sale(t, now.Add(-2*time.Minute), 1, false)

	res, err := NewDashboardUseCase(f.db.Analytics()).Customer(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, res.Role)
	require.Len(t, res.RecentPurchases, 2)
	assert.Equal(t, 2, res.RecentPurchases[0].Quantity)
	assert.Len(t, res.Chart.Spend, 31)
	assert.True(t, res.Chart.Spend[30].Equal(decimal.NewFromInt(30)))
	require.Len(t, res.MyTopProducts, 1)
	assert.Equal(t, 3, res.MyTopProducts[0].Quantity)

	other, err := NewDashboardUseCase(f.db.Analytics()).Customer(context.Background(), entity.NewID())
	require.NoError(t, err)
	assert.Empty(t, other.RecentPurchases)
	assert.Len(t, other.TopSelling, 1)
}

// failingAnalytics falla en las secciones indicadas.
type failingAnalytics struct {
	repository.AnalyticsRepository
}

func (failingAnalytics) InventoryValue(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("timeout")
}

func (failingAnalytics) SalesByCategory(context.Context, int) ([]repository.CategorySalesResult, error) {
	return nil, errors.New("timeout")
}

func TestStatistics(t *testing.T) {
	f := newFixture(t)
	f.sale(t, time.Now().UTC(), 1, true)
	f.purchase(t, time.Now().UTC(), 3)
	uc := NewStatisticsUseCase(f.db.Analytics(), f.db.Store(), f.db, 10, 50)

	res := uc.Statistics(context.Background(), 1)
	assert.Empty(t, res.FailedSections)
	assert.Equal(t, 1, res.TotalProducts)
	assert.Equal(t, 1, res.TotalSuppliers)
	assert.Equal(t, 1, res.TotalUsers)
	assert.True(t, res.InventoryValue.Equal(decimal.NewFromInt(20)))
	require.Len(t, res.LowStockProducts, 1)
	assert.Equal(t, 5, res.LowStockProducts[0].MinStock)
	require.Len(t, res.SalesByCategory, 1)
	assert.Equal(t, "Herramientas", res.SalesByCategory[0].Name)
	require.Len(t, res.TopSuppliers, 1)
	assert.Equal(t, 2, res.TopSuppliers[0].TotalStock)
	require.Len(t, res.OrderHistory, 1)
	assert.Equal(t, "Proveedor Norte", res.OrderHistory[0].Supplier)
}

func TestStatistics_SectionFailuresAreIsolated(t *testing.T) {
	f := newFixture(t)
	uc := NewStatisticsUseCase(failingAnalytics{f.db.Analytics()}, f.db.Store(), f.db, 10, 50)

	res := uc.Statistics(context.Background(), 1)
	assert.Equal(t, []string{SectionInventoryValue, SectionSalesByCategory}, res.FailedSections)
	assert.True(t, res.InventoryValue.IsZero())
	assert.NotNil(t, res.SalesByCategory)
	assert.Empty(t, res.SalesByCategory)
	assert.Equal(t, 1, res.TotalProducts)
	assert.Len(t, res.LowStockProducts, 1)
}

func TestRefresh_PrunesPurchaseHistory(t *testing.T) {
	f := newFixture(t)
	base := time.Now().UTC().Add(-time.Hour)
	var newest *entity.Purchase
	for i := 0; i < 55; i++ {
		p := f.purchase(t, base.Add(-time.Duration(i)*time.Minute), 1)
		if i == 0 {
			newest = p
		}
	}
	uc := NewStatisticsUseCase(f.db.Analytics(), f.db.Store(), f.db, 10, 50)

	res := uc.Refresh(context.Background())
	assert.Empty(t, res.FailedSections)
	assert.Len(t, res.OrderHistory, 50)
	assert.Equal(t, newest.ID, res.OrderHistory[0].PurchaseID)
	assert.Equal(t, 5, res.PrunedPurchaseOrders)

	history, err := uc.OrderHistory(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, 5, history.TotalPages)
	assert.Equal(t, 5, history.CurrentPage)
	assert.Len(t, history.Orders, 10)
}

func TestOrderHistory_HugePageClampsToLast(t *testing.T) {
	f := newFixture(t)
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		f.purchase(t, base.Add(-time.Duration(i)*time.Minute), 1)
	}
	uc := NewStatisticsUseCase(f.db.Analytics(), f.db.Store(), f.db, 10, 50)

	history, err := uc.OrderHistory(context.Background(), 1_000_000_000_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, 2, history.CurrentPage)
	assert.Len(t, history.Orders, 2)
}

func TestSalesByDateAndClientHistory(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		f.sale(t, day.Add(time.Duration(i)*time.Hour), 1, i%2 == 0)
	}
	uc := NewStatisticsUseCase(f.db.Analytics(), f.db.Store(), f.db, 10, 50)
	ctx := context.Background()

	_, err := uc.SalesByDate(ctx, "14-02-2026", 1)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	var be *domain.BusinessError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "Formato de fecha inválido", be.Message)

	res, err := uc.SalesByDate(ctx, "2026-02-14", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 2, res.CurrentPage)
	require.Len(t, res.Sales, 2)
	assert.Equal(t, "cliente", res.Sales[0].Username)
	// hora 1 sin proveedor, hora 0 con proveedor
	assert.Equal(t, "N/A", res.Sales[0].Supplier)
	assert.Equal(t, "Proveedor Norte", res.Sales[1].Supplier)
	assert.Equal(t, "2026-02-14 00:00:00", res.Sales[1].Date)

	empty, err := uc.SalesByDate(ctx, "2026-02-15", 3)
	require.NoError(t, err)
	assert.Empty(t, empty.Sales)
	assert.Equal(t, 1, empty.CurrentPage)

	hist, err := uc.ClientPurchaseHistory(ctx, f.user.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, hist.TotalPages)
	assert.Len(t, hist.Purchases, 10)
	assert.Equal(t, fmt.Sprintf("2026-02-14 %02d:00:00", 11), hist.Purchases[0].Date)
}
