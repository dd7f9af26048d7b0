//go:build integration

package postgres

import (
	"context"
	"net/url"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/jhoicas/Suministros-api/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ejecutar con: DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/

// openTestDB abre un pool contra un esquema propio del test (search_path) y aplica las migraciones.
// La zona horaria de la sesión no es UTC para comprobar que las agrupaciones por día no dependen de ella.
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL no definido")
	}
	u, err := url.Parse(dsn)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		t.Skip("DATABASE_URL debe tener formato postgres://")
	}
	ctx := context.Background()

	admin, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	schema := "it_" + strings.ReplaceAll(entity.NewID(), "-", "")[:12]
	_, err = admin.Exec(ctx, `CREATE SCHEMA `+schema)
	require.NoError(t, err)

	q := u.Query()
	q.Set("search_path", schema)
	q.Set("timezone", "America/Bogota")
	u.RawQuery = q.Encode()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: u.String()})
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		_, _ = admin.Exec(context.Background(), `DROP SCHEMA `+schema+` CASCADE`)
		admin.Close()
	})

	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Migrate(ctx, pool), "el esquema debe poder aplicarse dos veces")
	return pool
}

type seedRows struct {
	user     *entity.User
	supplier *entity.Supplier
	product  *entity.Product
}

func seedCatalog(t *testing.T, store *Store) seedRows {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	user := &entity.User{ID: entity.NewID(), Username: "cliente", Email: "cliente@example.com", PasswordHash: "x", CreatedAt: now}
	require.NoError(t, store.Users().Create(ctx, user))
	cat := &entity.Category{ID: entity.NewID(), Name: "Ferretería"}
	require.NoError(t, store.Categories().Create(ctx, cat))
	sup := &entity.Supplier{ID: entity.NewID(), CompanyName: "Proveedor", CIF: "B0001", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Suppliers().Create(ctx, sup))
	p := &entity.Product{
		ID: entity.NewID(), Name: "Martillo", Price: decimal.RequireFromString("12.50"), Stock: 10, MinStock: 2,
		ReferenceNumber: "REF00001", CategoryID: cat.ID, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.Products().Create(ctx, p))
	return seedRows{user: user, supplier: sup, product: p}
}

func newSale(userID, productID string, at time.Time, qty int) *entity.Sale {
	s := &entity.Sale{ID: entity.NewID(), UserID: userID, Date: at, PaymentMethod: "card"}
	s.Items = []entity.SaleItem{{ID: entity.NewID(), ProductID: productID, Quantity: qty, Price: decimal.NewFromInt(10)}}
	s.Total = s.ComputeTotal()
	return s
}

func TestIntegration_SalePruneUserKeepsNewest(t *testing.T) {
	pool := openTestDB(t)
	store := NewStore(pool)
	rows := seedCatalog(t, store)
	ctx := context.Background()

	t0 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	oldest := newSale(rows.user.ID, rows.product.ID, t0, 1)
	tieA := newSale(rows.user.ID, rows.product.ID, t0.Add(time.Hour), 1)
	tieB := newSale(rows.user.ID, rows.product.ID, t0.Add(time.Hour), 2)
	newest := newSale(rows.user.ID, rows.product.ID, t0.Add(2*time.Hour), 3)
	for _, s := range []*entity.Sale{oldest, tieA, tieB, newest} {
		require.NoError(t, store.Sales().Create(ctx, s))
	}

	// a igual fecha gana el id mayor
	ties := []string{tieA.ID, tieB.ID}
	sort.Strings(ties)
	keptTie := ties[1]

	n, err := store.Sales().PruneUser(ctx, rows.user.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, err := store.Sales().ListByUser(ctx, rows.user.ID)
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, newest.ID, left[0].ID)
	assert.Equal(t, keptTie, left[1].ID)

	var items int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM sale_items`).Scan(&items))
	assert.Equal(t, 2, items, "las líneas de las ventas borradas caen por cascada")

	sale, err := store.Sales().GetByID(ctx, newest.ID)
	require.NoError(t, err)
	require.NotNil(t, sale)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Martillo", sale.Items[0].ProductName)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(30)))
}

func TestIntegration_PurchasePrune(t *testing.T) {
	pool := openTestDB(t)
	store := NewStore(pool)
	rows := seedCatalog(t, store)
	ctx := context.Background()

	t0 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		p := &entity.Purchase{ID: entity.NewID(), SupplierID: rows.supplier.ID, Date: t0.Add(time.Duration(i) * time.Hour)}
		p.Items = []entity.PurchaseItem{{ID: entity.NewID(), ProductID: rows.product.ID, Quantity: 5, Price: decimal.NewFromInt(4)}}
		p.Total = p.ComputeTotal()
		require.NoError(t, store.Purchases().Create(ctx, p))
		ids = append(ids, p.ID)
	}

	n, err := store.Purchases().Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	kept, err := store.Purchases().GetByID(ctx, ids[2])
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Equal(t, "Proveedor", kept.SupplierName)
	require.Len(t, kept.Items, 1)
	assert.Equal(t, "REF00001", kept.Items[0].Reference)

	gone, err := store.Purchases().GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Nil(t, gone)

	var items int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM purchase_items`).Scan(&items))
	assert.Equal(t, 1, items)
}

func TestIntegration_GetForUpdateBlocksSecondWriter(t *testing.T) {
	pool := openTestDB(t)
	rows := seedCatalog(t, NewStore(pool))
	runner := NewTxRunner(pool)
	ctx := context.Background()

	err := runner.Run(ctx, func(tx repository.Store) error {
		p, err := tx.Products().GetForUpdate(ctx, rows.product.ID)
		require.NoError(t, err)
		require.NotNil(t, p)

		short, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		start := time.Now()
		blocked := runner.Run(short, func(other repository.Store) error {
			_, err := other.Products().GetForUpdate(short, rows.product.ID)
			return err
		})
		assert.Error(t, blocked, "la fila está bloqueada por la primera transacción")
		assert.GreaterOrEqual(t, time.Since(start), 250*time.Millisecond)

		return tx.Products().AdjustStock(ctx, rows.product.ID, -3)
	})
	require.NoError(t, err)

	// liberado el bloqueo la segunda transacción ve el stock confirmado
	err = runner.Run(ctx, func(tx repository.Store) error {
		p, err := tx.Products().GetForUpdate(ctx, rows.product.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, p.Stock)
		return nil
	})
	require.NoError(t, err)
}

func TestIntegration_DailySalesTotalsGroupsByUTCDay(t *testing.T) {
	pool := openTestDB(t)
	store := NewStore(pool)
	rows := seedCatalog(t, store)
	ctx := context.Background()

	madrid := time.FixedZone("CEST", 2*60*60)
	// 01:30 en Madrid sigue siendo el 30 en UTC
	late := newSale(rows.user.ID, rows.product.ID, time.Date(2026, 5, 31, 1, 30, 0, 0, madrid), 1)
	early := newSale(rows.user.ID, rows.product.ID, time.Date(2026, 5, 31, 0, 30, 0, 0, time.UTC), 2)
	noon := newSale(rows.user.ID, rows.product.ID, time.Date(2026, 5, 31, 12, 0, 0, 0, time.UTC), 3)
	for _, s := range []*entity.Sale{late, early, noon} {
		require.NoError(t, store.Sales().Create(ctx, s))
	}

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 31, 23, 59, 59, 0, time.UTC)
	got, err := NewAnalyticsRepository(pool).DailySalesTotals(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, time.Date(2026, 5, 30, 0, 0, 0, 0, time.UTC), got[0].Day)
	assert.True(t, got[0].Total.Equal(decimal.NewFromInt(10)), got[0].Total.String())
	assert.Equal(t, time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), got[1].Day)
	assert.True(t, got[1].Total.Equal(decimal.NewFromInt(50)), got[1].Total.String())

	spend, err := NewAnalyticsRepository(pool).DailyUserSpend(ctx, rows.user.ID, from, to)
	require.NoError(t, err)
	require.Len(t, spend, 2)
	assert.True(t, spend[1].Total.Equal(decimal.NewFromInt(50)))
}
