package main

import (
	"bytes"
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/jhoicas/Suministros-api/internal/application/auth"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func newTestSeeder(db *memory.DB) *seeder {
	return &seeder{
		store: db.Store(),
		tx:    db,
		auth:  auth.NewAuthUseCase(db.Store().Users(), auth.JWTConfig{Secret: "test-secret", ExpMinutes: 5, Issuer: "test"}),
		rng:   rand.New(rand.NewPCG(42, 7)),
		now:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		log:   func(string, ...any) {},
	}
}

func TestDemo_PopulatesCatalogAndHistory(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	s := newTestSeeder(db)

	opts := defaultOptions()
	opts.Customers = 3
	opts.Products = 12
	opts.LowStock = 4
	opts.Sales = 30
	opts.Purchases = 0
	opts.SalesRetention = 5

	sum, err := s.demo(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Users)
	assert.Equal(t, len(categoryOrder), sum.Categories)
	assert.Equal(t, len(demoSuppliers), sum.Suppliers)
	assert.Equal(t, 12, sum.Products)
	assert.Positive(t, sum.Sales)

	admin, err := db.Store().Users().GetByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, admin.IsAdmin)

	products, total, err := db.Store().Products().List(ctx, repository.ProductFilter{}, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	for _, p := range products {
		assert.GreaterOrEqual(t, p.Stock, 0, p.Name)
		assert.Len(t, p.Suppliers, 1, p.Name)
		assert.True(t, strings.HasPrefix(p.ReferenceNumber, "REF"))
	}

	low, err := db.Store().Products().ListLowStock(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(low), 4)

	for i := 0; i < opts.Customers; i++ {
		u, err := db.Store().Users().GetByUsername(ctx, "user"+string(rune('0'+i)))
		require.NoError(t, err)
		require.NotNil(t, u)
		history, err := db.Store().Sales().ListByUser(ctx, u.ID)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(history), opts.SalesRetention)
		for _, row := range history {
			// ListByUser no carga las líneas
			sale, err := db.Store().Sales().GetByID(ctx, row.ID)
			require.NoError(t, err)
			require.NotNil(t, sale)
			require.NotEmpty(t, sale.Items)
			assert.True(t, sale.Total.Equal(sale.ComputeTotal()), sale.ID)
			assert.False(t, sale.Date.After(s.now))
		}
	}
}

func TestDemo_SecondRunReusesUsersAndCategories(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	s := newTestSeeder(db)

	opts := defaultOptions()
	opts.Customers = 2
	opts.Products = 3
	opts.LowStock = 1
	opts.Sales = 2
	opts.Purchases = 2

	_, err := s.demo(ctx, opts)
	require.NoError(t, err)

	sum, err := s.demo(ctx, opts)
	require.NoError(t, err)
	assert.Zero(t, sum.Users)
	assert.Zero(t, sum.Categories)
	assert.Equal(t, 2, sum.Purchases)

	cats, err := db.Store().Categories().List(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(categoryOrder))
}

func TestDemo_PurchasesRaiseStock(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	s := newTestSeeder(db)

	opts := defaultOptions()
	opts.Customers = 1
	opts.Products = 1
	opts.LowStock = 1
	opts.Sales = 0
	opts.Purchases = 3

	_, err := s.demo(ctx, opts)
	require.NoError(t, err)

	products, _, err := db.Store().Products().List(ctx, repository.ProductFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	// 3 pedidos de al menos 10 unidades sobre un stock bajo
	assert.GreaterOrEqual(t, products[0].Stock, 30)
}

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	require.NoError(t, err)
	return []byte(out)
}

func TestImportCSV_Latin1(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	s := newTestSeeder(db)

	data := latin1(t, "name,description,price,stock,min_stock,reference_number,category,manufacturer\n"+
		"Ratón óptico,Ratón USB,\"12,50\",40,5,REF90001,Periféricos,TechCorp\n"+
		"Teclado,Teclado mecánico,45.00,3,5,REF90002,Periféricos,SmartTech\n"+
		"Ratón repetido,Duplicado,9.99,1,1,REF90001,Periféricos,TechCorp\n")

	imported, skipped, err := s.importCSV(ctx, bytes.NewReader(data), charmap.ISO8859_1)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.Equal(t, 1, skipped)

	cat, err := db.Store().Categories().GetByName(ctx, "Periféricos")
	require.NoError(t, err)
	require.NotNil(t, cat)

	products, _, err := db.Store().Products().List(ctx, repository.ProductFilter{Search: "ratón"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Ratón óptico", products[0].Name)
	assert.Equal(t, "12.5", products[0].Price.String())
	assert.Equal(t, "Periféricos", products[0].CategoryName)
}

func TestImportCSV_Errors(t *testing.T) {
	ctx := context.Background()
	s := newTestSeeder(memory.New())

	_, _, err := s.importCSV(ctx, strings.NewReader("name,price\nx,1\n"), unicode.UTF8)
	assert.ErrorContains(t, err, "falta la columna")

	_, _, err = s.importCSV(ctx, strings.NewReader("name;description;price\n"), unicode.UTF8)
	assert.ErrorContains(t, err, "separador")

	header := "name,description,price,stock,min_stock,reference_number,category,manufacturer\n"
	_, _, err = s.importCSV(ctx, strings.NewReader(header+"A,B,abc,1,1,REF1,Cat,M\n"), unicode.UTF8)
	assert.ErrorContains(t, err, "línea 2")
	assert.ErrorContains(t, err, "precio inválido")
}

func TestTextDecoder(t *testing.T) {
	for _, name := range []string{"", "utf8", "UTF-8", "latin1", "ISO-8859-1", "windows1252"} {
		_, err := textDecoder(name)
		assert.NoError(t, err, name)
	}
	_, err := textDecoder("ebcdic")
	assert.Error(t, err)
}
