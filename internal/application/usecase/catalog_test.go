package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/forms"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db        *memory.DB
	products  *ProductUseCase
	suppliers *SupplierUseCase
	category  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.New()
	cat := &entity.Category{ID: entity.NewID(), Name: "Ferretería"}
	require.NoError(t, db.Store().Categories().Create(context.Background(), cat))
	return &fixture{
		db:        db,
		products:  NewProductUseCase(db.Store(), db, 10),
		suppliers: NewSupplierUseCase(db.Store(), db, 10),
		category:  cat.ID,
	}
}

func supplierForm(name, cif string) dto.SupplierFormRequest {
	return dto.SupplierFormRequest{
		CompanyName: name, ContactName: "Contacto", Phone: "600000000", Email: "ventas@example.com",
		Address: "Calle 1", City: "Madrid", Country: "España", PostalCode: "28001", CIF: cif, Discount: "10",
	}
}

func (f *fixture) supplier(t *testing.T, name, cif string) string {
	t.Helper()
	s, err := f.suppliers.Create(context.Background(), supplierForm(name, cif))
	require.NoError(t, err)
	return s.ID
}

func (f *fixture) productForm(name, ref, supplierID string) dto.ProductFormRequest {
	return dto.ProductFormRequest{
		Name: name, Price: "10.00", Stock: "5", MinStock: "2", ReferenceNumber: ref,
		Category: f.category, Manufacturer: "ACME", Supplier: supplierID,
	}
}

func (f *fixture) product(t *testing.T, name, ref, supplierID string) *dto.ProductResponse {
	t.Helper()
	p, err := f.products.Create(context.Background(), f.productForm(name, ref, supplierID))
	require.NoError(t, err)
	return p
}

func requireFieldError(t *testing.T, err error, field, msg string) {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "se esperaba ValidationError, got %v", err)
	assert.Contains(t, ve.Fields[field], msg)
}

func TestProductList_PageClamp(t *testing.T) {
	f := newFixture(t)
	sup := f.supplier(t, "Proveedor Uno", "B0001")
	for i := 0; i < 25; i++ {
		f.product(t, fmt.Sprintf("Producto %02d", i), fmt.Sprintf("REF%02d", i), sup)
	}
	ctx := context.Background()

	res, err := f.products.List(ctx, dto.ProductListQuery{Page: 99}, true)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pagination.Page)
	assert.Equal(t, 3, res.Pagination.TotalPages)
	require.Len(t, res.Products, 5)
	assert.Equal(t, "Producto 20", res.Products[0].Name)

	res, err = f.products.List(ctx, dto.ProductListQuery{Page: 0}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pagination.Page)
	assert.Len(t, res.Products, 10)

	res, err = f.products.List(ctx, dto.ProductListQuery{Page: 4, Search: "no existe"}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pagination.Page)
	assert.Empty(t, res.Products)
	assert.Len(t, res.Categories, 1)
}

func TestProductList_HugePageClampsToLast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.products.List(ctx, dto.ProductListQuery{Page: 1_000_000_000_000_000_000}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pagination.Page)
	assert.Empty(t, res.Products)

	sup := f.supplier(t, "Proveedor Uno", "B0001")
	for i := 0; i < 12; i++ {
		f.product(t, fmt.Sprintf("Producto %02d", i), fmt.Sprintf("REF%02d", i), sup)
	}
	res, err = f.products.List(ctx, dto.ProductListQuery{Page: 1_000_000_000_000_000_000}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pagination.Page)
	assert.Len(t, res.Products, 2)
}

func TestProductList_FiltersAndStockVisibility(t *testing.T) {
	f := newFixture(t)
	sup := f.supplier(t, "Proveedor Uno", "B0001")
	f.product(t, "Martillo", "REF1", sup)
	low := f.productForm("Destornillador", "REF2", sup)
	low.Stock, low.MinStock = "1", "3"
	_, err := f.products.Create(context.Background(), low)
	require.NoError(t, err)
	ctx := context.Background()

	res, err := f.products.List(ctx, dto.ProductListQuery{LowStock: true}, true)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Destornillador", res.Products[0].Name)
	assert.True(t, *res.Products[0].IsLowStock)

	res, err = f.products.List(ctx, dto.ProductListQuery{Search: "MARTI"}, false)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Nil(t, res.Products[0].Stock)
	assert.Nil(t, res.Products[0].MinStock)

	lowList, err := f.products.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, lowList.Products, 1)
	assert.Equal(t, 4, *lowList.Products[0].SuggestedOrderQty)
}

func TestProductCreate_DuplicateReference(t *testing.T) {
	f := newFixture(t)
	sup := f.supplier(t, "Proveedor Uno", "B0001")
	first := f.product(t, "Primero", "REF12345", sup)

	_, err := f.products.Create(context.Background(), f.productForm("Segundo", "REF12345", sup))
	requireFieldError(t, err, "reference_number", "El número de referencia ya existe")

	got, err := f.products.Get(context.Background(), first.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Primero", got.Name)
	res, err := f.products.List(context.Background(), dto.ProductListQuery{}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pagination.Total)
}

func TestProductCreate_InlineSupplier(t *testing.T) {
	f := newFixture(t)
	f.supplier(t, "Existente", "B0001")
	ctx := context.Background()

	form := f.productForm("Taladro", "REF-T", forms.NewSupplierChoice)
	form.NewSupplier = dto.SupplierFormRequest{CompanyName: "Proveedor Nuevo", CIF: "B0002", Discount: "5"}
	p, err := f.products.Create(ctx, form)
	require.NoError(t, err)
	require.Len(t, p.Suppliers, 1)
	assert.Equal(t, "Proveedor Nuevo", p.Suppliers[0].Name)

	// CIF duplicado: no se crea ni el proveedor ni el producto
	form = f.productForm("Sierra", "REF-S", forms.NewSupplierChoice)
	form.NewSupplier = dto.SupplierFormRequest{CompanyName: "Otro Proveedor", CIF: "B0001"}
	_, err = f.products.Create(ctx, form)
	requireFieldError(t, err, "new_supplier_cif", "El CIF ya existe")

	res, err := f.products.List(ctx, dto.ProductListQuery{Search: "Sierra"}, true)
	require.NoError(t, err)
	assert.Empty(t, res.Products)
	suppliers, err := f.suppliers.List(ctx, dto.SupplierListQuery{Search: "Otro"})
	require.NoError(t, err)
	assert.Empty(t, suppliers.Suppliers)
}

func TestProductCreate_InvalidReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.products.Create(ctx, f.productForm("X", "R1", "no-es-uuid"))
	requireFieldError(t, err, "supplier", msgInvalidSupplier)

	form := f.productForm("X", "R1", f.supplier(t, "Proveedor", "B1"))
	form.Category = entity.NewID()
	_, err = f.products.Create(ctx, form)
	requireFieldError(t, err, "category", msgInvalidCategory)
}

func TestProductUpdate_ReplacesSupplierSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.supplier(t, "Proveedor A", "BA")
	b := f.supplier(t, "Proveedor B", "BB")
	p := f.product(t, "Llave", "REF-L", a)

	form := f.productForm("Llave inglesa", "REF-L", b)
	got, err := f.products.Update(ctx, p.ID, form)
	require.NoError(t, err)
	assert.Equal(t, "Llave inglesa", got.Name)
	require.Len(t, got.Suppliers, 1)
	assert.Equal(t, b, got.Suppliers[0].ID)

	// sin elección se conserva
	form.Supplier = ""
	got, err = f.products.Update(ctx, p.ID, form)
	require.NoError(t, err)
	require.Len(t, got.Suppliers, 1)

	// id desconocido vacía el conjunto
	form.Supplier = entity.NewID()
	got, err = f.products.Update(ctx, p.ID, form)
	require.NoError(t, err)
	assert.Empty(t, got.Suppliers)

	_, err = f.products.Update(ctx, entity.NewID(), form)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductDelete_SoftDeleteSymmetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sup := f.supplier(t, "Proveedor", "B1")
	gone := f.product(t, "Borrado", "REF-B", sup)
	kept := f.product(t, "Conservado", "REF-C", sup)

	user := &entity.User{ID: entity.NewID(), Username: "cliente", Email: "c@example.com"}
	require.NoError(t, f.db.Store().Users().Create(ctx, user))
	require.NoError(t, f.db.Store().Cart().Create(ctx, &entity.CartItem{ID: entity.NewID(), UserID: user.ID, ProductID: gone.ID, Quantity: 1}))

	require.NoError(t, f.products.Delete(ctx, gone.ID))
	assert.ErrorIs(t, f.products.Delete(ctx, gone.ID), domain.ErrNotFound)

	_, err := f.products.Get(ctx, gone.ID, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	s, err := f.suppliers.Get(ctx, sup)
	require.NoError(t, err)
	require.Len(t, s.Products, 1)
	assert.Equal(t, kept.ID, s.Products[0].ID)

	lines, err := f.db.Store().Cart().ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestProductInfo(t *testing.T) {
	f := newFixture(t)
	sup := f.supplier(t, "Proveedor", "B1")
	p := f.product(t, "Martillo", "REF1", sup)

	info, err := f.products.Info(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "10", info.Price.String())
	assert.Equal(t, []dto.SupplierRefDTO{{ID: sup, Name: "Proveedor"}}, info.Suppliers)

	_, err = f.products.Info(context.Background(), "123")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
