package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/forms"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

const (
	msgDuplicateReference = "El número de referencia ya existe"
	msgDuplicateCIF       = "El CIF ya existe"
	msgInvalidCategory    = "Selecciona una categoría válida."
	msgInvalidSupplier    = "Selecciona un proveedor válido."
)

// ProductUseCase casos de uso del catálogo: listado, alta, edición y borrado lógico de productos.
// Toda escritura corre dentro de una transacción del TxRunner.
type ProductUseCase struct {
	store    repository.Store
	tx       repository.TxRunner
	pageSize int
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(store repository.Store, tx repository.TxRunner, pageSize int) *ProductUseCase {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &ProductUseCase{store: store, tx: tx, pageSize: pageSize}
}

// List devuelve una página del catálogo. Una página fuera de rango se ajusta a la última válida.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery, isAdmin bool) (*dto.ProductListResponse, error) {
	filter := repository.ProductFilter{Search: q.Search, CategoryID: q.Category, LowStock: q.LowStock}
	if filter.CategoryID != "" && !entity.ValidID(filter.CategoryID) {
		filter.CategoryID = ""
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	repo := uc.store.Products()
	products, total, err := repo.List(ctx, filter, uc.pageSize, dto.Offset(page, uc.pageSize))
	if err != nil {
		return nil, fmt.Errorf("catálogo: listar productos: %w", err)
	}
	if clamped := dto.ClampPage(page, total, uc.pageSize); clamped != page {
		page = clamped
		products, total, err = repo.List(ctx, filter, uc.pageSize, dto.Offset(page, uc.pageSize))
		if err != nil {
			return nil, fmt.Errorf("catálogo: listar productos: %w", err)
		}
	}
	categories, err := uc.Categories(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Products:   make([]dto.ProductResponse, 0, len(products)),
		Pagination: dto.NewPageMeta(page, uc.pageSize, total),
		Categories: categories,
		Search:     q.Search,
		Category:   filter.CategoryID,
		LowStock:   q.LowStock,
	}
	for _, p := range products {
		out.Products = append(out.Products, *toProductResponse(p, isAdmin))
	}
	return out, nil
}

// Get obtiene un producto activo. Los datos de stock solo se incluyen para administradores.
func (uc *ProductUseCase) Get(ctx context.Context, id string, isAdmin bool) (*dto.ProductResponse, error) {
	p, err := activeProduct(ctx, uc.store, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p, isAdmin), nil
}

// Info precio y proveedores activos del producto (/api/product_info).
func (uc *ProductUseCase) Info(ctx context.Context, id string) (*dto.ProductInfoResponse, error) {
	p, err := activeProduct(ctx, uc.store, id)
	if err != nil {
		return nil, err
	}
	return &dto.ProductInfoResponse{Price: p.Price, Suppliers: toSupplierRefs(p.Suppliers)}, nil
}

// FormOptions categorías y proveedores activos para los selectores del formulario.
func (uc *ProductUseCase) FormOptions(ctx context.Context) (*dto.ProductFormOptions, error) {
	categories, err := uc.Categories(ctx)
	if err != nil {
		return nil, err
	}
	suppliers, err := uc.store.Suppliers().ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("catálogo: listar proveedores: %w", err)
	}
	out := &dto.ProductFormOptions{Categories: categories, Suppliers: make([]dto.SupplierRefDTO, 0, len(suppliers))}
	for _, s := range suppliers {
		out.Suppliers = append(out.Suppliers, dto.SupplierRefDTO{ID: s.ID, Name: s.CompanyName})
	}
	return out, nil
}

// Create da de alta un producto. Con supplier="new" crea el proveedor en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductFormRequest) (*dto.ProductResponse, error) {
	input, err := forms.Product(in)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	product := &entity.Product{ID: entity.NewID(), CreatedAt: now}
	applyProductInput(product, input, now)

	var created *entity.Product
	err = uc.tx.Run(ctx, func(tx repository.Store) error {
		if err := checkCategory(ctx, tx, input.CategoryID); err != nil {
			return err
		}
		supplierIDs, err := resolveSupplier(ctx, tx, input, now)
		if err != nil {
			return err
		}
		if len(supplierIDs) == 0 {
			return domain.FieldError("supplier", msgInvalidSupplier)
		}
		if err := tx.Products().Create(ctx, product); err != nil {
			return mapProductError(err)
		}
		if err := tx.Products().SetSuppliers(ctx, product.ID, supplierIDs); err != nil {
			return err
		}
		created, err = tx.Products().GetByID(ctx, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(created, true), nil
}

// Update edita un producto activo. Si se elige proveedor, el conjunto de proveedores se
// reemplaza por ese único proveedor; un id desconocido lo deja vacío. Sin elección se conserva.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductFormRequest) (*dto.ProductResponse, error) {
	input, err := forms.ProductEdit(in)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	var updated *entity.Product
	err = uc.tx.Run(ctx, func(tx repository.Store) error {
		product, err := activeProduct(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := checkCategory(ctx, tx, input.CategoryID); err != nil {
			return err
		}
		applyProductInput(product, input, now)
		if err := tx.Products().Update(ctx, product); err != nil {
			return mapProductError(err)
		}
		if input.SupplierID != "" || input.NewSupplier != nil {
			supplierIDs, err := resolveSupplier(ctx, tx, input, now)
			if err != nil {
				return err
			}
			if err := tx.Products().SetSuppliers(ctx, product.ID, supplierIDs); err != nil {
				return err
			}
		}
		updated, err = tx.Products().GetByID(ctx, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(updated, true), nil
}

// Delete borra lógicamente el producto: elimina sus líneas de carrito y lo desasocia de sus proveedores.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(tx repository.Store) error {
		if _, err := activeProduct(ctx, tx, id); err != nil {
			return err
		}
		return tx.Products().SoftDelete(ctx, id, time.Now().UTC())
	})
}

// LowStock productos activos con stock <= stock mínimo, con la cantidad sugerida de reposición.
func (uc *ProductUseCase) LowStock(ctx context.Context) (*dto.LowStockResponse, error) {
	products, err := uc.store.Products().ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("catálogo: stock bajo: %w", err)
	}
	out := &dto.LowStockResponse{Products: make([]dto.ProductResponse, 0, len(products))}
	for _, p := range products {
		out.Products = append(out.Products, *toProductResponse(p, true))
	}
	return out, nil
}

// Categories lista todas las categorías por nombre.
func (uc *ProductUseCase) Categories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := uc.store.Categories().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catálogo: listar categorías: %w", err)
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// activeProduct devuelve ErrNotFound si el producto no existe o está borrado.
func activeProduct(ctx context.Context, store repository.Store, id string) (*entity.Product, error) {
	if !entity.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	p, err := store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Deleted() {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func checkCategory(ctx context.Context, tx repository.Store, id string) error {
	if !entity.ValidID(id) {
		return domain.FieldError("category", msgInvalidCategory)
	}
	c, err := tx.Categories().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.FieldError("category", msgInvalidCategory)
	}
	return nil
}

// resolveSupplier devuelve el conjunto de proveedores elegido: el creado en línea, el
// proveedor activo indicado, o vacío si el id no corresponde a ninguno.
func resolveSupplier(ctx context.Context, tx repository.Store, in *forms.ProductInput, now time.Time) ([]string, error) {
	if in.NewSupplier != nil {
		s := newSupplier(in.NewSupplier, now)
		if err := tx.Suppliers().Create(ctx, s); err != nil {
			if errors.Is(err, domain.ErrDuplicateCIF) {
				return nil, domain.FieldError("new_supplier_cif", msgDuplicateCIF)
			}
			return nil, err
		}
		return []string{s.ID}, nil
	}
	if !entity.ValidID(in.SupplierID) {
		return []string{}, nil
	}
	s, err := tx.Suppliers().GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Deleted() {
		return []string{}, nil
	}
	return []string{s.ID}, nil
}

func mapProductError(err error) error {
	if errors.Is(err, domain.ErrDuplicateReference) {
		return domain.FieldError("reference_number", msgDuplicateReference)
	}
	return err
}

func applyProductInput(p *entity.Product, in *forms.ProductInput, now time.Time) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	p.MinStock = in.MinStock
	p.Location = in.Location
	p.ReferenceNumber = in.ReferenceNumber
	p.Color = in.Color
	p.Weight = in.Weight
	p.Dimensions = in.Dimensions
	p.Manufacturer = in.Manufacturer
	p.CategoryID = in.CategoryID
	p.UpdatedAt = now
}

func toSupplierRefs(refs []entity.SupplierRef) []dto.SupplierRefDTO {
	out := make([]dto.SupplierRefDTO, 0, len(refs))
	for _, s := range refs {
		out = append(out, dto.SupplierRefDTO{ID: s.ID, Name: s.CompanyName})
	}
	return out
}

func toProductResponse(p *entity.Product, withStock bool) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		FormattedPrice:  p.FormattedPrice(),
		Location:        p.Location,
		ReferenceNumber: p.ReferenceNumber,
		Color:           p.Color,
		Weight:          p.Weight,
		FormattedWeight: p.FormattedWeight(),
		Dimensions:      p.Dimensions,
		Manufacturer:    p.Manufacturer,
		CategoryID:      p.CategoryID,
		Category:        p.CategoryName,
		Suppliers:       toSupplierRefs(p.Suppliers),
	}
	if withStock {
		stock, minStock, low, suggested := p.Stock, p.MinStock, p.IsLowStock(), p.SuggestedOrderQty()
		out.Stock = &stock
		out.MinStock = &minStock
		out.IsLowStock = &low
		out.SuggestedOrderQty = &suggested
		out.StockStatus = p.StockStatus()
	}
	return out
}
