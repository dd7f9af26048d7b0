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

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	store    repository.Store
	tx       repository.TxRunner
	pageSize int
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(store repository.Store, tx repository.TxRunner, pageSize int) *SupplierUseCase {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &SupplierUseCase{store: store, tx: tx, pageSize: pageSize}
}

// List proveedores activos que coinciden con la búsqueda, paginados y con la página ajustada.
func (uc *SupplierUseCase) List(ctx context.Context, q dto.SupplierListQuery) (*dto.SupplierListResponse, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	repo := uc.store.Suppliers()
	suppliers, total, err := repo.List(ctx, q.Search, uc.pageSize, dto.Offset(page, uc.pageSize))
	if err != nil {
		return nil, fmt.Errorf("proveedores: listar: %w", err)
	}
	if clamped := dto.ClampPage(page, total, uc.pageSize); clamped != page {
		page = clamped
		if suppliers, total, err = repo.List(ctx, q.Search, uc.pageSize, dto.Offset(page, uc.pageSize)); err != nil {
			return nil, fmt.Errorf("proveedores: listar: %w", err)
		}
	}
	out := &dto.SupplierListResponse{
		Suppliers:  make([]dto.SupplierResponse, 0, len(suppliers)),
		Pagination: dto.NewPageMeta(page, uc.pageSize, total),
		Search:     q.Search,
	}
	for _, s := range suppliers {
		out.Suppliers = append(out.Suppliers, *toSupplierResponse(s))
	}
	return out, nil
}

// Get obtiene un proveedor activo con sus productos activos.
func (uc *SupplierUseCase) Get(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := activeSupplier(ctx, uc.store, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Create da de alta un proveedor. CIF duplicado devuelve un error del campo cif.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierFormRequest) (*dto.SupplierResponse, error) {
	input, err := forms.Supplier(in)
	if err != nil {
		return nil, err
	}
	s := newSupplier(input, time.Now().UTC())
	err = uc.tx.Run(ctx, func(tx repository.Store) error {
		return mapSupplierError(tx.Suppliers().Create(ctx, s))
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Update edita un proveedor activo.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierFormRequest) (*dto.SupplierResponse, error) {
	input, err := forms.Supplier(in)
	if err != nil {
		return nil, err
	}
	var updated *entity.Supplier
	err = uc.tx.Run(ctx, func(tx repository.Store) error {
		s, err := activeSupplier(ctx, tx, id)
		if err != nil {
			return err
		}
		applySupplierInput(s, input, time.Now().UTC())
		if err := tx.Suppliers().Update(ctx, s); err != nil {
			return mapSupplierError(err)
		}
		updated, err = tx.Suppliers().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(updated), nil
}

// Delete borra lógicamente el proveedor y lo desasocia de todos sus productos.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(tx repository.Store) error {
		if _, err := activeSupplier(ctx, tx, id); err != nil {
			return err
		}
		return tx.Suppliers().SoftDelete(ctx, id, time.Now().UTC())
	})
}

func activeSupplier(ctx context.Context, store repository.Store, id string) (*entity.Supplier, error) {
	if !entity.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	s, err := store.Suppliers().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Deleted() {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func mapSupplierError(err error) error {
	if errors.Is(err, domain.ErrDuplicateCIF) {
		return domain.FieldError("cif", msgDuplicateCIF)
	}
	return err
}

func newSupplier(in *forms.SupplierInput, now time.Time) *entity.Supplier {
	s := &entity.Supplier{ID: entity.NewID(), CreatedAt: now}
	applySupplierInput(s, in, now)
	return s
}

func applySupplierInput(s *entity.Supplier, in *forms.SupplierInput, now time.Time) {
	s.CompanyName = in.CompanyName
	s.ContactName = in.ContactName
	s.Phone = in.Phone
	s.Email = in.Email
	s.Address = in.Address
	s.City = in.City
	s.Country = in.Country
	s.PostalCode = in.PostalCode
	s.CIF = in.CIF
	s.Discount = in.Discount
	s.IVA = in.IVA
	s.PaymentMethod = in.PaymentMethod
	s.BankAccount = in.BankAccount
	s.Notes = in.Notes
	s.UpdatedAt = now
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	if s == nil {
		return nil
	}
	out := &dto.SupplierResponse{
		ID:                s.ID,
		CompanyName:       s.CompanyName,
		ContactName:       s.ContactName,
		Phone:             s.Phone,
		Email:             s.Email,
		Address:           s.Address,
		City:              s.City,
		Country:           s.Country,
		PostalCode:        s.PostalCode,
		CIF:               s.CIF,
		Discount:          s.Discount,
		IVA:               s.IVA,
		FormattedDiscount: s.FormattedDiscount(),
		FormattedIVA:      s.FormattedIVA(),
		PaymentMethod:     s.PaymentMethod,
		BankAccount:       s.BankAccount,
		Notes:             s.Notes,
	}
	for _, p := range s.Products {
		out.Products = append(out.Products, dto.SupplierProductDTO{ID: p.ID, Name: p.Name, Stock: p.Stock})
	}
	return out
}
