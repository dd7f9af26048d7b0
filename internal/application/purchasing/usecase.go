// Package purchasing contiene los pedidos de reposición a proveedores.
package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/forms"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/jhoicas/Suministros-api/pkg/logger"
)

// MsgNotified mensaje de éxito de la notificación a proveedor.
const MsgNotified = "Notificación enviada y stock actualizado"

// PurchaseOrderBuilder construye el documento XML de un pedido y su digest canónico.
type PurchaseOrderBuilder interface {
	BuildPurchaseOrder(purchase *entity.Purchase, supplier *entity.Supplier) (*dto.PurchaseOrderDocument, error)
}

// PurchasingUseCase registra pedidos a proveedores.
type PurchasingUseCase struct {
	store   repository.Store
	tx      repository.TxRunner
	builder PurchaseOrderBuilder
}

// NewPurchasingUseCase construye el caso de uso.
func NewPurchasingUseCase(store repository.Store, tx repository.TxRunner, builder PurchaseOrderBuilder) *PurchasingUseCase {
	return &PurchasingUseCase{store: store, tx: tx, builder: builder}
}

// NotifySupplier crea un pedido de una línea al precio con descuento del proveedor y suma
// la cantidad al stock del producto en la misma transacción.
func (uc *PurchasingUseCase) NotifySupplier(ctx context.Context, in dto.NotifySupplierRequest) (*dto.NotifySupplierResponse, error) {
	input, err := forms.NotifySupplier(in)
	if err != nil {
		return nil, err
	}
	var purchaseID string
	err = uc.tx.Run(ctx, func(tx repository.Store) error {
		product, err := activeProduct(ctx, tx, input.ProductID)
		if err != nil {
			return err
		}
		supplier, err := activeSupplier(ctx, tx, input.SupplierID)
		if err != nil {
			return err
		}
		purchase := &entity.Purchase{
			ID:         entity.NewID(),
			SupplierID: supplier.ID,
			Date:       time.Now().UTC(),
			Message:    input.Message,
			Items: []entity.PurchaseItem{{
				ID:        entity.NewID(),
				ProductID: product.ID,
				Quantity:  input.Quantity,
				Price:     supplier.DiscountedPrice(product.Price),
			}},
		}
		purchase.Items[0].PurchaseID = purchase.ID
		purchase.Total = purchase.ComputeTotal()
		if err := tx.Purchases().Create(ctx, purchase); err != nil {
			return fmt.Errorf("registrar pedido: %w", err)
		}
		if err := tx.Products().AdjustStock(ctx, product.ID, input.Quantity); err != nil {
			return err
		}
		purchaseID = purchase.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info().
		Str("purchase_id", purchaseID).
		Str("supplier_id", input.SupplierID).
		Int("quantity", input.Quantity).
		Msg("pedido a proveedor registrado")

	purchase, err := uc.Get(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	return &dto.NotifySupplierResponse{Success: true, Message: MsgNotified, Purchase: *purchase}, nil
}

// Get obtiene un pedido con sus líneas.
func (uc *PurchasingUseCase) Get(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchase(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(p), nil
}

// OrderDocument genera el XML del pedido con su digest SHA-256 canónico.
func (uc *PurchasingUseCase) OrderDocument(ctx context.Context, id string) (*dto.PurchaseOrderDocument, error) {
	p, err := uc.purchase(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier, err := uc.store.Suppliers().GetByID(ctx, p.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("pedido: obtener proveedor: %w", err)
	}
	if supplier == nil {
		supplier = &entity.Supplier{ID: p.SupplierID, CompanyName: p.SupplierName}
	}
	doc, err := uc.builder.BuildPurchaseOrder(p, supplier)
	if err != nil {
		return nil, fmt.Errorf("pedido: generar documento: %w", err)
	}
	return doc, nil
}

func (uc *PurchasingUseCase) purchase(ctx context.Context, id string) (*entity.Purchase, error) {
	if !entity.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	p, err := uc.store.Purchases().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pedido: obtener: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func activeProduct(ctx context.Context, tx repository.Store, id string) (*entity.Product, error) {
	if !entity.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	p, err := tx.Products().GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Deleted() {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func activeSupplier(ctx context.Context, tx repository.Store, id string) (*entity.Supplier, error) {
	if !entity.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	s, err := tx.Suppliers().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Deleted() {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	out := &dto.PurchaseResponse{
		ID:             p.ID,
		SupplierID:     p.SupplierID,
		Supplier:       p.SupplierName,
		Date:           p.Date,
		Total:          p.Total,
		FormattedTotal: p.FormattedTotal(),
		Message:        p.Message,
		Items:          make([]dto.PurchaseItemResponse, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		out.Items = append(out.Items, dto.PurchaseItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Reference:   it.Reference,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Subtotal:    it.Subtotal(),
		})
	}
	return out
}
