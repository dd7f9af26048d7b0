package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/forms"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const msgNoStock = "No hay stock disponible para este producto"

// CartUseCase gestiona el carrito de un cliente: Empty → Populated al añadir la primera línea.
type CartUseCase struct {
	store repository.Store
	tx    repository.TxRunner
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(store repository.Store, tx repository.TxRunner) *CartUseCase {
	return &CartUseCase{store: store, tx: tx}
}

// View devuelve las líneas del carrito con su total.
func (uc *CartUseCase) View(ctx context.Context, userID string) (*dto.CartResponse, error) {
	items, err := uc.store.Cart().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("carrito: listar: %w", err)
	}
	return toCartResponse(items), nil
}

// Total Σ precio × cantidad de las líneas del carrito.
func (uc *CartUseCase) Total(ctx context.Context, userID string) (decimal.Decimal, error) {
	items, err := uc.store.Cart().ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("carrito: total: %w", err)
	}
	return entity.CartTotal(items), nil
}

// Add añade quantity unidades del producto. Si ya hay una línea para el producto se acumula.
func (uc *CartUseCase) Add(ctx context.Context, userID, productID string, quantity int) error {
	if err := forms.CartQuantity(quantity); err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(tx repository.Store) error {
		if _, err := availableProduct(ctx, tx, productID); err != nil {
			return err
		}
		line, err := tx.Cart().Get(ctx, userID, productID)
		if err != nil {
			return err
		}
		if line != nil {
			return tx.Cart().UpdateQuantity(ctx, line.ID, line.Quantity+quantity)
		}
		return tx.Cart().Create(ctx, &entity.CartItem{
			ID:        entity.NewID(),
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		})
	})
}

// Update fija la cantidad de una línea existente; revalida el stock del producto.
func (uc *CartUseCase) Update(ctx context.Context, userID, productID string, quantity int) error {
	if err := forms.CartQuantity(quantity); err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(tx repository.Store) error {
		line, err := cartLine(ctx, tx, userID, productID)
		if err != nil {
			return err
		}
		if _, err := availableProduct(ctx, tx, productID); err != nil {
			return err
		}
		return tx.Cart().UpdateQuantity(ctx, line.ID, quantity)
	})
}

// Remove elimina la línea del producto.
func (uc *CartUseCase) Remove(ctx context.Context, userID, productID string) error {
	return uc.tx.Run(ctx, func(tx repository.Store) error {
		line, err := cartLine(ctx, tx, userID, productID)
		if err != nil {
			return err
		}
		return tx.Cart().Delete(ctx, line.ID)
	})
}

func cartLine(ctx context.Context, tx repository.Store, userID, productID string) (*entity.CartItem, error) {
	if !entity.ValidID(productID) {
		return nil, domain.ErrCartLineNotFound
	}
	line, err := tx.Cart().Get(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrCartLineNotFound
	}
	return line, nil
}

// availableProduct producto activo con stock > 0.
func availableProduct(ctx context.Context, tx repository.Store, productID string) (*entity.Product, error) {
	if !entity.ValidID(productID) {
		return nil, domain.ErrNotFound
	}
	p, err := tx.Products().GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Deleted() {
		return nil, domain.ErrNotFound
	}
	if p.Stock <= 0 {
		return nil, domain.NewBusinessError(domain.ErrInsufficientStock, msgNoStock)
	}
	return p, nil
}

func toCartResponse(items []*entity.CartItem) *dto.CartResponse {
	total := entity.CartTotal(items)
	out := &dto.CartResponse{
		Items:          make([]dto.CartLineResponse, 0, len(items)),
		Total:          total,
		FormattedTotal: entity.FormatEUR(total),
	}
	for _, it := range items {
		line := dto.CartLineResponse{
			ID:                it.ID,
			ProductID:         it.ProductID,
			Quantity:          it.Quantity,
			Subtotal:          it.Subtotal(),
			FormattedSubtotal: it.FormattedSubtotal(),
		}
		if it.Product != nil {
			line.Name = it.Product.Name
			line.Price = it.Product.Price
			line.FormattedPrice = it.Product.FormattedPrice()
		}
		out.Items = append(out.Items, line)
	}
	return out
}
