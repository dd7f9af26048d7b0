package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/forms"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/jhoicas/Suministros-api/pkg/logger"
)

const msgEmptyCart = "Tu carrito está vacío"

// CheckoutUseCase convierte el carrito en una venta (Checkout-pending → Completed).
type CheckoutUseCase struct {
	store     repository.Store
	tx        repository.TxRunner
	retention int
	receipts  ReceiptPDFGenerator
}

// NewCheckoutUseCase construye el caso de uso. retention es el máximo de ventas conservadas por usuario.
func NewCheckoutUseCase(store repository.Store, tx repository.TxRunner, retention int, receipts ReceiptPDFGenerator) *CheckoutUseCase {
	if retention <= 0 {
		retention = 50
	}
	return &CheckoutUseCase{store: store, tx: tx, retention: retention, receipts: receipts}
}

// Prepare devuelve el carrito a pagar. Falla con ErrEmptyCart si no hay líneas.
func (uc *CheckoutUseCase) Prepare(ctx context.Context, userID string) (*dto.CartResponse, error) {
	items, err := uc.store.Cart().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("checkout: listar carrito: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.NewBusinessError(domain.ErrEmptyCart, msgEmptyCart)
	}
	return toCartResponse(items), nil
}

// Checkout crea la venta en una única transacción: bloquea los productos, valida stock,
// registra la venta con sus líneas, descuenta stock, vacía el carrito y aplica la retención.
// Cualquier error revierte todo.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, userID string, in dto.CheckoutRequest) (*dto.SaleResponse, error) {
	if err := forms.Checkout(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	var saleID string
	err := uc.tx.Run(ctx, func(tx repository.Store) error {
		lines, err := tx.Cart().ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.NewBusinessError(domain.ErrEmptyCart, msgEmptyCart)
		}
		// orden estable de bloqueo entre checkouts concurrentes
		locked := make([]*entity.CartItem, len(lines))
		copy(locked, lines)
		sort.Slice(locked, func(i, j int) bool { return locked[i].ProductID < locked[j].ProductID })

		products := make(map[string]*entity.Product, len(locked))
		for _, line := range locked {
			p, err := tx.Products().GetForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if p == nil || p.Deleted() || p.Stock <= 0 || p.Stock < line.Quantity {
				return domain.NewBusinessError(domain.ErrInsufficientStock, "No hay stock disponible para "+lineName(line, p))
			}
			products[p.ID] = p
		}

		sale := &entity.Sale{
			ID:              entity.NewID(),
			UserID:          userID,
			Date:            now,
			ShippingAddress: strings.TrimSpace(in.Address),
			PaymentMethod:   maskedCard(in.CardNumber),
		}
		for _, line := range lines {
			p := products[line.ProductID]
			item := entity.SaleItem{
				ID:        entity.NewID(),
				SaleID:    sale.ID,
				ProductID: p.ID,
				Quantity:  line.Quantity,
				Price:     p.Price,
			}
			if s := p.PrimarySupplier(); s != nil {
				id := s.ID
				item.SupplierID = &id
			}
			sale.Items = append(sale.Items, item)
		}
		sale.Total = sale.ComputeTotal()
		if err := tx.Sales().Create(ctx, sale); err != nil {
			return fmt.Errorf("registrar venta: %w", err)
		}
		for _, line := range locked {
			if err := tx.Products().AdjustStock(ctx, line.ProductID, -line.Quantity); err != nil {
				return err
			}
		}
		if err := tx.Cart().ClearByUser(ctx, userID); err != nil {
			return err
		}
		pruned, err := tx.Sales().PruneUser(ctx, userID, uc.retention)
		if err != nil {
			return fmt.Errorf("retención de ventas: %w", err)
		}
		if pruned > 0 {
			logger.FromContext(ctx).Debug().Str("user_id", userID).Int("pruned", pruned).Msg("ventas antiguas eliminadas")
		}
		saleID = sale.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.Confirmation(ctx, userID, saleID)
}

// Confirmation devuelve una venta del usuario. ErrNotFound si no existe o es de otro usuario.
func (uc *CheckoutUseCase) Confirmation(ctx context.Context, userID, saleID string) (*dto.SaleResponse, error) {
	if !entity.ValidID(saleID) {
		return nil, domain.ErrNotFound
	}
	sale, err := uc.store.Sales().GetByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("checkout: obtener venta: %w", err)
	}
	if sale == nil || sale.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(sale), nil
}

// ReceiptPDF genera el comprobante PDF de una venta del usuario.
func (uc *CheckoutUseCase) ReceiptPDF(ctx context.Context, userID, saleID string) ([]byte, string, error) {
	sale, err := uc.Confirmation(ctx, userID, saleID)
	if err != nil {
		return nil, "", err
	}
	customer := userID
	if u, err := uc.store.Users().GetByID(ctx, userID); err == nil && u != nil {
		customer = u.Username
	}
	pdfBytes, err := uc.receipts.GenerateReceiptPDF(ctx, sale, customer)
	if err != nil {
		return nil, "", fmt.Errorf("checkout: generar comprobante: %w", err)
	}
	return pdfBytes, fmt.Sprintf("pedido-%s.pdf", sale.ID[:8]), nil
}

func lineName(line *entity.CartItem, p *entity.Product) string {
	switch {
	case p != nil:
		return p.Name
	case line.Product != nil:
		return line.Product.Name
	}
	return line.ProductID
}

// maskedCard método de pago con los últimos cuatro dígitos: "card ****1111".
func maskedCard(number string) string {
	digits := strings.ReplaceAll(strings.TrimSpace(number), " ", "")
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return "card ****" + digits
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:              s.ID,
		Date:            s.Date,
		Total:           s.Total,
		FormattedTotal:  s.FormattedTotal(),
		ShippingAddress: s.ShippingAddress,
		PaymentMethod:   s.PaymentMethod,
		Items:           make([]dto.SaleItemResponse, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ProductID:         it.ProductID,
			ProductName:       it.ProductName,
			Quantity:          it.Quantity,
			Price:             it.Price,
			Subtotal:          it.Subtotal(),
			FormattedSubtotal: it.FormattedSubtotal(),
		})
	}
	return out
}
