package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la venta y sus líneas. Debe llamarse dentro de una transacción.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, user_id, supplier_id, date, total, shipping_address, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.UserID, nullIfEmpty(s.SupplierID), s.Date, s.Total, s.ShippingAddress, s.PaymentMethod,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for i := range s.Items {
		it := &s.Items[i]
		it.SaleID = s.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, supplier_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, it.SaleID, it.ProductID, nullIfEmpty(it.SupplierID), it.Quantity, it.Price,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas y el nombre de cada producto.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, supplier_id, date, total, shipping_address, payment_method
		FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.SupplierID, &s.Date, &s.Total, &s.ShippingAddress, &s.PaymentMethod)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT si.id, si.sale_id, si.product_id, p.name, si.supplier_id, si.quantity, si.price
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = $1
		ORDER BY p.name, si.id`, id)
	if err != nil {
		return nil, fmt.Errorf("load sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.SupplierID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	return &s, rows.Err()
}

// ListByUser ventas del usuario (sin líneas), más recientes primero.
func (r *SaleRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, supplier_id, date, total, shipping_address, payment_method
		FROM sales WHERE user_id = $1
		ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.UserID, &s.SupplierID, &s.Date, &s.Total, &s.ShippingAddress, &s.PaymentMethod); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// PruneUser borra las ventas del usuario que quedan fuera de las keep más recientes.
// Las líneas se eliminan por ON DELETE CASCADE.
func (r *SaleRepo) PruneUser(ctx context.Context, userID string, keep int) (int, error) {
	cmd, err := r.q.Exec(ctx, `
		DELETE FROM sales
		WHERE user_id = $1
		  AND id NOT IN (
		      SELECT id FROM sales WHERE user_id = $1
		      ORDER BY date DESC, id DESC
		      LIMIT $2)`, userID, keep)
	if err != nil {
		return 0, fmt.Errorf("prune sales: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}
