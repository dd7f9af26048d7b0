package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación del puerto PurchaseRepository sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Acepta pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create inserta el pedido y sus líneas. Debe llamarse dentro de una transacción.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO purchases (id, supplier_id, date, total, message) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.SupplierID, p.Date, p.Total, p.Message,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	for i := range p.Items {
		it := &p.Items[i]
		it.PurchaseID = p.ID
		_, err := r.q.Exec(ctx,
			`INSERT INTO purchase_items (id, purchase_id, product_id, quantity, price) VALUES ($1, $2, $3, $4, $5)`,
			it.ID, it.PurchaseID, it.ProductID, it.Quantity, it.Price,
		)
		if err != nil {
			return fmt.Errorf("insert purchase item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el pedido con el nombre del proveedor y sus líneas.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	var p entity.Purchase
	err := r.q.QueryRow(ctx, `
		SELECT pu.id, pu.supplier_id, s.company_name, pu.date, pu.total, pu.message
		FROM purchases pu
		JOIN suppliers s ON s.id = pu.supplier_id
		WHERE pu.id = $1`, id,
	).Scan(&p.ID, &p.SupplierID, &p.SupplierName, &p.Date, &p.Total, &p.Message)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT pi.id, pi.purchase_id, pi.product_id, pr.name, pr.reference_number, pi.quantity, pi.price
		FROM purchase_items pi
		JOIN products pr ON pr.id = pi.product_id
		WHERE pi.purchase_id = $1
		ORDER BY pr.name, pi.id`, id)
	if err != nil {
		return nil, fmt.Errorf("load purchase items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.ProductName, &it.Reference, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		p.Items = append(p.Items, it)
	}
	return &p, rows.Err()
}

// Prune conserva los keep pedidos más recientes y borra el resto (líneas por cascada).
func (r *PurchaseRepo) Prune(ctx context.Context, keep int) (int, error) {
	cmd, err := r.q.Exec(ctx, `
		DELETE FROM purchases
		WHERE id NOT IN (
		      SELECT id FROM purchases
		      ORDER BY date DESC, id DESC
		      LIMIT $1)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune purchases: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}
