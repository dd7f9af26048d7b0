package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo implementación del puerto CartRepository sobre PostgreSQL.
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador. Acepta pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// ListByUser devuelve las líneas del carrito con el producto cargado, en orden de alta.
func (r *CartRepo) ListByUser(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity,
		       p.id, p.name, p.description, p.price, p.stock, p.min_stock, p.location, p.reference_number,
		       p.color, p.weight, p.dimensions, p.manufacturer, p.category_id, COALESCE(c.name, ''),
		       p.is_deleted, p.deleted_at, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE ci.user_id = $1
		ORDER BY p.name, ci.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()
	var items []*entity.CartItem
	for rows.Next() {
		var it entity.CartItem
		var p entity.Product
		if err := rows.Scan(
			&it.ID, &it.UserID, &it.ProductID, &it.Quantity,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.MinStock, &p.Location, &p.ReferenceNumber,
			&p.Color, &p.Weight, &p.Dimensions, &p.Manufacturer, &p.CategoryID, &p.CategoryName,
			&p.IsDeleted, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		it.Product = &p
		items = append(items, &it)
	}
	return items, rows.Err()
}

// Get devuelve la línea del usuario para el producto, o nil si no existe.
func (r *CartRepo) Get(ctx context.Context, userID, productID string) (*entity.CartItem, error) {
	var it entity.CartItem
	err := r.q.QueryRow(ctx,
		`SELECT id, user_id, product_id, quantity FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	).Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return &it, nil
}

func (r *CartRepo) Create(ctx context.Context, it *entity.CartItem) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO cart_items (id, user_id, product_id, quantity) VALUES ($1, $2, $3, $4)`,
		it.ID, it.UserID, it.ProductID, it.Quantity,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

func (r *CartRepo) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	cmd, err := r.q.Exec(ctx, `UPDATE cart_items SET quantity = $2 WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCartLineNotFound
	}
	return nil
}

func (r *CartRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCartLineNotFound
	}
	return nil
}

// ClearByUser vacía el carrito del usuario.
func (r *CartRepo) ClearByUser(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
