package repository

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// CartRepository define el puerto de persistencia para las líneas del carrito.
type CartRepository interface {
	// ListByUser devuelve las líneas con el producto cargado.
	ListByUser(ctx context.Context, userID string) ([]*entity.CartItem, error)
	Get(ctx context.Context, userID, productID string) (*entity.CartItem, error)
	Create(ctx context.Context, item *entity.CartItem) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
	ClearByUser(ctx context.Context, userID string) error
}
