package repository

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para pedidos a proveedores.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	// Prune conserva los keep pedidos más recientes (fecha desc, id desc) y borra el resto.
	Prune(ctx context.Context, keep int) (int, error)
}
