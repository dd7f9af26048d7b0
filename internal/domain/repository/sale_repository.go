package repository

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	// Create persiste la venta junto con todas sus líneas.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Sale, error)
	// PruneUser conserva las keep ventas más recientes del usuario (fecha desc) y borra el resto.
	PruneUser(ctx context.Context, userID string, keep int) (int, error)
}
