package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	// GetByID carga también los productos activos del proveedor.
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	// SoftDelete marca el proveedor como eliminado y lo desasocia de todos sus productos.
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// List busca en razón social, contacto y email; solo activos, ordenados por razón social.
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Supplier, int, error)
	ListActive(ctx context.Context) ([]*entity.Supplier, error)
}
