package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// ProductFilter filtros del listado del catálogo. Los campos vacíos no filtran.
type ProductFilter struct {
	Search     string // subcadena en nombre o descripción, sin distinguir mayúsculas
	CategoryID string
	LowStock   bool
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate cargan el nombre de la categoría y los proveedores activos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// SetSuppliers reemplaza el conjunto de proveedores asociados.
	SetSuppliers(ctx context.Context, productID string, supplierIDs []string) error
	AddSupplier(ctx context.Context, productID, supplierID string) error
	// AdjustStock suma delta (positivo o negativo) al stock actual.
	AdjustStock(ctx context.Context, productID string, delta int) error
	// SoftDelete marca el producto como eliminado, borra sus líneas de carrito y lo desasocia de sus proveedores.
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// List devuelve solo productos activos ordenados por nombre, más el total sin paginar.
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, int, error)
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
}
