package repository

import "context"

// Store agrupa los repositorios atados a una misma conexión o transacción.
type Store interface {
	Users() UserRepository
	Categories() CategoryRepository
	Products() ProductRepository
	Suppliers() SupplierRepository
	Cart() CartRepository
	Sales() SaleRepository
	Purchases() PurchaseRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Store) error) error
}
