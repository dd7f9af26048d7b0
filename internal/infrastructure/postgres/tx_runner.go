package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var (
	_ repository.TxRunner = (*TxRunner)(nil)
	_ repository.Store    = (*Store)(nil)
)

// Store agrupa los repositorios PostgreSQL atados a un mismo Querier (pool o tx).
type Store struct {
	users      *UserRepo
	categories *CategoryRepo
	products   *ProductRepo
	suppliers  *SupplierRepo
	cart       *CartRepo
	sales      *SaleRepo
	purchases  *PurchaseRepo
}

// NewStore construye los repositorios sobre q.
func NewStore(q Querier) *Store {
	return &Store{
		users:      NewUserRepository(q),
		categories: NewCategoryRepository(q),
		products:   NewProductRepository(q),
		suppliers:  NewSupplierRepository(q),
		cart:       NewCartRepository(q),
		sales:      NewSaleRepository(q),
		purchases:  NewPurchaseRepository(q),
	}
}

func (s *Store) Users() repository.UserRepository          { return s.users }
func (s *Store) Categories() repository.CategoryRepository { return s.categories }
func (s *Store) Products() repository.ProductRepository    { return s.products }
func (s *Store) Suppliers() repository.SupplierRepository  { return s.suppliers }
func (s *Store) Cart() repository.CartRepository           { return s.cart }
func (s *Store) Sales() repository.SaleRepository          { return s.sales }
func (s *Store) Purchases() repository.PurchaseRepository  { return s.purchases }

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// El Rollback diferido cubre también los pánicos dentro de fn.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Store) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStore(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
