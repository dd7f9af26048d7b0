// Package memory implementa todos los puertos de repository en memoria. Se usa con
// DB_DRIVER=memory para demos sin PostgreSQL y como doble de pruebas de los casos de uso.
// Las transacciones trabajan sobre una copia del estado que solo se publica si fn no falla.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var (
	_ repository.TxRunner = (*DB)(nil)
	_ repository.Store    = (*store)(nil)
)

type productSupplier struct {
	productID  string
	supplierID string
}

type state struct {
	users      map[string]*entity.User
	categories map[string]*entity.Category
	products   map[string]*entity.Product
	suppliers  map[string]*entity.Supplier
	links      []productSupplier // orden de asociación
	cart       map[string]*entity.CartItem
	sales      map[string]*entity.Sale
	purchases  map[string]*entity.Purchase
}

func newState() *state {
	return &state{
		users:      map[string]*entity.User{},
		categories: map[string]*entity.Category{},
		products:   map[string]*entity.Product{},
		suppliers:  map[string]*entity.Supplier{},
		cart:       map[string]*entity.CartItem{},
		sales:      map[string]*entity.Sale{},
		purchases:  map[string]*entity.Purchase{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = copyUser(v)
	}
	for k, v := range s.categories {
		cp := *v
		c.categories[k] = &cp
	}
	for k, v := range s.products {
		c.products[k] = copyProduct(v)
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = copySupplier(v)
	}
	c.links = append(c.links, s.links...)
	for k, v := range s.cart {
		c.cart[k] = copyCartItem(v)
	}
	for k, v := range s.sales {
		c.sales[k] = copySale(v)
	}
	for k, v := range s.purchases {
		c.purchases[k] = copyPurchase(v)
	}
	return c
}

// DB almacén en memoria seguro para uso concurrente.
type DB struct {
	mu sync.RWMutex
	st *state
}

// New crea un almacén vacío.
func New() *DB {
	return &DB{st: newState()}
}

// Store devuelve los repositorios fuera de transacción (cada operación es atómica por sí sola).
func (db *DB) Store() repository.Store {
	return &store{db: db}
}

// Analytics devuelve el repositorio de consultas agregadas.
func (db *DB) Analytics() repository.AnalyticsRepository {
	return &analyticsRepo{db: db}
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn devuelve nil.
// Las transacciones se serializan.
func (db *DB) Run(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	work := db.st.clone()
	if err := fn(&store{db: db, tx: work}); err != nil {
		return err
	}
	db.st = work
	return nil
}

// store implementa repository.Store. Con tx != nil opera sobre el estado de la transacción
// (el lock ya lo tiene Run); si no, toma el lock en cada operación.
type store struct {
	db *DB
	tx *state
}

func (s *store) read(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return fn(s.db.st)
}

func (s *store) write(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return fn(s.db.st)
}

func (s *store) Users() repository.UserRepository          { return &userRepo{s} }
func (s *store) Categories() repository.CategoryRepository { return &categoryRepo{s} }
func (s *store) Products() repository.ProductRepository    { return &productRepo{s} }
func (s *store) Suppliers() repository.SupplierRepository  { return &supplierRepo{s} }
func (s *store) Cart() repository.CartRepository           { return &cartRepo{s} }
func (s *store) Sales() repository.SaleRepository          { return &saleRepo{s} }
func (s *store) Purchases() repository.PurchaseRepository  { return &purchaseRepo{s} }
