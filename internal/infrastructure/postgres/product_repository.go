package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/inventory"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.stock, p.min_stock, p.location, p.reference_number,
	       p.color, p.weight, p.dimensions, p.manufacturer, p.category_id, COALESCE(c.name, ''),
	       p.is_deleted, p.deleted_at, p.created_at, p.updated_at
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

func scanProduct(row scanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.MinStock, &p.Location, &p.ReferenceNumber,
		&p.Color, &p.Weight, &p.Dimensions, &p.Manufacturer, &p.CategoryID, &p.CategoryName,
		&p.IsDeleted, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto. Un número de referencia repetido devuelve ErrDuplicateReference.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, stock, min_stock, location, reference_number,
		                      color, weight, dimensions, manufacturer, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.MinStock, p.Location, p.ReferenceNumber,
		p.Color, p.Weight, p.Dimensions, p.Manufacturer, p.CategoryID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID (incluidos los eliminados) con sus proveedores activos.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, productSelect+` WHERE p.id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila del producto (SELECT ... FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, productSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id)
}

func (r *ProductRepo) getOne(ctx context.Context, query, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.attachSuppliers(ctx, []*entity.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// Update actualiza los datos editables de un producto (no toca proveedores ni estado de borrado).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, stock = $5, min_stock = $6,
		       location = $7, reference_number = $8, color = $9, weight = $10, dimensions = $11,
		       manufacturer = $12, category_id = $13, updated_at = $14
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.MinStock, p.Location, p.ReferenceNumber,
		p.Color, p.Weight, p.Dimensions, p.Manufacturer, p.CategoryID, p.UpdatedAt,
	)
	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetSuppliers reemplaza el conjunto de proveedores del producto conservando el orden recibido.
func (r *ProductRepo) SetSuppliers(ctx context.Context, productID string, supplierIDs []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_suppliers WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("clear product suppliers: %w", err)
	}
	for _, sid := range supplierIDs {
		if err := r.AddSupplier(ctx, productID, sid); err != nil {
			return err
		}
	}
	return nil
}

// AddSupplier asocia un proveedor al producto (idempotente).
func (r *ProductRepo) AddSupplier(ctx context.Context, productID, supplierID string) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO product_suppliers (product_id, supplier_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		productID, supplierID,
	)
	if err != nil {
		return fmt.Errorf("add product supplier: %w", err)
	}
	return nil
}

// AdjustStock suma delta al stock. Si el resultado fuese negativo devuelve ErrInsufficientStock.
func (r *ProductRepo) AdjustStock(ctx context.Context, productID string, delta int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1`,
		productID, delta,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("adjust stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca el producto como eliminado, borra las líneas de carrito que lo referencian
// y lo desasocia de todos sus proveedores. Ventas y pedidos históricos no se tocan.
func (r *ProductRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET is_deleted = TRUE, deleted_at = $2, updated_at = $2 WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE product_id = $1`, id); err != nil {
		return fmt.Errorf("delete product cart items: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM product_suppliers WHERE product_id = $1`, id); err != nil {
		return fmt.Errorf("detach product suppliers: %w", err)
	}
	return nil
}

// List lista productos activos filtrados, ordenados por nombre, con el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	where := []string{"NOT p.is_deleted"}
	var args []any
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args)))
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if f.LowStock {
		where = append(where, inventory.LowStockPredicate("p"))
	}
	cond := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, limit, offset)
	query := productSelect + cond + fmt.Sprintf(" ORDER BY p.name, p.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	list, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListLowStock productos activos con stock <= min_stock, los de mayor déficit primero.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	query := productSelect + ` WHERE NOT p.is_deleted AND ` + inventory.LowStockPredicate("p") +
		` ORDER BY (p.min_stock - p.stock) DESC, p.name`
	return r.queryProducts(ctx, query)
}

func (r *ProductRepo) queryProducts(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if err := r.attachSuppliers(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachSuppliers carga en una sola consulta los proveedores activos de los productos dados,
// en el orden en que se asociaron.
func (r *ProductRepo) attachSuppliers(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	byID := make(map[string]*entity.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = p
	}
	rows, err := r.q.Query(ctx, `
		SELECT ps.product_id, s.id, s.company_name
		FROM product_suppliers ps
		JOIN suppliers s ON s.id = ps.supplier_id
		WHERE ps.product_id = ANY($1::uuid[]) AND NOT s.is_deleted
		ORDER BY ps.position`, ids)
	if err != nil {
		return fmt.Errorf("load product suppliers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var productID string
		var ref entity.SupplierRef
		if err := rows.Scan(&productID, &ref.ID, &ref.CompanyName); err != nil {
			return fmt.Errorf("scan product supplier: %w", err)
		}
		if p := byID[productID]; p != nil {
			p.Suppliers = append(p.Suppliers, ref)
		}
	}
	return rows.Err()
}

// escapeLike escapa los comodines de LIKE para buscar el texto literal.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
