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
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, company_name, contact_name, phone, email, address, city, country, postal_code,
	cif, discount, iva, payment_method, bank_account, notes, is_deleted, deleted_at, created_at, updated_at`

func scanSupplier(row scanner) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(
		&s.ID, &s.CompanyName, &s.ContactName, &s.Phone, &s.Email, &s.Address, &s.City, &s.Country, &s.PostalCode,
		&s.CIF, &s.Discount, &s.IVA, &s.PaymentMethod, &s.BankAccount, &s.Notes, &s.IsDeleted, &s.DeletedAt,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste un nuevo proveedor. Un CIF repetido devuelve ErrDuplicateCIF.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyName, s.ContactName, s.Phone, s.Email, s.Address, s.City, s.Country, s.PostalCode,
		s.CIF, s.Discount, s.IVA, s.PaymentMethod, s.BankAccount, s.Notes, s.IsDeleted, s.DeletedAt,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor (incluidos eliminados) con sus productos activos.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.name, p.stock
		FROM product_suppliers ps
		JOIN products p ON p.id = ps.product_id
		WHERE ps.supplier_id = $1 AND NOT p.is_deleted
		ORDER BY p.name`, id)
	if err != nil {
		return nil, fmt.Errorf("load supplier products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ref entity.ProductRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Stock); err != nil {
			return nil, fmt.Errorf("scan supplier product: %w", err)
		}
		s.Products = append(s.Products, ref)
	}
	return s, rows.Err()
}

// Update actualiza los datos del proveedor.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	query := `
		UPDATE suppliers SET company_name = $2, contact_name = $3, phone = $4, email = $5, address = $6,
		       city = $7, country = $8, postal_code = $9, cif = $10, discount = $11, iva = $12,
		       payment_method = $13, bank_account = $14, notes = $15, updated_at = $16
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyName, s.ContactName, s.Phone, s.Email, s.Address, s.City, s.Country, s.PostalCode,
		s.CIF, s.Discount, s.IVA, s.PaymentMethod, s.BankAccount, s.Notes, s.UpdatedAt,
	)
	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("update supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca el proveedor como eliminado y lo desasocia de todos sus productos.
func (r *SupplierRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE suppliers SET is_deleted = TRUE, deleted_at = $2, updated_at = $2 WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("soft delete supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM product_suppliers WHERE supplier_id = $1`, id); err != nil {
		return fmt.Errorf("detach supplier products: %w", err)
	}
	return nil
}

// List lista proveedores activos que coinciden con search (razón social, contacto o email).
func (r *SupplierRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Supplier, int, error) {
	cond := ` WHERE NOT is_deleted`
	var args []any
	if s := strings.TrimSpace(search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		cond += ` AND (company_name ILIKE $1 OR contact_name ILIKE $1 OR email ILIKE $1)`
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
	}

	args = append(args, limit, offset)
	query := `SELECT ` + supplierColumns + ` FROM suppliers` + cond +
		fmt.Sprintf(` ORDER BY company_name, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListActive todos los proveedores activos (selectores de formularios).
func (r *SupplierRepo) ListActive(ctx context.Context) ([]*entity.Supplier, error) {
	return r.query(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE NOT is_deleted ORDER BY company_name`)
}

func (r *SupplierRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
