package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/Suministros-api/internal/domain"
)

// uniqueConstraintErrors traduce el nombre del constraint único al error de dominio específico.
var uniqueConstraintErrors = map[string]error{
	"products_reference_number_key": domain.ErrDuplicateReference,
	"suppliers_cif_key":             domain.ErrDuplicateCIF,
	"users_username_key":            domain.ErrUsernameTaken,
	"users_email_key":               domain.ErrEmailAlreadyExists,
	"categories_name_key":           domain.ErrDuplicate,
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// mapUniqueViolation devuelve el error de dominio de la violación única, o nil si err no lo es.
func mapUniqueViolation(err error) error {
	if err == nil || !isUniqueViolation(err) {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := uniqueConstraintErrors[pgErr.ConstraintName]; ok {
			return mapped
		}
	}
	return domain.ErrDuplicate
}

// nullIfEmpty convierte "" en NULL para columnas UUID opcionales.
func nullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// isCheckViolation verifica si un error es una violación de constraint CHECK (23514).
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}

// scanner abstrae pgx.Row y pgx.Rows para reutilizar funciones de scan.
type scanner interface {
	Scan(dest ...any) error
}
