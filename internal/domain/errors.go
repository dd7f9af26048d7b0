package domain

import (
	"errors"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("este correo electrónico ya está registrado")
	ErrUsernameTaken      = errors.New("este nombre de usuario ya está en uso")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrDuplicateReference = errors.New("el número de referencia ya existe")
	ErrDuplicateCIF       = errors.New("el CIF ya existe")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrEmptyCart          = errors.New("tu carrito está vacío")
	ErrCartLineNotFound   = errors.New("el producto no está en el carrito")
)

// ValidationError errores de formulario por campo (equivalente a form.errors).
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError construye un ValidationError vacío.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// Add agrega un mensaje al campo indicado.
func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// HasErrors indica si hay al menos un campo con error.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil devuelve nil si no hay errores, para usar como `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if e == nil || !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validación: " + strings.Join(parts, ", ")
}

// Is permite errors.Is(err, ErrInvalidInput) sobre un ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// FieldError atajo para un ValidationError de un solo campo.
func FieldError(field, msg string) error {
	v := NewValidationError()
	v.Add(field, msg)
	return v
}

// BusinessError violación de una regla de negocio con el mensaje que ve el usuario.
// errors.Is(err, Err) sigue funcionando sobre el centinela envuelto.
type BusinessError struct {
	Err     error
	Message string
}

// NewBusinessError envuelve un error centinela con un mensaje para el usuario.
func NewBusinessError(err error, msg string) *BusinessError {
	return &BusinessError{Err: err, Message: msg}
}

func (e *BusinessError) Error() string { return e.Message }

func (e *BusinessError) Unwrap() error { return e.Err }
