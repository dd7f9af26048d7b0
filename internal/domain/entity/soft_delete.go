package entity

import "time"

// ActiveRecordFilter capacidad de borrado lógico: el registro se marca como inactivo
// y deja de aparecer en listados, pero sigue referenciado por ventas y compras históricas.
type ActiveRecordFilter interface {
	Deleted() bool
	MarkDeleted(at time.Time)
}

// SoftDelete implementación embebible de ActiveRecordFilter.
type SoftDelete struct {
	IsDeleted bool
	DeletedAt *time.Time
}

// Deleted indica si el registro fue borrado lógicamente.
func (s *SoftDelete) Deleted() bool { return s.IsDeleted }

// MarkDeleted marca el registro como borrado.
func (s *SoftDelete) MarkDeleted(at time.Time) {
	s.IsDeleted = true
	s.DeletedAt = &at
}

// ActiveOnly devuelve solo los registros no borrados, conservando el orden.
func ActiveOnly[T ActiveRecordFilter](items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !it.Deleted() {
			out = append(out, it)
		}
	}
	return out
}
