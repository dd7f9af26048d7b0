package entity

import "github.com/google/uuid"

// NewID genera un identificador nuevo (UUID v4).
func NewID() string { return uuid.New().String() }

// ValidID indica si id tiene formato UUID. Los ids que no lo cumplen no existen.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
