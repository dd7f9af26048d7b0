package entity

// Category representa una categoría de productos (nombre único).
type Category struct {
	ID   string
	Name string
}
