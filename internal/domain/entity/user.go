package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User representa un usuario del sistema (administrador o cliente).
type User struct {
	ID           string
	Username     string // único, solo letras, números y guion bajo
	Email        string // único
	PasswordHash string // bcrypt, nunca plano después de persistir
	IsAdmin      bool
	CreatedAt    time.Time
}

// Role devuelve el rol derivado de IsAdmin.
func (u *User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleCustomer
}
