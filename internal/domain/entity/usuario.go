package entity

import "time"

// Roles válidos para Usuario.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
)

// Usuario representa un usuario del sistema de beneficio.
type Usuario struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Nombre       string
	Role         string // admin, bodeguero
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
