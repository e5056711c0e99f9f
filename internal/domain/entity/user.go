package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
)

// User representa un operador del sistema. Su Name alimenta los campos
// de auditoría performed_by / acknowledged_by.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // "admin" | "operador"
	Status       string // "active" | "disabled"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
