package entity

import "time"

// Roles de usuario. El comprador gestiona órdenes; el bodeguero registra
// recepciones; el admin puede todo.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleComprador = "comprador"
)

// User usuario del sistema; siempre pertenece a una Company.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt; el dominio nunca guarda el password plano
	Name         string
	Role         string // ver constantes Role*
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
