package repository

import "github.com/jhoicas/compras-api/internal/domain/entity"

// UserRepository puerto de persistencia para usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByEmailAndCompany(email, companyID string) (*entity.User, error)
	Update(user *entity.User) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.User, error)
	Delete(id string) error
	// Alias semánticos que usa el flujo de autenticación.
	FindByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
