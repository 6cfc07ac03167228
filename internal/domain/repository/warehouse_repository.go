package repository

import "github.com/jhoicas/compras-api/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	// GetByIDs resuelve un lote de bodegas en una sola consulta (el validador
	// de recepciones deduplica los IDs antes de llamar).
	GetByIDs(ids []string) ([]*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	SetActive(id string, active bool) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error)
	Delete(id string) error
}
