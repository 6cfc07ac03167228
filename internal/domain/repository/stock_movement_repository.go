package repository

import (
	"time"

	"github.com/jhoicas/compras-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del libro de
// movimientos de inventario (append-only).
type StockMovementRepository interface {
	// Create inserta el asiento. Devuelve domain.ErrDuplicate si ya existe un
	// asiento para el mismo receipt_item_id (reintento idempotente).
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
