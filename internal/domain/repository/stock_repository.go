package repository

import "github.com/jhoicas/compras-api/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar stock por
// producto+bodega. Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve el stock actual; si el par no existe devuelve cantidad cero
	// (la ausencia no es error).
	Get(productID, warehouseID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar
	// recepciones concurrentes sobre el mismo par producto+bodega.
	GetForUpdate(productID, warehouseID string) (*entity.Stock, error)
}
