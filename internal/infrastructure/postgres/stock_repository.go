package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `product_id, warehouse_id, quantity, updated_at`

// StockRepo adaptador PostgreSQL de StockRepository. Dentro del flujo de
// recepción siempre se construye atado a la transacción de la línea.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Acepta pool o tx.
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get devuelve el stock del producto en la bodega. Un par inexistente no es
// error: se devuelve cantidad cero, lista para el primer upsert.
func (r *StockRepo) Get(productID, warehouseID string) (*entity.Stock, error) {
	return r.get(productID, warehouseID, "")
}

// GetForUpdate es Get con bloqueo de fila (SELECT ... FOR UPDATE) para
// serializar recepciones concurrentes sobre el mismo producto+bodega.
func (r *StockRepo) GetForUpdate(productID, warehouseID string) (*entity.Stock, error) {
	return r.get(productID, warehouseID, " FOR UPDATE")
}

func (r *StockRepo) get(productID, warehouseID, lock string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE product_id = $1 AND warehouse_id = $2` + lock
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return &entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert escribe la cantidad resultante para el par producto+bodega.
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, stock.ProductID, stock.WarehouseID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}
