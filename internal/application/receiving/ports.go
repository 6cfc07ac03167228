package receiving

import (
	"context"

	"github.com/jhoicas/compras-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la garantía de atomicidad del motor de
// recepción: cabecera+líneas en una transacción, y cada línea de inventario
// (stock + asiento + libro) en la suya.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		receiptRepo repository.PurchaseReceiptRepository,
		stockRepo repository.StockRepository,
		movementRepo repository.StockMovementRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error) error
}
