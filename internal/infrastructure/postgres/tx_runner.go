package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/compras-api/internal/application/receiving"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

// Ensure TxRunner implements receiving.TxRunner.
var _ receiving.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Es la frontera de atomicidad del motor de recepción.
func (r *TxRunner) Run(ctx context.Context, fn func(
	receiptRepo repository.PurchaseReceiptRepository,
	stockRepo repository.StockRepository,
	movementRepo repository.StockMovementRepository,
	orderRepo repository.PurchaseOrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	receiptRepo := NewPurchaseReceiptRepository(tx)
	stockRepo := NewStockRepository(tx)
	movementRepo := NewStockMovementRepository(tx)
	orderRepo := NewPurchaseOrderRepository(tx)

	if err := fn(receiptRepo, stockRepo, movementRepo, orderRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
