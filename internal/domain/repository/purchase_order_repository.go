package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/compras-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de
// compra y su libro de cantidades (DIP).
type PurchaseOrderRepository interface {
	Create(order *entity.PurchaseOrder) error
	// GetByID devuelve la orden con sus líneas; excluye órdenes con soft delete.
	// (nil, nil) si no existe.
	GetByID(id string) (*entity.PurchaseOrder, error)
	ListByCompany(companyID, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
	MaxOrderNumber() (int, error)
	UpdateStatus(id, status string) error
	Delete(id string) error

	// IncrementReceived aplica el incremento condicional atómico al libro:
	//   UPDATE ... SET received_quantity = received_quantity + delta
	//   WHERE id = itemID AND received_quantity + delta <= quantity
	// Devuelve applied=false (sin error) si la condición no se cumple:
	// sobre-recepción concurrente, el caller debe abortar la transacción de la
	// línea. En ese caso remaining trae el cupo real (quantity -
	// received_quantity) releído del libro; con applied=true vale cero.
	IncrementReceived(itemID string, delta decimal.Decimal) (applied bool, remaining decimal.Decimal, err error)

	// SumQuantities devuelve (total pedido, total recibido) de todas las líneas
	// de la orden, leídos de la DB. Insumo del reconciliador de estado.
	SumQuantities(orderID string) (ordered, received decimal.Decimal, err error)
}
