package repository

import "github.com/jhoicas/compras-api/internal/domain/entity"

// PurchaseReceiptRepository define el puerto de persistencia para recepciones
// de mercancía. Las recepciones son append-only: no hay Update ni Delete.
type PurchaseReceiptRepository interface {
	// Create persiste la cabecera. Devuelve domain.ErrDuplicate si el
	// receipt_number ya existe (constraint UNIQUE); el caller reintenta con
	// el siguiente número.
	Create(receipt *entity.PurchaseReceipt) error
	CreateItem(item *entity.PurchaseReceiptItem) error
	GetByID(id string) (*entity.PurchaseReceipt, error)
	// ListByOrder devuelve las recepciones de una orden con sus líneas,
	// más recientes primero.
	ListByOrder(purchaseOrderID string) ([]*entity.PurchaseReceipt, error)
	MaxReceiptNumber() (int, error)
}
