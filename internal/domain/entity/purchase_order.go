package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una orden de compra.
// El estado es función pura de las cantidades recibidas vs. pedidas:
// nunca se asigna a mano fuera del reconciliador de estado.
const (
	OrderStatusDraft             = "DRAFT"
	OrderStatusConfirmed         = "CONFIRMED"
	OrderStatusPartiallyReceived = "PARTIALLY_RECEIVED"
	OrderStatusReceived          = "RECEIVED"
	OrderStatusCancelled         = "CANCELLED"
)

// PurchaseOrder representa un compromiso de compra con un proveedor.
type PurchaseOrder struct {
	ID         string
	CompanyID  string
	OrderNumber string // PO-NNNNNN, legible para humanos
	SupplierID string
	Status     string
	Subtotal   decimal.Decimal
	Total      decimal.Decimal
	Notes      string
	Items      []*PurchaseOrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time // soft delete: una orden borrada no es recibible
	CreatedBy  string
}

// PurchaseOrderItem es una línea pedida: producto, cantidad, precio unitario
// y la cantidad acumulada ya recibida. Invariante central del motor de
// recepción: 0 <= ReceivedQuantity <= Quantity en todo momento.
type PurchaseOrderItem struct {
	ID               string
	PurchaseOrderID  string
	ProductID        string
	Quantity         decimal.Decimal
	ReceivedQuantity decimal.Decimal
	UnitPrice        decimal.Decimal
	// Snapshot del producto para reportes (se congela al crear la orden).
	ProductName string
	ProductSKU  string
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Remaining devuelve la cantidad que aún se puede recibir de la línea.
func (i *PurchaseOrderItem) Remaining() decimal.Decimal {
	return i.Quantity.Sub(i.ReceivedQuantity)
}

// CanReceive indica si la orden admite recepciones en su estado actual.
// Solo CONFIRMED y PARTIALLY_RECEIVED son recibibles; RECEIVED y CANCELLED
// son terminales para este flujo.
func CanReceive(status string) bool {
	return status == OrderStatusConfirmed || status == OrderStatusPartiallyReceived
}
