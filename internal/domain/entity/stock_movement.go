package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección de un movimiento de inventario.
const (
	MovementIn  = "IN"
	MovementOut = "OUT"
)

// Subtipos de movimiento (origen del asiento).
const (
	MovementSubtypePurchaseReceipt = "PURCHASE_RECEIPT"
	MovementSubtypeAdjustment      = "ADJUSTMENT"
	MovementSubtypeTransfer        = "TRANSFER"
)

// StockMovement es un asiento inmutable del libro de inventario: se crea
// exactamente una vez por línea de recepción aceptada que actualizó stock,
// nunca se muta ni se borra.
type StockMovement struct {
	ID          string
	ProductID   string
	WarehouseID string
	Type        string // IN | OUT
	Subtype     string // PURCHASE_RECEIPT, ADJUSTMENT, ...
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal // precio unitario de la línea de orden, no de la recepción
	TotalCost   decimal.Decimal
	// Referencia al documento origen. ReceiptItemID es la llave natural de
	// idempotencia: un reintento de la misma línea no duplica el asiento.
	ReferenceID     string // ID de la recepción
	ReferenceNumber string // RCP-NNNNNN
	ReceiptItemID   string
	BatchNumber     string
	ExpiryDate      *time.Time
	Notes           string
	MovementDate    time.Time
	CreatedAt       time.Time
	CreatedBy       string
}
