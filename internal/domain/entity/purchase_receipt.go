package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de calidad de una línea de recepción.
const (
	QualityAccepted = "ACCEPTED"
	QualityRejected = "REJECTED"
	QualityPending  = "PENDING"
)

// ReceiptStatusCompleted: una recepción queda COMPLETED al crearse y no se
// muta después (append-only; no hay máquina de estados de recepción parcial).
const ReceiptStatusCompleted = "COMPLETED"

// PurchaseReceipt representa un evento de recepción contra una orden de compra:
// es la unidad de atomicidad de "una entrega". Cabecera + líneas se persisten
// en una sola transacción.
type PurchaseReceipt struct {
	ID              string
	ReceiptNumber   string // RCP-NNNNNN, secuencial legible (UNIQUE en DB)
	PurchaseOrderID string
	Status          string
	ReceivedDate    time.Time
	ReceivedBy      string
	Notes           string
	DeliveryNote    string
	InvoiceNumber   string
	CarrierName     string
	TrackingNumber  string
	TotalPackages   int
	QualityCheckRequired bool
	Items           []*PurchaseReceiptItem
	CreatedAt       time.Time
}

// PurchaseReceiptItem es una línea de recepción contra una línea de la orden.
// ReceivedQuantity >= 0; la suma de líneas de recepción de un mismo
// PurchaseOrderItem nunca supera su cantidad pedida.
type PurchaseReceiptItem struct {
	ID                  string
	PurchaseReceiptID   string
	PurchaseOrderItemID string
	WarehouseID         string
	ReceivedQuantity    decimal.Decimal
	RejectedQuantity    decimal.Decimal
	QualityStatus       string // ACCEPTED | REJECTED | PENDING
	BatchNumber         string
	LotNumber           string
	ExpiryDate          *time.Time
	Notes               string
	// Snapshot de la línea de orden para reportes.
	ProductID   string
	ProductName string
	ProductSKU  string
	UnitPrice   decimal.Decimal
	CreatedAt   time.Time
}

// Accepted indica si la línea suma a stock: solo calidad ACEPTADA con
// cantidad positiva toca inventario; rechazos y pendientes quedan solo
// en la papelería de la recepción.
func (i *PurchaseReceiptItem) Accepted() bool {
	return i.QualityStatus == QualityAccepted && i.ReceivedQuantity.GreaterThan(decimal.Zero)
}
