package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveItemRequest una línea del body de recepción.
type ReceiveItemRequest struct {
	PurchaseOrderItemID string          `json:"purchase_order_item_id" validate:"required,uuid"`
	ReceivedQuantity    decimal.Decimal `json:"received_quantity"`
	WarehouseID         string          `json:"warehouse_id" validate:"required,uuid"`
	QualityStatus       string          `json:"quality_status" validate:"omitempty,oneof=ACCEPTED REJECTED PENDING"`
	RejectedQuantity    decimal.Decimal `json:"rejected_quantity"`
	Notes               string          `json:"notes,omitempty"`
	ExpiryDate          *time.Time      `json:"expiry_date,omitempty"`
	BatchNumber         string          `json:"batch_number,omitempty"`
	LotNumber           string          `json:"lot_number,omitempty"`
}

// ReceiveOrderRequest body para POST /api/purchase-orders/:id/receive.
// Requiere al menos una línea.
type ReceiveOrderRequest struct {
	Items                []ReceiveItemRequest `json:"items" validate:"required,min=1,dive"`
	ReceivedDate         *time.Time           `json:"received_date,omitempty"`
	Notes                string               `json:"notes,omitempty"`
	DeliveryNote         string               `json:"delivery_note,omitempty"`
	InvoiceNumber        string               `json:"invoice_number,omitempty"`
	QualityCheckRequired bool                 `json:"quality_check_required,omitempty"`
	TotalPackages        int                  `json:"total_packages,omitempty"`
	CarrierName          string               `json:"carrier_name,omitempty"`
	TrackingNumber       string               `json:"tracking_number,omitempty"`
}

// StockUpdateDTO describe el cambio aplicado a una fila de stock.
type StockUpdateDTO struct {
	ProductID        string          `json:"product_id"`
	WarehouseID      string          `json:"warehouse_id"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	QuantityChange   decimal.Decimal `json:"quantity_change"`
}

// MovementRecordDTO describe un asiento de inventario creado.
type MovementRecordDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	WarehouseID  string          `json:"warehouse_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	MovementType string          `json:"movement_type"`
}

// LineFailureDTO una línea cuya fase de inventario falló (política best-effort:
// las demás líneas siguen; el caller ve exactamente qué quedó sin aplicar).
type LineFailureDTO struct {
	PurchaseOrderItemID string `json:"purchase_order_item_id"`
	Reason              string `json:"reason"`
}

// ReceiveSummaryDTO resumen de la operación de recepción.
type ReceiveSummaryDTO struct {
	ItemsReceived         int             `json:"items_received"`
	TotalQuantityReceived decimal.Decimal `json:"total_quantity_received"`
	StockLocationsUpdated int             `json:"stock_locations_updated"`
	MovementsCreated      int             `json:"movements_created"`
	LinesFailed           int             `json:"lines_failed"`
	Failures              []LineFailureDTO `json:"failures,omitempty"`
}

// ReceiptItemResponse línea de recepción hidratada para respuesta.
type ReceiptItemResponse struct {
	ID                  string          `json:"id"`
	PurchaseOrderItemID string          `json:"purchase_order_item_id"`
	WarehouseID         string          `json:"warehouse_id"`
	ReceivedQuantity    decimal.Decimal `json:"received_quantity"`
	RejectedQuantity    decimal.Decimal `json:"rejected_quantity"`
	QualityStatus       string          `json:"quality_status"`
	BatchNumber         string          `json:"batch_number,omitempty"`
	LotNumber           string          `json:"lot_number,omitempty"`
	ExpiryDate          *time.Time      `json:"expiry_date,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	ProductID           string          `json:"product_id"`
	ProductName         string          `json:"product_name"`
	ProductSKU          string          `json:"product_sku"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
}

// ReceiptSummaryResponse resumen calculado de una recepción (GET histórico).
type ReceiptSummaryResponse struct {
	ItemsCount       int             `json:"items_count"`
	TotalQuantity    decimal.Decimal `json:"total_quantity"`
	AcceptedQuantity decimal.Decimal `json:"accepted_quantity"`
	RejectedQuantity decimal.Decimal `json:"rejected_quantity"`
}

// ReceiptResponse una recepción con sus líneas y resumen.
type ReceiptResponse struct {
	ID              string                 `json:"id"`
	ReceiptNumber   string                 `json:"receipt_number"`
	PurchaseOrderID string                 `json:"purchase_order_id"`
	Status          string                 `json:"status"`
	ReceivedDate    time.Time              `json:"received_date"`
	ReceivedBy      string                 `json:"received_by"`
	Notes           string                 `json:"notes,omitempty"`
	DeliveryNote    string                 `json:"delivery_note,omitempty"`
	InvoiceNumber   string                 `json:"invoice_number,omitempty"`
	CarrierName     string                 `json:"carrier_name,omitempty"`
	TrackingNumber  string                 `json:"tracking_number,omitempty"`
	TotalPackages   int                    `json:"total_packages,omitempty"`
	Items           []ReceiptItemResponse  `json:"items"`
	Summary         ReceiptSummaryResponse `json:"summary"`
	CreatedAt       time.Time              `json:"created_at"`
}

// ReceiveOrderResponse respuesta 201 del endpoint de recepción: qué se
// persistió, qué stock se tocó y en qué estado quedó la orden. Nunca declara
// éxito total si alguna línea quedó sin aplicar.
type ReceiveOrderResponse struct {
	Receipt             ReceiptResponse     `json:"receipt"`
	StockUpdates        []StockUpdateDTO    `json:"stock_updates"`
	MovementRecords     []MovementRecordDTO `json:"movement_records"`
	PurchaseOrderStatus string              `json:"purchase_order_status"`
	Summary             ReceiveSummaryDTO   `json:"summary"`
}
