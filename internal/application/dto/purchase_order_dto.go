package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderItemRequest línea de una orden nueva.
type CreatePurchaseOrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseOrderRequest entrada para crear una orden de compra (DRAFT).
type CreatePurchaseOrderRequest struct {
	SupplierID string                           `json:"supplier_id" validate:"required,uuid"`
	Notes      string                           `json:"notes,omitempty"`
	Items      []CreatePurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseOrderItemResponse línea de orden en respuestas.
type PurchaseOrderItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ProductSKU       string          `json:"product_sku"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	Remaining        decimal.Decimal `json:"remaining"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	UnitMeasure      string          `json:"unit_measure,omitempty"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID          string                      `json:"id"`
	OrderNumber string                      `json:"order_number"`
	SupplierID  string                      `json:"supplier_id"`
	Status      string                      `json:"status"`
	Subtotal    decimal.Decimal             `json:"subtotal"`
	Total       decimal.Decimal             `json:"total"`
	Notes       string                      `json:"notes,omitempty"`
	Items       []PurchaseOrderItemResponse `json:"items,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
