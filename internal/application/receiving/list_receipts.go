package receiving

import (
	"context"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	domreceiving "github.com/jhoicas/compras-api/internal/domain/receiving"
)

// ListReceipts devuelve el histórico de recepciones de una orden, cada una
// con su resumen calculado (conteo de líneas, total/aceptado/rechazado).
func (uc *ReceiveOrderUseCase) ListReceipts(_ context.Context, companyID, orderID string) ([]dto.ReceiptResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	receipts, err := uc.receiptRepo.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		out = append(out, toReceiptResponse(r))
	}
	return out, nil
}

// toReceiptResponse hidrata una recepción con líneas y resumen para la API.
func toReceiptResponse(r *entity.PurchaseReceipt) dto.ReceiptResponse {
	items := make([]dto.ReceiptItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.ReceiptItemResponse{
			ID:                  it.ID,
			PurchaseOrderItemID: it.PurchaseOrderItemID,
			WarehouseID:         it.WarehouseID,
			ReceivedQuantity:    it.ReceivedQuantity,
			RejectedQuantity:    it.RejectedQuantity,
			QualityStatus:       it.QualityStatus,
			BatchNumber:         it.BatchNumber,
			LotNumber:           it.LotNumber,
			ExpiryDate:          it.ExpiryDate,
			Notes:               it.Notes,
			ProductID:           it.ProductID,
			ProductName:         it.ProductName,
			ProductSKU:          it.ProductSKU,
			UnitPrice:           it.UnitPrice,
		})
	}
	s := domreceiving.Summarize(r.Items)
	return dto.ReceiptResponse{
		ID:              r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		PurchaseOrderID: r.PurchaseOrderID,
		Status:          r.Status,
		ReceivedDate:    r.ReceivedDate,
		ReceivedBy:      r.ReceivedBy,
		Notes:           r.Notes,
		DeliveryNote:    r.DeliveryNote,
		InvoiceNumber:   r.InvoiceNumber,
		CarrierName:     r.CarrierName,
		TrackingNumber:  r.TrackingNumber,
		TotalPackages:   r.TotalPackages,
		Items:           items,
		Summary: dto.ReceiptSummaryResponse{
			ItemsCount:       s.ItemsCount,
			TotalQuantity:    s.TotalQuantity,
			AcceptedQuantity: s.AcceptedQuantity,
			RejectedQuantity: s.RejectedQuantity,
		},
		CreatedAt: r.CreatedAt,
	}
}
