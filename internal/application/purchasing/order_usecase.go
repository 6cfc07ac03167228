// Package purchasing contiene los casos de uso de órdenes de compra:
// creación en borrador, confirmación, cancelación y consulta.
package purchasing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

// OrderUseCase casos de uso de órdenes de compra.
type OrderUseCase struct {
	orderRepo    repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	orderRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
) *OrderUseCase {
	return &OrderUseCase{orderRepo: orderRepo, supplierRepo: supplierRepo, productRepo: productRepo}
}

// Create crea una orden en DRAFT con snapshot de los productos en las líneas.
func (uc *OrderUseCase) Create(companyID, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.CompanyID != companyID {
		return nil, fmt.Errorf("proveedor: %w", domain.ErrNotFound)
	}

	now := time.Now()
	last, err := uc.orderRepo.MaxOrderNumber()
	if err != nil {
		return nil, err
	}
	order := &entity.PurchaseOrder{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		OrderNumber: fmt.Sprintf("PO-%06d", last+1),
		SupplierID:  in.SupplierID,
		Status:      entity.OrderStatusDraft,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   userID,
	}

	subtotal := decimal.Zero
	for _, line := range in.Items {
		if !line.Quantity.GreaterThan(decimal.Zero) || line.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.CompanyID != companyID {
			return nil, fmt.Errorf("producto %s: %w", line.ProductID, domain.ErrNotFound)
		}
		item := &entity.PurchaseOrderItem{
			ID:               uuid.New().String(),
			PurchaseOrderID:  order.ID,
			ProductID:        product.ID,
			Quantity:         line.Quantity,
			ReceivedQuantity: decimal.Zero,
			UnitPrice:        line.UnitPrice,
			ProductName:      product.Name,
			ProductSKU:       product.SKU,
			UnitMeasure:      product.UnitMeasure,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		subtotal = subtotal.Add(line.Quantity.Mul(line.UnitPrice))
		order.Items = append(order.Items, item)
	}
	order.Subtotal = subtotal
	order.Total = subtotal

	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// Confirm pasa la orden de DRAFT a CONFIRMED (la vuelve recibible).
func (uc *OrderUseCase) Confirm(companyID, orderID string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.getOwned(companyID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusDraft {
		return nil, domain.ErrInvalidState
	}
	if err := uc.orderRepo.UpdateStatus(orderID, entity.OrderStatusConfirmed); err != nil {
		return nil, err
	}
	order.Status = entity.OrderStatusConfirmed
	return toOrderResponse(order), nil
}

// Cancel cancela una orden no terminal. CANCELLED es terminal: una orden
// cancelada no vuelve a ser recibible.
func (uc *OrderUseCase) Cancel(companyID, orderID string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.getOwned(companyID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == entity.OrderStatusReceived || order.Status == entity.OrderStatusCancelled {
		return nil, domain.ErrInvalidState
	}
	if err := uc.orderRepo.UpdateStatus(orderID, entity.OrderStatusCancelled); err != nil {
		return nil, err
	}
	order.Status = entity.OrderStatusCancelled
	return toOrderResponse(order), nil
}

// GetByID devuelve una orden con sus líneas.
func (uc *OrderUseCase) GetByID(companyID, orderID string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.getOwned(companyID, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// List lista órdenes de la empresa, opcionalmente filtradas por estado.
func (uc *OrderUseCase) List(companyID, status string, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	page.DefaultPage()
	orders, err := uc.orderRepo.ListByCompany(companyID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func (uc *OrderUseCase) getOwned(companyID, orderID string) (*entity.PurchaseOrder, error) {
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
	return order, nil
}

func toOrderResponse(o *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	items := make([]dto.PurchaseOrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.PurchaseOrderItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			ProductName:      it.ProductName,
			ProductSKU:       it.ProductSKU,
			Quantity:         it.Quantity,
			ReceivedQuantity: it.ReceivedQuantity,
			Remaining:        it.Remaining(),
			UnitPrice:        it.UnitPrice,
			UnitMeasure:      it.UnitMeasure,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		SupplierID:  o.SupplierID,
		Status:      o.Status,
		Subtotal:    o.Subtotal,
		Total:       o.Total,
		Notes:       o.Notes,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
