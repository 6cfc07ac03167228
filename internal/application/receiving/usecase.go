package receiving

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	domreceiving "github.com/jhoicas/compras-api/internal/domain/receiving"
	"github.com/jhoicas/compras-api/internal/domain/repository"
	"github.com/jhoicas/compras-api/pkg/logger"
)

// Config política de negocio del motor de recepción.
type Config struct {
	// CreditRejectedToLedger: si true, las líneas rechazadas también suman al
	// received_quantity de la línea de orden (recepción "de papelería", como
	// el sistema heredado); si false, solo las aceptadas alimentan el libro,
	// manteniéndolo consistente con el stock. Decisión de negocio expuesta en
	// configuración, no cableada.
	CreditRejectedToLedger bool
	// NumberMaxRetries reintentos de numeración RCP ante colisión del UNIQUE.
	NumberMaxRetries int
}

// ReceiveOrderUseCase es el motor de recepción de mercancía contra órdenes de
// compra: valida, registra la recepción, aplica stock y asientos por línea
// aceptada, incrementa el libro de cantidades y reconcilia el estado de la
// orden.
//
// Fases:
//  1. Validación de solo lectura (sin efectos; segura de repetir).
//  2. Una transacción: cabecera + líneas de la recepción (numeración RCP con
//     reintento ante 23505).
//  3. Por línea: una transacción {bloqueo de stock + upsert, asiento de
//     inventario (idempotente por receipt_item_id), incremento condicional del
//     libro}. Fallo de una línea no detiene las demás (best-effort explícito).
//  4. Reconciliación del estado de la orden desde los totales en DB.
type ReceiveOrderUseCase struct {
	txRunner      TxRunner
	orderRepo     repository.PurchaseOrderRepository
	warehouseRepo repository.WarehouseRepository
	receiptRepo   repository.PurchaseReceiptRepository
	supplierRepo  repository.SupplierRepository
	cfg           Config
	log           *logger.Logger
}

// NewReceiveOrderUseCase construye el caso de uso.
func NewReceiveOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.PurchaseOrderRepository,
	warehouseRepo repository.WarehouseRepository,
	receiptRepo repository.PurchaseReceiptRepository,
	supplierRepo repository.SupplierRepository,
	cfg Config,
	log *logger.Logger,
) *ReceiveOrderUseCase {
	if cfg.NumberMaxRetries <= 0 {
		cfg.NumberMaxRetries = 3
	}
	return &ReceiveOrderUseCase{
		txRunner:      txRunner,
		orderRepo:     orderRepo,
		warehouseRepo: warehouseRepo,
		receiptRepo:   receiptRepo,
		supplierRepo:  supplierRepo,
		cfg:           cfg,
		log:           log,
	}
}

// Receive ejecuta el flujo completo de recepción para una orden.
func (uc *ReceiveOrderUseCase) Receive(ctx context.Context, companyID, userID, orderID string, in dto.ReceiveOrderRequest) (*dto.ReceiveOrderResponse, error) {
	if err := validateRequest(in); err != nil {
		return nil, err
	}

	// ── Fase 1: validación de solo lectura ────────────────────────────────
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
	if !entity.CanReceive(order.Status) {
		return nil, domain.ErrInvalidState
	}

	itemsByID := make(map[string]*entity.PurchaseOrderItem, len(order.Items))
	for _, it := range order.Items {
		itemsByID[it.ID] = it
	}

	// Sobre-recepción: se valida acumulando lo propuesto por línea de orden,
	// porque una misma recepción puede traer varias líneas contra el mismo
	// ítem (p.ej. a bodegas distintas).
	proposed := make(map[string]decimal.Decimal)
	for _, line := range in.Items {
		poItem, ok := itemsByID[line.PurchaseOrderItemID]
		if !ok {
			return nil, fmt.Errorf("línea de orden %s: %w", line.PurchaseOrderItemID, domain.ErrNotFound)
		}
		// El cupo restante descuenta lo ya propuesto por líneas anteriores de
		// esta misma petición contra el mismo ítem.
		remaining := poItem.Remaining().Sub(proposed[poItem.ID])
		if line.ReceivedQuantity.GreaterThan(remaining) {
			return nil, &domain.OverReceiptError{
				PurchaseOrderItemID: poItem.ID,
				ProductName:         poItem.ProductName,
				Requested:           line.ReceivedQuantity,
				Remaining:           remaining,
			}
		}
		proposed[poItem.ID] = proposed[poItem.ID].Add(line.ReceivedQuantity)
	}

	if err := uc.resolveWarehouses(order.CompanyID, in.Items); err != nil {
		return nil, err
	}

	// ── Fase 2: cabecera + líneas en una transacción ──────────────────────
	receivedDate := time.Now()
	if in.ReceivedDate != nil {
		receivedDate = *in.ReceivedDate
	}
	receipt, err := uc.recordReceipt(ctx, order, userID, receivedDate, in, itemsByID)
	if err != nil {
		return nil, err
	}

	// ── Fase 3: inventario + libro, por línea, best-effort ────────────────
	supplierName := uc.supplierName(order.SupplierID)
	stockUpdates := make([]dto.StockUpdateDTO, 0, len(receipt.Items))
	movementRecords := make([]dto.MovementRecordDTO, 0, len(receipt.Items))
	var failures []dto.LineFailureDTO

	for _, line := range receipt.Items {
		applied, err := uc.applyLine(ctx, order, receipt, line, supplierName, receivedDate, userID)
		if err != nil {
			// Política best-effort: la línea fallida se registra y se sigue
			// con las demás; el resumen la expone al caller.
			uc.log.Warn().Err(err).
				Str("receipt", receipt.ReceiptNumber).
				Str("order_item", line.PurchaseOrderItemID).
				Msg("línea de recepción sin aplicar a inventario")
			failures = append(failures, dto.LineFailureDTO{
				PurchaseOrderItemID: line.PurchaseOrderItemID,
				Reason:              err.Error(),
			})
			continue
		}
		if applied != nil {
			stockUpdates = append(stockUpdates, applied.stockUpdate)
			movementRecords = append(movementRecords, applied.movement)
		}
	}

	// ── Fase 4: reconciliar estado de la orden desde los totales en DB ────
	newStatus, err := uc.ReconcileStatus(ctx, order.ID)
	if err != nil {
		// El estado se puede recalcular después (la función es idempotente);
		// no invalida la recepción ya persistida.
		uc.log.Error().Err(err).Str("order", order.ID).Msg("reconciliación de estado falló")
		newStatus = order.Status
	}

	resp := buildResponse(receipt, stockUpdates, movementRecords, newStatus, failures)
	return resp, nil
}

// validateRequest valida forma del body antes de tocar la DB.
func validateRequest(in dto.ReceiveOrderRequest) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("se requiere al menos una línea: %w", domain.ErrInvalidInput)
	}
	for _, line := range in.Items {
		if line.PurchaseOrderItemID == "" || line.WarehouseID == "" {
			return domain.ErrInvalidInput
		}
		if line.ReceivedQuantity.LessThan(decimal.Zero) || line.RejectedQuantity.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		switch line.QualityStatus {
		case "", entity.QualityAccepted, entity.QualityRejected, entity.QualityPending:
		default:
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// resolveWarehouses resuelve las bodegas referenciadas como lote deduplicado
// (una consulta, no una por línea) y exige que existan, estén activas y
// pertenezcan a la empresa dueña de la orden. Una bodega de otra empresa se
// reporta como inexistente para no revelar su existencia.
func (uc *ReceiveOrderUseCase) resolveWarehouses(companyID string, lines []dto.ReceiveItemRequest) error {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if !seen[l.WarehouseID] {
			seen[l.WarehouseID] = true
			ids = append(ids, l.WarehouseID)
		}
	}
	warehouses, err := uc.warehouseRepo.GetByIDs(ids)
	if err != nil {
		return err
	}
	if len(warehouses) != len(ids) {
		return fmt.Errorf("bodega: %w", domain.ErrNotFound)
	}
	for _, w := range warehouses {
		if w.CompanyID != companyID {
			return fmt.Errorf("bodega: %w", domain.ErrNotFound)
		}
		if !w.IsActive {
			return fmt.Errorf("bodega %s: %w", w.Name, domain.ErrInactiveWarehouse)
		}
	}
	return nil
}

// recordReceipt persiste cabecera + líneas en una sola transacción. La
// numeración RCP-NNNNNN se toma del máximo existente dentro de la tx; si otro
// proceso ganó el número (violación del UNIQUE), se reintenta completo hasta
// NumberMaxRetries veces.
func (uc *ReceiveOrderUseCase) recordReceipt(
	ctx context.Context,
	order *entity.PurchaseOrder,
	userID string,
	receivedDate time.Time,
	in dto.ReceiveOrderRequest,
	itemsByID map[string]*entity.PurchaseOrderItem,
) (*entity.PurchaseReceipt, error) {
	var receipt *entity.PurchaseReceipt

	for attempt := 0; attempt < uc.cfg.NumberMaxRetries; attempt++ {
		err := uc.txRunner.Run(ctx, func(
			receiptRepo repository.PurchaseReceiptRepository,
			_ repository.StockRepository,
			_ repository.StockMovementRepository,
			_ repository.PurchaseOrderRepository,
		) error {
			last, err := receiptRepo.MaxReceiptNumber()
			if err != nil {
				return err
			}
			now := time.Now()
			r := &entity.PurchaseReceipt{
				ID:                   uuid.New().String(),
				ReceiptNumber:        fmt.Sprintf("RCP-%06d", last+1),
				PurchaseOrderID:      order.ID,
				Status:               entity.ReceiptStatusCompleted,
				ReceivedDate:         receivedDate,
				ReceivedBy:           userID,
				Notes:                in.Notes,
				DeliveryNote:         in.DeliveryNote,
				InvoiceNumber:        in.InvoiceNumber,
				CarrierName:          in.CarrierName,
				TrackingNumber:       in.TrackingNumber,
				TotalPackages:        in.TotalPackages,
				QualityCheckRequired: in.QualityCheckRequired,
				CreatedAt:            now,
			}
			if err := receiptRepo.Create(r); err != nil {
				return err
			}
			for _, line := range in.Items {
				poItem := itemsByID[line.PurchaseOrderItemID]
				quality := line.QualityStatus
				if quality == "" {
					quality = entity.QualityAccepted
				}
				item := &entity.PurchaseReceiptItem{
					ID:                  uuid.New().String(),
					PurchaseReceiptID:   r.ID,
					PurchaseOrderItemID: poItem.ID,
					WarehouseID:         line.WarehouseID,
					ReceivedQuantity:    line.ReceivedQuantity,
					RejectedQuantity:    line.RejectedQuantity,
					QualityStatus:       quality,
					BatchNumber:         line.BatchNumber,
					LotNumber:           line.LotNumber,
					ExpiryDate:          line.ExpiryDate,
					Notes:               line.Notes,
					ProductID:           poItem.ProductID,
					ProductName:         poItem.ProductName,
					ProductSKU:          poItem.ProductSKU,
					UnitPrice:           poItem.UnitPrice,
					CreatedAt:           now,
				}
				if err := receiptRepo.CreateItem(item); err != nil {
					return err
				}
				r.Items = append(r.Items, item)
			}
			receipt = r
			return nil
		})
		if err == nil {
			return receipt, nil
		}
		if errors.Is(err, domain.ErrDuplicate) {
			continue // otro proceso ganó el número; reintentar con el siguiente
		}
		return nil, err
	}
	return nil, fmt.Errorf("numeración de recepción agotó %d reintentos: %w", uc.cfg.NumberMaxRetries, domain.ErrDuplicate)
}

// appliedLine resultado de la fase de inventario de una línea.
type appliedLine struct {
	stockUpdate dto.StockUpdateDTO
	movement    dto.MovementRecordDTO
}

// applyLine ejecuta la fase de inventario de una línea en su propia
// transacción: bloqueo de stock + upsert + asiento + incremento condicional
// del libro. Solo la calidad ACEPTADA con cantidad positiva toca stock; el
// crédito al libro para rechazadas depende de CreditRejectedToLedger.
// Devuelve (nil, nil) para líneas que no requieren ningún efecto.
func (uc *ReceiveOrderUseCase) applyLine(
	ctx context.Context,
	order *entity.PurchaseOrder,
	receipt *entity.PurchaseReceipt,
	line *entity.PurchaseReceiptItem,
	supplierName string,
	receivedDate time.Time,
	userID string,
) (*appliedLine, error) {
	creditsLedger := line.Accepted() ||
		(uc.cfg.CreditRejectedToLedger && line.ReceivedQuantity.GreaterThan(decimal.Zero))
	if !line.Accepted() && !creditsLedger {
		return nil, nil // solo papelería: ni stock ni libro
	}

	var result *appliedLine
	err := uc.txRunner.Run(ctx, func(
		_ repository.PurchaseReceiptRepository,
		stockRepo repository.StockRepository,
		movementRepo repository.StockMovementRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		if line.Accepted() {
			stock, err := stockRepo.GetForUpdate(line.ProductID, line.WarehouseID)
			if err != nil {
				return err
			}
			previous := stock.Quantity
			stock.Quantity = stock.Quantity.Add(line.ReceivedQuantity)
			stock.UpdatedAt = time.Now()
			if err := stockRepo.Upsert(stock); err != nil {
				return err
			}

			mov := &entity.StockMovement{
				ID:              uuid.New().String(),
				ProductID:       line.ProductID,
				WarehouseID:     line.WarehouseID,
				Type:            entity.MovementIn,
				Subtype:         entity.MovementSubtypePurchaseReceipt,
				Quantity:        line.ReceivedQuantity,
				UnitCost:        line.UnitPrice,
				TotalCost:       line.ReceivedQuantity.Mul(line.UnitPrice),
				ReferenceID:     receipt.ID,
				ReferenceNumber: receipt.ReceiptNumber,
				ReceiptItemID:   line.ID,
				BatchNumber:     line.BatchNumber,
				ExpiryDate:      line.ExpiryDate,
				Notes:           fmt.Sprintf("Recepción de compra OC %s - %s", order.OrderNumber, supplierName),
				MovementDate:    receivedDate,
				CreatedAt:       time.Now(),
				CreatedBy:       userID,
			}
			if err := movementRepo.Create(mov); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					// Reintento de una línea ya aplicada: el asiento existe,
					// no se duplica stock ni libro.
					return errAlreadyApplied
				}
				return err
			}

			result = &appliedLine{
				stockUpdate: dto.StockUpdateDTO{
					ProductID:        line.ProductID,
					WarehouseID:      line.WarehouseID,
					PreviousQuantity: previous,
					NewQuantity:      stock.Quantity,
					QuantityChange:   line.ReceivedQuantity,
				},
				movement: dto.MovementRecordDTO{
					ProductID:    line.ProductID,
					ProductName:  line.ProductName,
					WarehouseID:  line.WarehouseID,
					Quantity:     line.ReceivedQuantity,
					MovementType: entity.MovementIn,
				},
			}
		}

		if creditsLedger {
			ok, remaining, err := orderRepo.IncrementReceived(line.PurchaseOrderItemID, line.ReceivedQuantity)
			if err != nil {
				return err
			}
			if !ok {
				// Recepción concurrente ganó la carrera: el incremento
				// condicional no se cumplió y la tx de la línea se revierte.
				return &domain.OverReceiptError{
					PurchaseOrderItemID: line.PurchaseOrderItemID,
					ProductName:         line.ProductName,
					Requested:           line.ReceivedQuantity,
					Remaining:           remaining,
				}
			}
		}
		return nil
	})
	if errors.Is(err, errAlreadyApplied) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// errAlreadyApplied señal interna: el asiento de la línea ya existía
// (reintento idempotente), no hay nada que aplicar ni que reportar como fallo.
var errAlreadyApplied = errors.New("línea ya aplicada")

// ReconcileStatus recalcula el estado de la orden desde los totales del libro
// en DB y lo persiste si cambió. Idempotente: seguro de ejecutar como trabajo
// de reparación.
func (uc *ReceiveOrderUseCase) ReconcileStatus(ctx context.Context, orderID string) (string, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return "", err
	}
	if order == nil {
		return "", domain.ErrNotFound
	}
	ordered, received, err := uc.orderRepo.SumQuantities(orderID)
	if err != nil {
		return "", err
	}
	newStatus := domreceiving.DeriveStatus(ordered, received, order.Status)
	if newStatus != order.Status {
		if err := uc.orderRepo.UpdateStatus(orderID, newStatus); err != nil {
			return "", err
		}
	}
	return newStatus, nil
}

// supplierName resuelve el nombre del proveedor para la nota del asiento;
// si falla se usa el ID (la nota es informativa, no bloquea la recepción).
func (uc *ReceiveOrderUseCase) supplierName(supplierID string) string {
	s, err := uc.supplierRepo.GetByID(supplierID)
	if err != nil || s == nil {
		return supplierID
	}
	return s.Name
}

func buildResponse(
	receipt *entity.PurchaseReceipt,
	stockUpdates []dto.StockUpdateDTO,
	movementRecords []dto.MovementRecordDTO,
	orderStatus string,
	failures []dto.LineFailureDTO,
) *dto.ReceiveOrderResponse {
	totalQty := decimal.Zero
	for _, it := range receipt.Items {
		totalQty = totalQty.Add(it.ReceivedQuantity)
	}
	return &dto.ReceiveOrderResponse{
		Receipt:             toReceiptResponse(receipt),
		StockUpdates:        stockUpdates,
		MovementRecords:     movementRecords,
		PurchaseOrderStatus: orderStatus,
		Summary: dto.ReceiveSummaryDTO{
			ItemsReceived:         len(receipt.Items),
			TotalQuantityReceived: totalQty,
			StockLocationsUpdated: len(stockUpdates),
			MovementsCreated:      len(movementRecords),
			LinesFailed:           len(failures),
			Failures:              failures,
		},
	}
}
