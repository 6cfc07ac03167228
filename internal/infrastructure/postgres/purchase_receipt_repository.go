package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

var _ repository.PurchaseReceiptRepository = (*PurchaseReceiptRepo)(nil)

const receiptItemColumns = `id, purchase_receipt_id, purchase_order_item_id, warehouse_id,
	received_quantity, rejected_quantity, quality_status, batch_number, lot_number,
	expiry_date, notes, product_id, product_name, product_sku, unit_price, created_at`

// PurchaseReceiptRepo implementación sobre PostgreSQL (usable con pool o tx).
type PurchaseReceiptRepo struct {
	q Querier
}

// NewPurchaseReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseReceiptRepository(q Querier) *PurchaseReceiptRepo {
	return &PurchaseReceiptRepo{q: q}
}

// Create persiste la cabecera. Devuelve domain.ErrDuplicate si el
// receipt_number ya existe (constraint UNIQUE).
func (r *PurchaseReceiptRepo) Create(receipt *entity.PurchaseReceipt) error {
	query := `
		INSERT INTO purchase_receipts (id, receipt_number, purchase_order_id, status, received_date,
			received_by, notes, delivery_note, invoice_number, carrier_name, tracking_number,
			total_packages, quality_check_required, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		receipt.ID, receipt.ReceiptNumber, receipt.PurchaseOrderID, receipt.Status, receipt.ReceivedDate,
		receipt.ReceivedBy, receipt.Notes, receipt.DeliveryNote, receipt.InvoiceNumber, receipt.CarrierName,
		receipt.TrackingNumber, receipt.TotalPackages, receipt.QualityCheckRequired, receipt.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase receipt: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de recepción.
func (r *PurchaseReceiptRepo) CreateItem(item *entity.PurchaseReceiptItem) error {
	query := `
		INSERT INTO purchase_receipt_items (` + receiptItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.PurchaseReceiptID, item.PurchaseOrderItemID, item.WarehouseID,
		item.ReceivedQuantity, item.RejectedQuantity, item.QualityStatus, nullIfEmpty(item.BatchNumber),
		nullIfEmpty(item.LotNumber), item.ExpiryDate, item.Notes, item.ProductID,
		item.ProductName, item.ProductSKU, item.UnitPrice, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert receipt item: %w", err)
	}
	return nil
}

// GetByID obtiene la recepción con sus líneas. (nil, nil) si no existe.
func (r *PurchaseReceiptRepo) GetByID(id string) (*entity.PurchaseReceipt, error) {
	ctx := context.Background()
	query := `
		SELECT id, receipt_number, purchase_order_id, status, received_date, received_by,
			notes, delivery_note, invoice_number, carrier_name, tracking_number,
			total_packages, quality_check_required, created_at
		FROM purchase_receipts WHERE id = $1`
	rec, err := scanReceipt(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase receipt: %w", err)
	}
	items, err := r.listItems(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	rec.Items = items
	return rec, nil
}

// ListByOrder devuelve las recepciones de una orden con sus líneas,
// más recientes primero.
func (r *PurchaseReceiptRepo) ListByOrder(purchaseOrderID string) ([]*entity.PurchaseReceipt, error) {
	ctx := context.Background()
	query := `
		SELECT id, receipt_number, purchase_order_id, status, received_date, received_by,
			notes, delivery_note, invoice_number, carrier_name, tracking_number,
			total_packages, quality_check_required, created_at
		FROM purchase_receipts WHERE purchase_order_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, purchaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseReceipt
	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, rec := range list {
		items, err := r.listItems(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		rec.Items = items
	}
	return list, nil
}

// MaxReceiptNumber devuelve el consecutivo más alto de receipt_number (RCP-NNNNNN).
func (r *PurchaseReceiptRepo) MaxReceiptNumber() (int, error) {
	query := `
		SELECT COALESCE(MAX(CAST(SUBSTRING(receipt_number FROM 5) AS INTEGER)), 0)
		FROM purchase_receipts WHERE receipt_number LIKE 'RCP-%'`
	var max int
	if err := r.q.QueryRow(context.Background(), query).Scan(&max); err != nil {
		return 0, fmt.Errorf("max receipt number: %w", err)
	}
	return max, nil
}

func (r *PurchaseReceiptRepo) listItems(ctx context.Context, receiptID string) ([]*entity.PurchaseReceiptItem, error) {
	query := `SELECT ` + receiptItemColumns + `
		FROM purchase_receipt_items WHERE purchase_receipt_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, receiptID)
	if err != nil {
		return nil, fmt.Errorf("list receipt items: %w", err)
	}
	defer rows.Close()
	var items []*entity.PurchaseReceiptItem
	for rows.Next() {
		var it entity.PurchaseReceiptItem
		var batch, lot, notes *string
		if err := rows.Scan(&it.ID, &it.PurchaseReceiptID, &it.PurchaseOrderItemID, &it.WarehouseID,
			&it.ReceivedQuantity, &it.RejectedQuantity, &it.QualityStatus, &batch, &lot,
			&it.ExpiryDate, &notes, &it.ProductID, &it.ProductName, &it.ProductSKU,
			&it.UnitPrice, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan receipt item: %w", err)
		}
		if batch != nil {
			it.BatchNumber = *batch
		}
		if lot != nil {
			it.LotNumber = *lot
		}
		if notes != nil {
			it.Notes = *notes
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func scanReceipt(row pgx.Row) (*entity.PurchaseReceipt, error) {
	var rec entity.PurchaseReceipt
	var notes, deliveryNote, invoiceNumber, carrier, tracking *string
	err := row.Scan(&rec.ID, &rec.ReceiptNumber, &rec.PurchaseOrderID, &rec.Status, &rec.ReceivedDate,
		&rec.ReceivedBy, &notes, &deliveryNote, &invoiceNumber, &carrier, &tracking,
		&rec.TotalPackages, &rec.QualityCheckRequired, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		rec.Notes = *notes
	}
	if deliveryNote != nil {
		rec.DeliveryNote = *deliveryNote
	}
	if invoiceNumber != nil {
		rec.InvoiceNumber = *invoiceNumber
	}
	if carrier != nil {
		rec.CarrierName = *carrier
	}
	if tracking != nil {
		rec.TrackingNumber = *tracking
	}
	return &rec, nil
}
