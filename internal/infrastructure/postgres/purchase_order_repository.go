package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación sobre PostgreSQL (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la orden y sus líneas.
func (r *PurchaseOrderRepo) Create(order *entity.PurchaseOrder) error {
	ctx := context.Background()
	query := `
		INSERT INTO purchase_orders (id, company_id, order_number, supplier_id, status, subtotal, total, notes, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.CompanyID, order.OrderNumber, order.SupplierID, order.Status,
		order.Subtotal, order.Total, order.Notes, order.CreatedAt, order.UpdatedAt, order.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	itemQuery := `
		INSERT INTO purchase_order_items (id, purchase_order_id, product_id, quantity, received_quantity, unit_price, product_name, product_sku, unit_measure, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, it := range order.Items {
		_, err := r.q.Exec(ctx, itemQuery,
			it.ID, it.PurchaseOrderID, it.ProductID, it.Quantity, it.ReceivedQuantity,
			it.UnitPrice, it.ProductName, it.ProductSKU, it.UnitMeasure, it.CreatedAt, it.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas; excluye soft-deleted. (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	ctx := context.Background()
	query := `
		SELECT id, company_id, order_number, supplier_id, status, subtotal, total, notes, created_at, updated_at, deleted_at, created_by
		FROM purchase_orders WHERE id = $1 AND deleted_at IS NULL`
	var o entity.PurchaseOrder
	var notes, createdBy *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.CompanyID, &o.OrderNumber, &o.SupplierID, &o.Status,
		&o.Subtotal, &o.Total, &notes, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if notes != nil {
		o.Notes = *notes
	}
	if createdBy != nil {
		o.CreatedBy = *createdBy
	}

	itemQuery := `
		SELECT id, purchase_order_id, product_id, quantity, received_quantity, unit_price, product_name, product_sku, unit_measure, created_at, updated_at
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, itemQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.Quantity, &it.ReceivedQuantity,
			&it.UnitPrice, &it.ProductName, &it.ProductSKU, &it.UnitMeasure, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByCompany lista órdenes (sin líneas) por empresa, opcionalmente por estado.
func (r *PurchaseOrderRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT id, company_id, order_number, supplier_id, status, subtotal, total, notes, created_at, updated_at, deleted_at, created_by
		FROM purchase_orders WHERE company_id = $1 AND deleted_at IS NULL`
	args := []any{companyID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var o entity.PurchaseOrder
		var notes, createdBy *string
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.OrderNumber, &o.SupplierID, &o.Status,
			&o.Subtotal, &o.Total, &notes, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		if notes != nil {
			o.Notes = *notes
		}
		if createdBy != nil {
			o.CreatedBy = *createdBy
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// MaxOrderNumber devuelve el consecutivo más alto de order_number (PO-NNNNNN).
func (r *PurchaseOrderRepo) MaxOrderNumber() (int, error) {
	query := `
		SELECT COALESCE(MAX(CAST(SUBSTRING(order_number FROM 4) AS INTEGER)), 0)
		FROM purchase_orders WHERE order_number LIKE 'PO-%'`
	var max int
	if err := r.q.QueryRow(context.Background(), query).Scan(&max); err != nil {
		return 0, fmt.Errorf("max order number: %w", err)
	}
	return max, nil
}

// UpdateStatus actualiza el estado de la orden.
func (r *PurchaseOrderRepo) UpdateStatus(id, status string) error {
	query := `UPDATE purchase_orders SET status = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete hace soft delete de la orden.
func (r *PurchaseOrderRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchase_orders SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	return nil
}

// IncrementReceived aplica el incremento condicional atómico al libro de
// cantidades. applied=false sin error = la condición no se cumplió
// (sobre-recepción concurrente): el caller aborta la transacción de la línea,
// y remaining trae el cupo real releído dentro de la misma transacción.
func (r *PurchaseOrderRepo) IncrementReceived(itemID string, delta decimal.Decimal) (bool, decimal.Decimal, error) {
	query := `
		UPDATE purchase_order_items
		SET received_quantity = received_quantity + $2, updated_at = now()
		WHERE id = $1 AND received_quantity + $2 <= quantity`
	cmd, err := r.q.Exec(context.Background(), query, itemID, delta)
	if err != nil {
		return false, decimal.Zero, fmt.Errorf("increment received: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return true, decimal.Zero, nil
	}
	var remaining decimal.Decimal
	err = r.q.QueryRow(context.Background(),
		`SELECT quantity - received_quantity FROM purchase_order_items WHERE id = $1`,
		itemID).Scan(&remaining)
	if isNoRows(err) {
		return false, decimal.Zero, domain.ErrNotFound
	}
	if err != nil {
		return false, decimal.Zero, fmt.Errorf("increment received: %w", err)
	}
	return false, remaining, nil
}

// SumQuantities devuelve (total pedido, total recibido) de las líneas de la orden.
func (r *PurchaseOrderRepo) SumQuantities(orderID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(received_quantity), 0)
		FROM purchase_order_items WHERE purchase_order_id = $1`
	var ordered, received decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, orderID).Scan(&ordered, &received); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum quantities: %w", err)
	}
	return ordered, received, nil
}
