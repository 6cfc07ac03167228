package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU comprable (multi-bodega).
// CostPrice es el costo de referencia de compra; el stock por bodega vive en Stock.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	CostPrice   decimal.Decimal
	SalePrice   decimal.Decimal
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
