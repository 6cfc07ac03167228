package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock existencia actual de un producto en una bodega. Es el saldo
// materializado que las recepciones incrementan línea a línea.
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
