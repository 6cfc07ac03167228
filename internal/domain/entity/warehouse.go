package entity

import "time"

// Warehouse bodega física donde entra la mercancía recibida. Solo las bodegas
// activas pueden recibir; desactivar conserva la historia de movimientos.
type Warehouse struct {
	ID        string
	CompanyID string
	Code      string
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
