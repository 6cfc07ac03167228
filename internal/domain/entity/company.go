package entity

import "time"

// Company organización cliente (tenant). Todos los recursos del sistema
// cuelgan de su company_id.
type Company struct {
	ID        string
	Name      string
	NIT       string // identificador tributario colombiano
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Módulos SaaS contratables. Deben coincidir con el CHECK de company_modules.
const (
	ModuleInventory  = "inventory"
	ModulePurchasing = "purchasing"
	ModuleReports    = "reports"
)

// CompanyModule activación de un módulo SaaS en una empresa.
type CompanyModule struct {
	ID          string
	CompanyID   string
	ModuleName  string // ver constantes Module*
	IsActive    bool
	ActivatedAt time.Time
	ExpiresAt   *time.Time // nil = sin vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
