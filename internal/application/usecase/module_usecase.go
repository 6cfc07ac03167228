package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/compras-api/internal/domain/repository"
)

// ModuleService responde si una empresa tiene activo un módulo SaaS. Toda la
// lógica de activación vive aquí; el middleware HTTP solo consulta.
type ModuleService struct {
	companyRepo repository.CompanyRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(companyRepo repository.CompanyRepository) *ModuleService {
	return &ModuleService{companyRepo: companyRepo}
}

// HasActiveModule devuelve true si el módulo está contratado, activo y sin
// vencer. Un módulo no contratado es false sin error; el error queda para
// fallos de infraestructura.
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" || moduleName == "" {
		return false, fmt.Errorf("module: companyID y moduleName son obligatorios")
	}
	return s.companyRepo.HasActiveModule(ctx, companyID, moduleName)
}
