package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/application/usecase"
	"github.com/jhoicas/compras-api/internal/domain/entity"
)

// fakeSupplierStore repositorio en memoria indexado por ID.
type fakeSupplierStore struct {
	suppliers map[string]*entity.Supplier
}

func (r *fakeSupplierStore) Create(s *entity.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *fakeSupplierStore) GetByID(id string) (*entity.Supplier, error) {
	return r.suppliers[id], nil
}

func (r *fakeSupplierStore) ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, s := range r.suppliers {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSupplierStore) Update(s *entity.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func newSupplierUC() (*usecase.SupplierUseCase, *fakeSupplierStore) {
	store := &fakeSupplierStore{suppliers: make(map[string]*entity.Supplier)}
	return usecase.NewSupplierUseCase(store), store
}

func TestSupplierGetByID_SoloDeLaPropiaEmpresa(t *testing.T) {
	uc, store := newSupplierUC()
	store.suppliers["sup-1"] = &entity.Supplier{
		ID: "sup-1", CompanyID: "empresa-1", Name: "Ferretería Central", Status: "active",
	}

	// La empresa dueña lo obtiene
	out, err := uc.GetByID("empresa-1", "sup-1")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Ferretería Central", out.Name)

	// Otra empresa lo ve como inexistente, sin filtrar que existe
	out, err = uc.GetByID("empresa-2", "sup-1")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestSupplierGetByID_Inexistente(t *testing.T) {
	uc, _ := newSupplierUC()
	out, err := uc.GetByID("empresa-1", "sup-fantasma")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestSupplierCreate_AsignaEmpresaYEstado(t *testing.T) {
	uc, store := newSupplierUC()
	out, err := uc.Create("empresa-1", dto.CreateSupplierRequest{
		Name: "Aceros del Sur", TaxID: "900123456-7",
	})
	require.NoError(t, err)
	assert.Equal(t, "empresa-1", out.CompanyID)
	assert.Equal(t, "active", out.Status)
	require.NotNil(t, store.suppliers[out.ID])
}
