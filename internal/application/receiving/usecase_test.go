package receiving_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/application/receiving"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/repository"
	"github.com/jhoicas/compras-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore simula la base de datos completa del motor de recepción. El
// fakeTxRunner toma un snapshot antes de cada callback y lo restaura si este
// falla, reproduciendo la semántica de rollback por transacción.
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID = "co-1"
	testUserID    = "user-1"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type memStore struct {
	order      *entity.PurchaseOrder
	warehouses map[string]*entity.Warehouse
	suppliers  map[string]*entity.Supplier

	receipts        []*entity.PurchaseReceipt
	receiptNumbers  map[string]bool
	movements       map[string]*entity.StockMovement // por receipt_item_id
	stocks          map[string]*entity.Stock         // por product|warehouse
	failNextCreates int // fuerza ErrDuplicate en los próximos N Create de recepción
}

func newMemStore(order *entity.PurchaseOrder) *memStore {
	return &memStore{
		order:          order,
		warehouses:     make(map[string]*entity.Warehouse),
		suppliers:      make(map[string]*entity.Supplier),
		receiptNumbers: make(map[string]bool),
		movements:      make(map[string]*entity.StockMovement),
		stocks:         make(map[string]*entity.Stock),
	}
}

func stockKey(productID, warehouseID string) string { return productID + "|" + warehouseID }

type snapshot struct {
	received       map[string]decimal.Decimal
	status         string
	receiptsLen    int
	receiptNumbers map[string]bool
	movementKeys   map[string]bool
	stocks         map[string]entity.Stock
}

func (s *memStore) snapshot() snapshot {
	snap := snapshot{
		received:       make(map[string]decimal.Decimal),
		status:         s.order.Status,
		receiptsLen:    len(s.receipts),
		receiptNumbers: make(map[string]bool),
		movementKeys:   make(map[string]bool),
		stocks:         make(map[string]entity.Stock),
	}
	for _, it := range s.order.Items {
		snap.received[it.ID] = it.ReceivedQuantity
	}
	for k := range s.receiptNumbers {
		snap.receiptNumbers[k] = true
	}
	for k := range s.movements {
		snap.movementKeys[k] = true
	}
	for k, st := range s.stocks {
		snap.stocks[k] = *st
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	for _, it := range s.order.Items {
		it.ReceivedQuantity = snap.received[it.ID]
	}
	s.order.Status = snap.status
	s.receipts = s.receipts[:snap.receiptsLen]
	for k := range s.receiptNumbers {
		if !snap.receiptNumbers[k] {
			delete(s.receiptNumbers, k)
		}
	}
	for k := range s.movements {
		if !snap.movementKeys[k] {
			delete(s.movements, k)
		}
	}
	s.stocks = make(map[string]*entity.Stock)
	for k, st := range snap.stocks {
		cp := st
		s.stocks[k] = &cp
	}
}

// fakeTxRunner ejecuta el callback con repos sobre el mismo store y revierte
// el estado si la "transacción" falla.
type fakeTxRunner struct{ store *memStore }

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	receiptRepo repository.PurchaseReceiptRepository,
	stockRepo repository.StockRepository,
	movementRepo repository.StockMovementRepository,
	orderRepo repository.PurchaseOrderRepository,
) error) error {
	snap := r.store.snapshot()
	err := fn(
		&fakeReceiptRepo{store: r.store},
		&fakeStockRepo{store: r.store},
		&fakeMovementRepo{store: r.store},
		&fakeOrderRepo{store: r.store},
	)
	if err != nil {
		r.store.restore(snap)
	}
	return err
}

// fakeOrderRepo implementación en memoria. staleReceived permite simular una
// lectura desactualizada (otra recepción concurrió entre la validación y el
// incremento del libro).
type fakeOrderRepo struct {
	store         *memStore
	staleReceived map[string]decimal.Decimal
}

func (r *fakeOrderRepo) Create(*entity.PurchaseOrder) error { return errors.New("no implementado") }

func (r *fakeOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	o := r.store.order
	if o == nil || o.ID != id || o.DeletedAt != nil {
		return nil, nil
	}
	cp := *o
	cp.Items = make([]*entity.PurchaseOrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		itCp := *it
		if stale, ok := r.staleReceived[it.ID]; ok {
			itCp.ReceivedQuantity = stale
		}
		cp.Items = append(cp.Items, &itCp)
	}
	return &cp, nil
}

func (r *fakeOrderRepo) ListByCompany(string, string, int, int) ([]*entity.PurchaseOrder, error) {
	return nil, nil
}
func (r *fakeOrderRepo) MaxOrderNumber() (int, error) { return 0, nil }

func (r *fakeOrderRepo) UpdateStatus(id, status string) error {
	if r.store.order == nil || r.store.order.ID != id {
		return domain.ErrNotFound
	}
	r.store.order.Status = status
	return nil
}

func (r *fakeOrderRepo) Delete(string) error { return errors.New("no implementado") }

func (r *fakeOrderRepo) IncrementReceived(itemID string, delta decimal.Decimal) (bool, decimal.Decimal, error) {
	for _, it := range r.store.order.Items {
		if it.ID == itemID {
			remaining := it.Quantity.Sub(it.ReceivedQuantity)
			if delta.GreaterThan(remaining) {
				return false, remaining, nil
			}
			it.ReceivedQuantity = it.ReceivedQuantity.Add(delta)
			return true, decimal.Zero, nil
		}
	}
	return false, decimal.Zero, domain.ErrNotFound
}

func (r *fakeOrderRepo) SumQuantities(orderID string) (decimal.Decimal, decimal.Decimal, error) {
	ordered, received := decimal.Zero, decimal.Zero
	for _, it := range r.store.order.Items {
		ordered = ordered.Add(it.Quantity)
		received = received.Add(it.ReceivedQuantity)
	}
	return ordered, received, nil
}

type fakeReceiptRepo struct{ store *memStore }

func (r *fakeReceiptRepo) Create(receipt *entity.PurchaseReceipt) error {
	if r.store.failNextCreates > 0 {
		r.store.failNextCreates--
		return domain.ErrDuplicate
	}
	if r.store.receiptNumbers[receipt.ReceiptNumber] {
		return domain.ErrDuplicate
	}
	r.store.receiptNumbers[receipt.ReceiptNumber] = true
	cp := *receipt
	cp.Items = nil
	r.store.receipts = append(r.store.receipts, &cp)
	return nil
}

func (r *fakeReceiptRepo) CreateItem(item *entity.PurchaseReceiptItem) error {
	for _, rec := range r.store.receipts {
		if rec.ID == item.PurchaseReceiptID {
			cp := *item
			rec.Items = append(rec.Items, &cp)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeReceiptRepo) GetByID(id string) (*entity.PurchaseReceipt, error) {
	for _, rec := range r.store.receipts {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *fakeReceiptRepo) ListByOrder(orderID string) ([]*entity.PurchaseReceipt, error) {
	var out []*entity.PurchaseReceipt
	for _, rec := range r.store.receipts {
		if rec.PurchaseOrderID == orderID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeReceiptRepo) MaxReceiptNumber() (int, error) {
	max := 0
	for n := range r.store.receiptNumbers {
		var num int
		if _, err := fmt.Sscanf(n, "RCP-%06d", &num); err == nil && num > max {
			max = num
		}
	}
	return max, nil
}

type fakeStockRepo struct{ store *memStore }

func (r *fakeStockRepo) Get(productID, warehouseID string) (*entity.Stock, error) {
	if st, ok := r.store.stocks[stockKey(productID, warehouseID)]; ok {
		cp := *st
		return &cp, nil
	}
	return &entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}, nil
}

func (r *fakeStockRepo) GetForUpdate(productID, warehouseID string) (*entity.Stock, error) {
	return r.Get(productID, warehouseID)
}

func (r *fakeStockRepo) Upsert(stock *entity.Stock) error {
	cp := *stock
	r.store.stocks[stockKey(stock.ProductID, stock.WarehouseID)] = &cp
	return nil
}

type fakeMovementRepo struct{ store *memStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	if _, exists := r.store.movements[m.ReceiptItemID]; exists {
		return domain.ErrDuplicate
	}
	cp := *m
	r.store.movements[m.ReceiptItemID] = &cp
	return nil
}

func (r *fakeMovementRepo) GetByID(string) (*entity.StockMovement, error) { return nil, nil }
func (r *fakeMovementRepo) ListByProduct(string, *time.Time, *time.Time, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (r *fakeMovementRepo) ListByWarehouse(string, *time.Time, *time.Time, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}

type fakeWarehouseRepo struct{ store *memStore }

func (r *fakeWarehouseRepo) Create(w *entity.Warehouse) error {
	r.store.warehouses[w.ID] = w
	return nil
}
func (r *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.store.warehouses[id], nil
}
func (r *fakeWarehouseRepo) GetByIDs(ids []string) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, id := range ids {
		if w, ok := r.store.warehouses[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}
func (r *fakeWarehouseRepo) Update(*entity.Warehouse) error { return nil }
func (r *fakeWarehouseRepo) SetActive(id string, active bool) error {
	if w, ok := r.store.warehouses[id]; ok {
		w.IsActive = active
		return nil
	}
	return domain.ErrNotFound
}
func (r *fakeWarehouseRepo) ListByCompany(string, int, int) ([]*entity.Warehouse, error) {
	return nil, nil
}
func (r *fakeWarehouseRepo) Delete(string) error { return nil }

type fakeSupplierRepo struct{ store *memStore }

func (r *fakeSupplierRepo) Create(s *entity.Supplier) error {
	r.store.suppliers[s.ID] = s
	return nil
}
func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	return r.store.suppliers[id], nil
}
func (r *fakeSupplierRepo) ListByCompany(string, int, int) ([]*entity.Supplier, error) {
	return nil, nil
}
func (r *fakeSupplierRepo) Update(*entity.Supplier) error { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store     *memStore
	orderRepo *fakeOrderRepo
	uc        *receiving.ReceiveOrderUseCase
}

// newFixture arma una orden CONFIRMED con dos líneas (100 y 50 unidades),
// una bodega activa y un proveedor.
func newFixture(t *testing.T, cfg receiving.Config) *fixture {
	t.Helper()
	order := &entity.PurchaseOrder{
		ID:          "po-1",
		CompanyID:   testCompanyID,
		OrderNumber: "PO-000001",
		SupplierID:  "sup-1",
		Status:      entity.OrderStatusConfirmed,
		Items: []*entity.PurchaseOrderItem{
			{
				ID: "poi-1", PurchaseOrderID: "po-1", ProductID: "prod-1",
				Quantity: d("100"), ReceivedQuantity: decimal.Zero, UnitPrice: d("10"),
				ProductName: "Tornillo 3/8", ProductSKU: "TOR-38",
			},
			{
				ID: "poi-2", PurchaseOrderID: "po-1", ProductID: "prod-2",
				Quantity: d("50"), ReceivedQuantity: decimal.Zero, UnitPrice: d("4.50"),
				ProductName: "Tuerca 3/8", ProductSKU: "TUE-38",
			},
		},
	}
	store := newMemStore(order)
	store.warehouses["wh-1"] = &entity.Warehouse{ID: "wh-1", CompanyID: testCompanyID, Name: "Principal", IsActive: true}
	store.warehouses["wh-2"] = &entity.Warehouse{ID: "wh-2", CompanyID: testCompanyID, Name: "Norte", IsActive: true}
	store.suppliers["sup-1"] = &entity.Supplier{ID: "sup-1", CompanyID: testCompanyID, Name: "Ferretería Central"}

	orderRepo := &fakeOrderRepo{store: store}
	uc := receiving.NewReceiveOrderUseCase(
		&fakeTxRunner{store: store},
		orderRepo,
		&fakeWarehouseRepo{store: store},
		&fakeReceiptRepo{store: store},
		&fakeSupplierRepo{store: store},
		cfg,
		logger.New(logger.Config{Env: "production", Level: "error"}),
	)
	return &fixture{store: store, orderRepo: orderRepo, uc: uc}
}

func acceptedLine(itemID, warehouseID, qty string) dto.ReceiveItemRequest {
	return dto.ReceiveItemRequest{
		PurchaseOrderItemID: itemID,
		WarehouseID:         warehouseID,
		ReceivedQuantity:    d(qty),
		RejectedQuantity:    decimal.Zero,
		QualityStatus:       entity.QualityAccepted,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Receive — camino feliz
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_RecepcionCompleta(t *testing.T) {
	f := newFixture(t, receiving.Config{})

	out, err := f.uc.Receive(context.Background(), testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{
			acceptedLine("poi-1", "wh-1", "100"),
			acceptedLine("poi-2", "wh-1", "50"),
		},
	})
	require.NoError(t, err)

	// Numeración y estado de la recepción
	assert.Equal(t, "RCP-000001", out.Receipt.ReceiptNumber)
	assert.Equal(t, entity.ReceiptStatusCompleted, out.Receipt.Status)
	assert.Len(t, out.Receipt.Items, 2)

	// La orden queda totalmente recibida
	assert.Equal(t, entity.OrderStatusReceived, out.PurchaseOrderStatus)
	assert.Equal(t, entity.OrderStatusReceived, f.store.order.Status)

	// Stock actualizado por producto+bodega
	st := f.store.stocks[stockKey("prod-1", "wh-1")]
	require.NotNil(t, st)
	assert.True(t, st.Quantity.Equal(d("100")), "stock prod-1 = %s", st.Quantity)

	// Un asiento por línea aceptada, con referencia a la recepción y el costo
	// valorizado desde el precio unitario de la línea de la orden
	wantCost := map[string]struct{ unit, total string }{
		"prod-1": {"10", "1000"},  // 100 × 10
		"prod-2": {"4.50", "225"}, // 50 × 4.50
	}
	assert.Len(t, f.store.movements, 2)
	for _, m := range f.store.movements {
		assert.Equal(t, entity.MovementIn, m.Type)
		assert.Equal(t, entity.MovementSubtypePurchaseReceipt, m.Subtype)
		assert.Equal(t, "RCP-000001", m.ReferenceNumber)
		want := wantCost[m.ProductID]
		assert.True(t, m.UnitCost.Equal(d(want.unit)), "costo unitario de %s = %s", m.ProductID, m.UnitCost)
		assert.True(t, m.TotalCost.Equal(d(want.total)), "costo total de %s = %s", m.ProductID, m.TotalCost)
	}

	// Resumen coherente
	assert.Equal(t, 2, out.Summary.ItemsReceived)
	assert.True(t, out.Summary.TotalQuantityReceived.Equal(d("150")))
	assert.Equal(t, 2, out.Summary.MovementsCreated)
	assert.Zero(t, out.Summary.LinesFailed)
}

func TestReceive_ParcialYLuegoCompleta(t *testing.T) {
	f := newFixture(t, receiving.Config{})
	ctx := context.Background()

	out1, err := f.uc.Receive(ctx, testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{acceptedLine("poi-1", "wh-1", "60")},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPartiallyReceived, out1.PurchaseOrderStatus)

	out2, err := f.uc.Receive(ctx, testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{
			acceptedLine("poi-1", "wh-1", "40"),
			acceptedLine("poi-2", "wh-2", "50"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "RCP-000002", out2.Receipt.ReceiptNumber, "consecutivo avanza por recepción")
	assert.Equal(t, entity.OrderStatusReceived, out2.PurchaseOrderStatus)

	// El libro acumula entre recepciones
	assert.True(t, f.store.order.Items[0].ReceivedQuantity.Equal(d("100")))
	// Stock por bodega se mantiene separado
	assert.True(t, f.store.stocks[stockKey("prod-2", "wh-2")].Quantity.Equal(d("50")))
}

// Una misma recepción puede partir una línea de orden en varias bodegas.
func TestReceive_MismaLineaVariasBodegas(t *testing.T) {
	f := newFixture(t, receiving.Config{})

	out, err := f.uc.Receive(context.Background(), testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{
			acceptedLine("poi-1", "wh-1", "70"),
			acceptedLine("poi-1", "wh-2", "30"),
		},
	})
	require.NoError(t, err)
	assert.True(t, f.store.stocks[stockKey("prod-1", "wh-1")].Quantity.Equal(d("70")))
	assert.True(t, f.store.stocks[stockKey("prod-1", "wh-2")].Quantity.Equal(d("30")))
	assert.True(t, f.store.order.Items[0].ReceivedQuantity.Equal(d("100")))
	assert.Equal(t, entity.OrderStatusPartiallyReceived, out.PurchaseOrderStatus,
		"poi-2 sigue pendiente, la orden no se completa")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Receive — validaciones (ningún efecto persistido)
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_SobreRecepcionRechazadaSinEfectos(t *testing.T) {
	f := newFixture(t, receiving.Config{})

	_, err := f.uc.Receive(context.Background(), testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{acceptedLine("poi-1", "wh-1", "101")},
	})
	var overErr *domain.OverReceiptError
	require.ErrorAs(t, err, &overErr)
	assert.Equal(t, "poi-1", overErr.PurchaseOrderItemID)
	assert.True(t, overErr.Remaining.Equal(d("100")))

	// Nada se escribió: ni recepción, ni stock, ni libro
	assert.Empty(t, f.store.receipts)
	assert.Empty(t, f.store.stocks)
	assert.True(t, f.store.order.Items[0].ReceivedQuantity.IsZero())
}

// El chequeo de sobre-recepción acumula lo propuesto contra la misma línea de
// orden dentro de la petición: 60+50 > 100 debe fallar aunque cada línea
// individual quepa.
func TestReceive_SobreRecepcionAcumuladaEnLaMismaPeticion(t *testing.T) {
	f := newFixture(t, receiving.Config{})

	_, err := f.uc.Receive(context.Background(), testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{
			acceptedLine("poi-1", "wh-1", "60"),
			acceptedLine("poi-1", "wh-2", "50"),
		},
	})
	var overErr *domain.OverReceiptError
	require.ErrorAs(t, err, &overErr)
	assert.Equal(t, "poi-1", overErr.PurchaseOrderItemID)
	assert.True(t, overErr.Remaining.Equal(d("40")),
		"el cupo reportado descuenta los 60 de la primera línea: %s", overErr.Remaining)
	assert.Empty(t, f.store.receipts)
}

func TestReceive_OrdenNoRecibible(t *testing.T) {
	cases := []string{entity.OrderStatusDraft, entity.OrderStatusReceived, entity.OrderStatusCancelled}
	for _, status := range cases {
		t.Run(status, func(t *testing.T) {
			f := newFixture(t, receiving.Config{})
			f.store.order.Status = status
			_, err := f.uc.Receive(context.Background(), testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
				Items: []dto.ReceiveItemRequest{acceptedLine("poi-1", "wh-1", "10")},
			})
			assert.ErrorIs(t, err, domain.ErrInvalidState)
		})
	}
}

func TestReceive_BodegaInactiva(t *testing.T) {
	f := newFixture(t, receiving.Config{})
	f.store.warehouses["wh-1"].IsActive = false

	_, err := f.uc.Receive(context.Background(), testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{acceptedLine("poi-1", "wh-1", "10")},
	})
	assert.ErrorIs(t, err, domain.ErrInactiveWarehouse)
	assert.Empty(t, f.store.receipts)
}

func TestReceive_BodegaInexistente(t *testing.T) {
	f := newFixture(t, receiving.Config{})
	_, err := f.uc.Receive(context.Background(), testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{acceptedLine("poi-1", "wh-fantasma", "10")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceive_OrdenDeOtraEmpresa(t *testing.T) {
	f := newFixture(t, receiving.Config{})
	_, err := f.uc.Receive(context.Background(), "otra-empresa", testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{acceptedLine("poi-1", "wh-1", "10")},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Una bodega existente y activa pero de otra empresa se responde como
// inexistente: la recepción no debe acreditar stock en inventario ajeno.
func TestReceive_BodegaDeOtraEmpresa(t *testing.T) {
	f := newFixture(t, receiving.Config{})
	f.store.warehouses["wh-ajena"] = &entity.Warehouse{
		ID: "wh-ajena", CompanyID: "otra-empresa", Name: "Ajena", IsActive: true,
	}

	_, err := f.uc.Receive(context.Background(), testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{acceptedLine("poi-1", "wh-ajena", "10")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Nada se escribió en ninguna de las dos empresas
	assert.Empty(t, f.store.receipts)
	assert.Empty(t, f.store.stocks)
	assert.Empty(t, f.store.movements)
	assert.True(t, f.store.order.Items[0].ReceivedQuantity.IsZero())
}

func TestReceive_BodyInvalido(t *testing.T) {
	f := newFixture(t, receiving.Config{})
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = f.uc.Receive(ctx, testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{{
			PurchaseOrderItemID: "poi-1", WarehouseID: "wh-1",
			ReceivedQuantity: d("-5"), QualityStatus: entity.QualityAccepted,
		}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa")

	_, err = f.uc.Receive(ctx, testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{{
			PurchaseOrderItemID: "poi-1", WarehouseID: "wh-1",
			ReceivedQuantity: d("5"), QualityStatus: "REGULAR",
		}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "estado de calidad desconocido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Receive — calidad y política del libro
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_LineaRechazadaNoTocaStockNiLibro(t *testing.T) {
	f := newFixture(t, receiving.Config{}) // CreditRejectedToLedger = false

	out, err := f.uc.Receive(context.Background(), testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{{
			PurchaseOrderItemID: "poi-1", WarehouseID: "wh-1",
			ReceivedQuantity: d("20"), RejectedQuantity: d("20"),
			QualityStatus: entity.QualityRejected,
		}},
	})
	require.NoError(t, err)

	// La recepción queda documentada, pero sin efectos de inventario ni libro
	require.Len(t, f.store.receipts, 1)
	assert.Empty(t, f.store.stocks)
	assert.Empty(t, f.store.movements)
	assert.True(t, f.store.order.Items[0].ReceivedQuantity.IsZero())
	assert.Equal(t, entity.OrderStatusConfirmed, out.PurchaseOrderStatus, "recibido cero no cambia el estado")
	assert.Zero(t, out.Summary.StockLocationsUpdated)
}

func TestReceive_RechazadaSumaAlLibroConPoliticaActiva(t *testing.T) {
	f := newFixture(t, receiving.Config{CreditRejectedToLedger: true})

	out, err := f.uc.Receive(context.Background(), testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{{
			PurchaseOrderItemID: "poi-1", WarehouseID: "wh-1",
			ReceivedQuantity: d("20"), RejectedQuantity: d("20"),
			QualityStatus: entity.QualityRejected,
		}},
	})
	require.NoError(t, err)

	// El libro avanza, el stock no
	assert.True(t, f.store.order.Items[0].ReceivedQuantity.Equal(d("20")))
	assert.Empty(t, f.store.stocks)
	assert.Empty(t, f.store.movements)
	assert.Equal(t, entity.OrderStatusPartiallyReceived, out.PurchaseOrderStatus)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Receive — carreras y fallos por línea
// ──────────────────────────────────────────────────────────────────────────────

// Simula la carrera clásica: la validación lee un libro desactualizado, otra
// recepción concurrente ya consumió el cupo. El incremento condicional detecta
// el exceso, la transacción de la línea se revierte y el fallo queda en el
// resumen sin anular la recepción.
func TestReceive_CarreraConcurrenteRevierteLaLinea(t *testing.T) {
	f := newFixture(t, receiving.Config{})
	// Estado real: poi-1 ya tiene 80 recibidas. Lectura stale: 0.
	f.store.order.Items[0].ReceivedQuantity = d("80")
	f.orderRepo.staleReceived = map[string]decimal.Decimal{"poi-1": decimal.Zero}

	out, err := f.uc.Receive(context.Background(), testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{
			acceptedLine("poi-1", "wh-1", "50"), // 80+50 > 100: pierde la carrera
			acceptedLine("poi-2", "wh-1", "50"), // esta sí aplica
		},
	})
	require.NoError(t, err, "el fallo de una línea no anula la recepción")

	// La línea perdedora quedó revertida por completo
	assert.Nil(t, f.store.stocks[stockKey("prod-1", "wh-1")], "stock de la línea fallida revertido")
	assert.True(t, f.store.order.Items[0].ReceivedQuantity.Equal(d("80")), "libro intacto")

	// La línea ganadora aplicó normal
	assert.True(t, f.store.stocks[stockKey("prod-2", "wh-1")].Quantity.Equal(d("50")))

	// El resumen expone el fallo
	assert.Equal(t, 1, out.Summary.LinesFailed)
	require.Len(t, out.Summary.Failures, 1)
	assert.Equal(t, "poi-1", out.Summary.Failures[0].PurchaseOrderItemID)
	assert.Contains(t, out.Summary.Failures[0].Reason, "quedan 20 por recibir",
		"el motivo reporta el cupo real del libro, no la lectura desactualizada")
	assert.Equal(t, 1, out.Summary.MovementsCreated)
}

// Conservación: recepciones secuenciales nunca dejan el libro por encima de lo
// pedido, incluso con lecturas desactualizadas de por medio.
func TestReceive_ElLibroNuncaSuperaLoPedido(t *testing.T) {
	f := newFixture(t, receiving.Config{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.uc.Receive(ctx, testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
			Items: []dto.ReceiveItemRequest{acceptedLine("poi-1", "wh-1", "30")},
		})
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrOverReceipt)
		}
	}
	item := f.store.order.Items[0]
	assert.True(t, item.ReceivedQuantity.LessThanOrEqual(item.Quantity),
		"recibido %s > pedido %s", item.ReceivedQuantity, item.Quantity)
	// El stock acumulado coincide con el libro (conservación stock/libro)
	assert.True(t, f.store.stocks[stockKey("prod-1", "wh-1")].Quantity.Equal(item.ReceivedQuantity))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests numeración de recepciones
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_NumeracionReintentaAnteColision(t *testing.T) {
	f := newFixture(t, receiving.Config{NumberMaxRetries: 3})
	f.store.failNextCreates = 2 // dos colisiones, el tercer intento entra

	out, err := f.uc.Receive(context.Background(), testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{acceptedLine("poi-1", "wh-1", "10")},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Receipt.ReceiptNumber)
	assert.Len(t, f.store.receipts, 1)
}

func TestReceive_NumeracionAgotaReintentos(t *testing.T) {
	f := newFixture(t, receiving.Config{NumberMaxRetries: 3})
	f.store.failNextCreates = 3

	_, err := f.uc.Receive(context.Background(), testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{acceptedLine("poi-1", "wh-1", "10")},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Empty(t, f.store.receipts, "ninguna recepción a medias")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ReconcileStatus y ListReceipts
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcileStatus_ReparaEstadoDesdeTotales(t *testing.T) {
	f := newFixture(t, receiving.Config{})
	// Libro completo pero estado sin reconciliar (p.ej. la fase 4 falló antes)
	f.store.order.Items[0].ReceivedQuantity = d("100")
	f.store.order.Items[1].ReceivedQuantity = d("50")

	status, err := f.uc.ReconcileStatus(context.Background(), "po-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, status)
	assert.Equal(t, entity.OrderStatusReceived, f.store.order.Status)

	// Idempotente
	again, err := f.uc.ReconcileStatus(context.Background(), "po-1")
	require.NoError(t, err)
	assert.Equal(t, status, again)
}

func TestListReceipts_DevuelveHistoricoConResumen(t *testing.T) {
	f := newFixture(t, receiving.Config{})
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, testCompanyID, testUserID, "po-1", dto.ReceiveOrderRequest{
		Items: []dto.ReceiveItemRequest{acceptedLine("poi-1", "wh-1", "60")},
	})
	require.NoError(t, err)

	list, err := f.uc.ListReceipts(ctx, testCompanyID, "po-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "RCP-000001", list[0].ReceiptNumber)
	assert.Equal(t, 1, list[0].Summary.ItemsCount)
	assert.True(t, list[0].Summary.AcceptedQuantity.Equal(d("60")))

	_, err = f.uc.ListReceipts(ctx, "otra-empresa", "po-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.ListReceipts(ctx, testCompanyID, "po-inexistente")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
