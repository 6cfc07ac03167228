package receiving_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/receiving"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Tests DeriveStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestDeriveStatus_Transiciones(t *testing.T) {
	cases := []struct {
		name     string
		ordered  string
		received string
		current  string
		want     string
	}{
		{"sin recepciones mantiene CONFIRMED", "100", "0", entity.OrderStatusConfirmed, entity.OrderStatusConfirmed},
		{"recepción parcial", "100", "40", entity.OrderStatusConfirmed, entity.OrderStatusPartiallyReceived},
		{"recepción exacta completa", "100", "100", entity.OrderStatusConfirmed, entity.OrderStatusReceived},
		{"parcial sobre parcial sigue parcial", "100", "60", entity.OrderStatusPartiallyReceived, entity.OrderStatusPartiallyReceived},
		{"parcial que completa", "100", "100", entity.OrderStatusPartiallyReceived, entity.OrderStatusReceived},
		{"cantidades fraccionarias parciales", "10.5", "10.499", entity.OrderStatusConfirmed, entity.OrderStatusPartiallyReceived},
		{"cantidades fraccionarias completas", "10.5", "10.5", entity.OrderStatusConfirmed, entity.OrderStatusReceived},
		// Recepción toda rechazada: recibido acumulado cero, el estado no retrocede.
		{"todo rechazado no cambia estado", "100", "0", entity.OrderStatusPartiallyReceived, entity.OrderStatusPartiallyReceived},
		// Estados terminales: nunca cambian, vengan los totales que vengan.
		{"RECEIVED es terminal", "100", "40", entity.OrderStatusReceived, entity.OrderStatusReceived},
		{"CANCELLED es terminal", "100", "100", entity.OrderStatusCancelled, entity.OrderStatusCancelled},
		// Orden degenerada sin cantidades pedidas nunca pasa a RECEIVED.
		{"orden sin líneas no se completa", "0", "0", entity.OrderStatusConfirmed, entity.OrderStatusConfirmed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := receiving.DeriveStatus(d(tc.ordered), d(tc.received), tc.current)
			assert.Equal(t, tc.want, got)
		})
	}
}

// DeriveStatus es idempotente: aplicarlo dos veces con los mismos totales
// produce el mismo estado (seguro como trabajo de reparación).
func TestDeriveStatus_Idempotente(t *testing.T) {
	ordered, received := d("80"), d("30")
	first := receiving.DeriveStatus(ordered, received, entity.OrderStatusConfirmed)
	second := receiving.DeriveStatus(ordered, received, first)
	assert.Equal(t, first, second)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Summarize
// ──────────────────────────────────────────────────────────────────────────────

func TestSummarize_SeparaAceptadoDeRechazado(t *testing.T) {
	items := []*entity.PurchaseReceiptItem{
		{ReceivedQuantity: d("10"), RejectedQuantity: d("0"), QualityStatus: entity.QualityAccepted},
		{ReceivedQuantity: d("5"), RejectedQuantity: d("2"), QualityStatus: entity.QualityRejected},
		{ReceivedQuantity: d("3"), RejectedQuantity: d("0"), QualityStatus: entity.QualityPending},
	}
	s := receiving.Summarize(items)

	assert.Equal(t, 3, s.ItemsCount)
	assert.True(t, s.TotalQuantity.Equal(d("18")), "total = %s", s.TotalQuantity)
	assert.True(t, s.AcceptedQuantity.Equal(d("10")), "aceptado = %s", s.AcceptedQuantity)
	assert.True(t, s.RejectedQuantity.Equal(d("2")), "rechazado = %s", s.RejectedQuantity)
}

func TestSummarize_SinLineas(t *testing.T) {
	s := receiving.Summarize(nil)
	assert.Equal(t, 0, s.ItemsCount)
	assert.True(t, s.TotalQuantity.IsZero())
}
