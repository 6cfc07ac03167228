// Package receiving contiene los servicios de dominio puros del motor de
// recepción de mercancía: derivación del estado de la orden a partir de los
// totales del libro de cantidades y resúmenes de recepciones.
package receiving

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/compras-api/internal/domain/entity"
)

// DeriveStatus recalcula el estado de una orden de compra a partir de los
// totales pedidos y recibidos acumulados. Es puro e idempotente: con los
// mismos datos siempre produce el mismo estado, por lo que es seguro
// re-ejecutarlo como trabajo de reparación.
//
//	totalRecibido >= totalPedido  -> RECEIVED
//	0 < totalRecibido < totalPedido -> PARTIALLY_RECEIVED
//	totalRecibido == 0            -> estado actual sin cambio
//
// Cubre el caso degenerado de una recepción toda rechazada (recibido cero).
// No define transiciones desde RECEIVED ni CANCELLED: son terminales.
func DeriveStatus(totalOrdered, totalReceived decimal.Decimal, current string) string {
	if current == entity.OrderStatusReceived || current == entity.OrderStatusCancelled {
		return current
	}
	if totalReceived.GreaterThanOrEqual(totalOrdered) && totalOrdered.GreaterThan(decimal.Zero) {
		return entity.OrderStatusReceived
	}
	if totalReceived.GreaterThan(decimal.Zero) {
		return entity.OrderStatusPartiallyReceived
	}
	return current
}

// Summary agrega las cantidades de una recepción para reportes.
type Summary struct {
	ItemsCount       int
	TotalQuantity    decimal.Decimal
	AcceptedQuantity decimal.Decimal
	RejectedQuantity decimal.Decimal
}

// Summarize calcula el resumen de una recepción: conteo de líneas, cantidad
// total recibida, cantidad aceptada (solo calidad ACCEPTED) y rechazada.
func Summarize(items []*entity.PurchaseReceiptItem) Summary {
	s := Summary{
		ItemsCount:       len(items),
		TotalQuantity:    decimal.Zero,
		AcceptedQuantity: decimal.Zero,
		RejectedQuantity: decimal.Zero,
	}
	for _, it := range items {
		s.TotalQuantity = s.TotalQuantity.Add(it.ReceivedQuantity)
		if it.QualityStatus == entity.QualityAccepted {
			s.AcceptedQuantity = s.AcceptedQuantity.Add(it.ReceivedQuantity)
		}
		s.RejectedQuantity = s.RejectedQuantity.Add(it.RejectedQuantity)
	}
	return s
}
