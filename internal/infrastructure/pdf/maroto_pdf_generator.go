// Package pdf implementa la generación del comprobante de entrada a bodega
// de una recepción de mercancía.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + NIT  │  N° Recepción + Fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORDEN: N° orden + proveedor                                 │
//	│  TRANSPORTE: remisión / transportadora / guía / bultos       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Cant. | Rechazado | Calidad         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: líneas / recibido / aceptado / rechazado           │
//	│  FOOTER: recibido por + notas                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/compras-api/internal/application/receipts"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	domreceiving "github.com/jhoicas/compras-api/internal/domain/receiving"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa receipts.ReceiptPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ receipts.ReceiptPDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateReceiptPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReceiptPDF(
	_ context.Context,
	receipt *entity.PurchaseReceipt,
	order *entity.PurchaseOrder,
	supplier *entity.Supplier,
	company *entity.Company,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de Recepción "+receipt.ReceiptNumber, true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(receipt, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(orderRow(order, supplier))
	m.AddRows(transportRow(receipt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(receipt.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(receipt))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(receipt)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: Razón social + NIT (izq) y N° Recepción + Fecha (der).
func headerRow(receipt *entity.PurchaseReceipt, company *entity.Company) core.Row {
	fecha := receipt.ReceivedDate.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+company.NIT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE RECEPCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(receipt.ReceiptNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// orderRow: orden de compra + proveedor.
func orderRow(order *entity.PurchaseOrder, supplier *entity.Supplier) core.Row {
	supplierName := "—"
	supplierTax := "—"
	if supplier != nil {
		supplierName = supplier.Name
		supplierTax = nonEmpty(supplier.TaxID, "—")
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("ORDEN DE COMPRA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(order.OrderNumber, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Proveedor: %s   |   NIT: %s", supplierName, supplierTax),
				props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// transportRow: datos de la entrega física.
func transportRow(receipt *entity.PurchaseReceipt) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("TRANSPORTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Remisión: %s   |   Transportadora: %s   |   Guía: %s   |   Bultos: %d",
				nonEmpty(receipt.DeliveryNote, "—"),
				nonEmpty(receipt.CarrierName, "—"),
				nonEmpty(receipt.TrackingNumber, "—"),
				receipt.TotalPackages,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 5, align.Left),
		h("Recibido", 2, align.Right),
		h("Rechazado", 2, align.Right),
		h("Calidad", 1, align.Center),
	)
}

// tableItemRows: una fila por línea de recepción.
func tableItemRows(items []*entity.PurchaseReceiptItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		qualityColor := colorGray
		if it.QualityStatus == entity.QualityRejected {
			qualityColor = colorDanger
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				it.ProductSKU,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(5).Add(text.New(
				it.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.ReceivedQuantity.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				it.RejectedQuantity.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				it.QualityStatus,
				props.Text{Size: 7, Align: align.Center, Top: 1, Color: qualityColor},
			)),
		))
	}
	return result
}

// totalsRow: resumen de la recepción alineado a la derecha.
func totalsRow(receipt *entity.PurchaseReceipt) core.Row {
	summary := domreceiving.Summarize(receipt.Items)

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Líneas:"),
			label("Cantidad recibida:"),
			label("Aceptado / Rechazado:"),
		),
		col.New(4).Add(
			value(fmt.Sprintf("%d", summary.ItemsCount)),
			value(summary.TotalQuantity.String()),
			value(summary.AcceptedQuantity.String()+" / "+summary.RejectedQuantity.String()),
		),
	)
}

// footerRows: responsable de la recepción + notas.
func footerRows(receipt *entity.PurchaseReceipt) []core.Row {
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New("Recibido por: "+receipt.ReceivedBy, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 2,
			}),
		)),
	}
	if receipt.Notes != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Notas: "+receipt.Notes, props.Text{
				Size: 7.5, Color: colorGray, Top: 1,
			}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("Documento interno de entrada a bodega. No constituye soporte fiscal.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
