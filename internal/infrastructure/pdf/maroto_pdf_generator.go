// Package pdf implementa la representación gráfica de la cuenta de cobro /
// factura del proyecto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + NIT  │  N° Factura + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RECEPTOR: Nombre + NIT/CC + email                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SERVICIO: descripción del proyecto desarrollado            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IVA / Retefuente / TOTAL A PAGAR       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: régimen + resolución DIAN (si aplica)              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
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

	"github.com/jhoicas/cotizador-api/internal/application/billing"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ billing.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	issuerName string
	issuerNIT  string
}

// NewMarotoPDFGenerator construye el generador con los datos del emisor.
func NewMarotoPDFGenerator(issuerName, issuerNIT string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{issuerName: issuerName, issuerNIT: issuerNIT}
}

// Generate genera el PDF de la factura y devuelve sus bytes.
func (g *MarotoPDFGenerator) Generate(invoice *entity.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cuenta de Cobro "+invoice.Number, true).
		WithAuthor(g.issuerName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(receptorRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(serviceRows(invoice)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(invoice)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social + NIT (izq) y N° documento + fecha (der).
func (g *MarotoPDFGenerator) headerRow(invoice *entity.Invoice) core.Row {
	title := "CUENTA DE COBRO"
	if invoice.Resolution != "" {
		title = "FACTURA ELECTRÓNICA DE VENTA"
	}
	fecha := invoice.IssuedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.issuerName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+g.issuerNIT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// receptorRow: datos del cliente.
func receptorRow(invoice *entity.Invoice) core.Row {
	docLabel := "CC: " + invoice.ClientCedula
	if invoice.ClientNIT != "" {
		docLabel = "NIT: " + invoice.ClientNIT
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("RECEPTOR / CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.ClientName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("%s   |   Email: %s", docLabel, invoice.ClientEmail),
				props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// serviceRows: descripción del servicio de desarrollo facturado.
func serviceRows(invoice *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("CONCEPTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(7).Add(col.New(12).Add(
			text.New("Desarrollo de software: "+invoice.ServiceName, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 1, Left: 1,
			}),
		)),
	}
	if invoice.ServiceDetail != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New(invoice.ServiceDetail, props.Text{
				Size: 8, Top: 1, Left: 1, Color: colorGray,
			}),
		)))
	}
	return rows
}

// totalsRow: bloque de totales alineado a la derecha. La retención se muestra
// restando, tal como afecta lo que efectivamente paga el cliente.
func totalsRow(invoice *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	labels := col.New(4)
	values := col.New(4)
	labels.Add(label("Subtotal:"))
	values.Add(value(money.Format(invoice.SubtotalCents, "es-CO")))
	if invoice.IVACents != 0 {
		labels.Add(label("IVA (19%):"))
		values.Add(value(money.Format(invoice.IVACents, "es-CO")))
	}
	if invoice.ReteFuenteCents != 0 {
		labels.Add(label("Retención en la Fuente:"))
		values.Add(value(money.Format(-invoice.ReteFuenteCents, "es-CO")))
	}
	labels.Add(grandLabel("TOTAL A PAGAR:"))
	values.Add(grandValue(money.Format(invoice.TotalCents, "es-CO")))

	return row.New(26).Add(col.New(2), labels, values, col.New(2))
}

// footerRows: régimen aplicado y resolución DIAN si la factura la lleva.
func footerRows(invoice *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("Régimen tributario aplicado: "+invoice.Regime, props.Text{
				Size: 7.5, Color: colorGray, Top: 1,
			}),
		)),
	}
	if invoice.Resolution != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Resolución de facturación DIAN N° "+invoice.Resolution, props.Text{
				Size: 7.5, Color: colorGray, Top: 0.5,
			}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Documento generado electrónicamente tras la aprobación del pago. "+
				"Conserve este documento como soporte fiscal.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}
