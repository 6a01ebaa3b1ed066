package fiscal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cotizador-api/internal/domain"
)

// Tipos de línea del desglose.
const (
	LineSubtotal   = "SUBTOTAL"
	LineIVA        = "IVA"
	LineReteFuente = "RETEFUENTE"
	LineOtherTax   = "OTHER_TAX"
)

// LineItem es una línea del desglose de precio. Amount va con signo: las
// retenciones restan del total a solicitar al cliente.
type LineItem struct {
	Kind        string
	Label       string
	AmountCents int64           // con signo; negativo para retenciones
	Percentage  decimal.Decimal // anotación informativa; cero en el subtotal
}

// PriceBreakdown es el desglose itemizado y el total final.
// Derivado, nunca almacenado: siempre recomputable de (base, régimen).
type PriceBreakdown struct {
	Regime     string
	BaseCents  int64
	Lines      []LineItem
	TotalCents int64
}

// ComputeBreakdown convierte un precio base en el total a pagar bajo el régimen.
// Función pura: sin efectos, determinista, misma entrada -> salida idéntica.
//
// Cada impuesto se redondea de forma independiente al centavo más cercano y el
// total es la suma exacta de las líneas ya redondeadas; nunca se recalcula el
// total desde componentes sin redondear, para que las líneas mostradas sumen
// exactamente el total mostrado.
//
// Total = subtotal + IVA - retefuente + otros impuestos.
func ComputeBreakdown(baseCents int64, regime TaxRegime) (PriceBreakdown, error) {
	if baseCents <= 0 {
		return PriceBreakdown{}, fmt.Errorf("%w: el precio base debe ser positivo (%d)", domain.ErrInvalidAmount, baseCents)
	}

	breakdown := PriceBreakdown{
		Regime:    regime.Name,
		BaseCents: baseCents,
		Lines: []LineItem{
			{Kind: LineSubtotal, Label: "Subtotal", AmountCents: baseCents},
		},
	}

	base := decimal.NewFromInt(baseCents)

	if regime.Charges.AppliesIVA {
		iva := roundTax(base, regime.Charges.IVARate)
		breakdown.Lines = append(breakdown.Lines, LineItem{
			Kind:        LineIVA,
			Label:       fmt.Sprintf("IVA (%s%%)", ratePercent(regime.Charges.IVARate)),
			AmountCents: iva,
			Percentage:  regime.Charges.IVARate.Mul(decimal.NewFromInt(100)),
		})
	}

	if regime.Charges.AppliesReteFuente {
		rete := roundTax(base, regime.Charges.ReteFuenteRate)
		breakdown.Lines = append(breakdown.Lines, LineItem{
			Kind:        LineReteFuente,
			Label:       fmt.Sprintf("Retención en la Fuente (%s%%)", ratePercent(regime.Charges.ReteFuenteRate)),
			AmountCents: -rete,
			Percentage:  regime.Charges.ReteFuenteRate.Mul(decimal.NewFromInt(100)),
		})
	}

	for _, tax := range regime.Charges.OtherTaxes {
		amount := roundTax(base, tax.Rate)
		breakdown.Lines = append(breakdown.Lines, LineItem{
			Kind:        LineOtherTax,
			Label:       fmt.Sprintf("%s (%s%%)", tax.Name, ratePercent(tax.Rate)),
			AmountCents: amount,
			Percentage:  tax.Rate.Mul(decimal.NewFromInt(100)),
		})
	}

	var total int64
	for _, line := range breakdown.Lines {
		total += line.AmountCents
	}
	breakdown.TotalCents = total
	return breakdown, nil
}

// AmountFor suma los montos (con signo) de las líneas del tipo dado.
// Para RETEFUENTE el resultado es negativo.
func (b PriceBreakdown) AmountFor(kind string) int64 {
	var total int64
	for _, l := range b.Lines {
		if l.Kind == kind {
			total += l.AmountCents
		}
	}
	return total
}

// roundTax calcula base*rate redondeado al centavo más cercano (mitades
// alejándose de cero), de forma independiente por impuesto.
func roundTax(base, rate decimal.Decimal) int64 {
	return base.Mul(rate).Round(0).IntPart()
}

// ratePercent formatea una tarifa fraccional como porcentaje sin ceros finales
// (0.19 -> "19", 0.015 -> "1.5").
func ratePercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String()
}
