package dto

import (
	"github.com/jhoicas/cotizador-api/internal/domain/fiscal"
	"github.com/jhoicas/cotizador-api/pkg/money"
)

// displayLocale locale por defecto para montos legibles en respuestas.
const displayLocale = "es-CO"

// ToBreakdownDTO convierte el desglose de dominio a su representación de API,
// agregando los montos formateados. El formato es solo presentación: los campos
// *_cents son la fuente de verdad.
func ToBreakdownDTO(b fiscal.PriceBreakdown) BreakdownDTO {
	lines := make([]LineItemDTO, 0, len(b.Lines))
	for _, l := range b.Lines {
		item := LineItemDTO{
			Label:       l.Label,
			AmountCents: l.AmountCents,
			Display:     money.Format(l.AmountCents, displayLocale),
		}
		if !l.Percentage.IsZero() {
			item.Percentage = l.Percentage.String()
		}
		lines = append(lines, item)
	}
	return BreakdownDTO{
		Regime:     b.Regime,
		BaseCents:  b.BaseCents,
		Lines:      lines,
		TotalCents: b.TotalCents,
		Display:    money.Format(b.TotalCents, displayLocale),
	}
}
