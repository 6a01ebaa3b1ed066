// Package money es la frontera de presentación de valores monetarios.
// Todo el dominio opera con enteros en unidad menor (centavos); la conversión
// a pesos y el formato por locale viven únicamente aquí.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// defaultLocale es el locale comercial del negocio (Colombia).
const defaultLocale = "es-CO"

// Format renderiza un monto en unidad menor como string legible en pesos.
// El locale controla únicamente separadores de miles y convenciones de agrupación;
// la conversión centavos→pesos (redondeo al peso más cercano) es fija e
// independiente del locale. Ej: Format(116000000, "es-CO") -> "$ 1.160.000".
func Format(amountInCents int64, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(defaultLocale)
	}
	p := message.NewPrinter(tag)

	pesos := toPesos(amountInCents)
	if pesos < 0 {
		return p.Sprintf("-$ %v", number.Decimal(-pesos))
	}
	return p.Sprintf("$ %v", number.Decimal(pesos))
}

// FormatWithCode agrega el código ISO de la moneda: "$ 1.160.000 COP".
func FormatWithCode(amountInCents int64, locale, currency string) string {
	return Format(amountInCents, locale) + " " + currency
}

// toPesos convierte centavos a pesos redondeando al entero más cercano
// (mitades alejándose de cero, igual que el resto del motor de precios).
func toPesos(cents int64) int64 {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Round(0).IntPart()
}
