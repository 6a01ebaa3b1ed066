// Package fiscal contiene el motor de precios y cumplimiento tributario:
// regímenes, cálculo de desglose de precios y validación de datos de factura.
// Todo monto es un entero en unidad menor (centavos); las tarifas son fracciones
// decimales exactas (shopspring/decimal). Nada en este paquete hace I/O.
package fiscal

import "github.com/shopspring/decimal"

// Nombres del conjunto cerrado de regímenes tributarios.
const (
	RegimePersonaNatural  = "PERSONA_NATURAL"
	RegimePersonaJuridica = "PERSONA_JURIDICA"
	RegimeSimplificado    = "SIMPLIFICADO"
	RegimeEspecial        = "ESPECIAL"
)

// Frecuencias de reporte ante la DIAN.
const (
	FrequencyMonthly   = "MONTHLY"
	FrequencyQuarterly = "QUARTERLY"
	FrequencyAnnual    = "ANNUAL"
	FrequencyNone      = "NONE"
)

// NamedTax es un impuesto adicional con nombre y tarifa (ej. ICA, Impoconsumo).
type NamedTax struct {
	Name        string
	Rate        decimal.Decimal // fracción, ej. 0.00414
	Description string
}

// ChargeRules define qué cargos aplica un régimen sobre el precio base.
type ChargeRules struct {
	AppliesIVA        bool
	IVARate           decimal.Decimal // ej. 0.19
	AppliesReteFuente bool
	ReteFuenteRate    decimal.Decimal // ej. 0.03
	OtherTaxes        []NamedTax      // orden estable: se aplican en este orden
}

// InvoicingRules define qué documentos del cliente exige el régimen para facturar.
type InvoicingRules struct {
	RequiresCedula      bool
	RequiresNIT         bool
	RequiresRUT         bool
	RequiresResolution  bool
	ResolutionNumber    string // Resolución DIAN, si aplica
	SequentialNumbering bool   // La DIAN exige consecutivo
}

// ReportingRules define las obligaciones periódicas de reporte del régimen.
type ReportingRules struct {
	RequiresDIANReporting     bool
	Frequency                 string // MONTHLY, QUARTERLY, ANNUAL, NONE
	RequiresVATDeclaration    bool   // Declaración de IVA
	RequiresIncomeDeclaration bool   // Declaración de Renta
}

// TaxRegime es una configuración fiscal completa. Exactamente uno del conjunto
// cerrado está activo a la vez (invariante del Registry).
type TaxRegime struct {
	Name        string
	Description string
	Charges     ChargeRules
	Invoicing   InvoicingRules
	Reporting   ReportingRules
}

// BuiltinRegimes devuelve el conjunto cerrado de regímenes configurados, en orden
// estable. Las tarifas reflejan la normativa colombiana para servicios de software.
func BuiltinRegimes() []TaxRegime {
	return []TaxRegime{
		{
			Name:        RegimePersonaNatural,
			Description: "Persona Natural - Sin IVA ni retenciones",
			Charges: ChargeRules{
				IVARate:        decimal.Zero,
				ReteFuenteRate: decimal.Zero,
			},
			Invoicing: InvoicingRules{
				RequiresCedula: true,
			},
			Reporting: ReportingRules{
				Frequency: FrequencyNone,
			},
		},
		{
			Name:        RegimePersonaJuridica,
			Description: "Persona Jurídica - IVA 19% + Retefuente 3%",
			Charges: ChargeRules{
				AppliesIVA:        true,
				IVARate:           decimal.NewFromFloat(0.19),
				AppliesReteFuente: true,
				ReteFuenteRate:    decimal.NewFromFloat(0.03), // 3% servicios
			},
			Invoicing: InvoicingRules{
				RequiresNIT:         true,
				RequiresRUT:         true,
				RequiresResolution:  true,
				SequentialNumbering: true,
			},
			Reporting: ReportingRules{
				RequiresDIANReporting:     true,
				Frequency:                 FrequencyMonthly,
				RequiresVATDeclaration:    true,
				RequiresIncomeDeclaration: true,
			},
		},
		{
			Name:        RegimeSimplificado,
			Description: "Régimen Simplificado - IVA 19% + Retefuente 2%",
			Charges: ChargeRules{
				AppliesIVA:        true,
				IVARate:           decimal.NewFromFloat(0.19),
				AppliesReteFuente: true,
				ReteFuenteRate:    decimal.NewFromFloat(0.02),
			},
			Invoicing: InvoicingRules{
				RequiresNIT:         true,
				RequiresRUT:         true,
				RequiresResolution:  true,
				SequentialNumbering: true,
			},
			Reporting: ReportingRules{
				RequiresDIANReporting:     true,
				Frequency:                 FrequencyQuarterly,
				RequiresVATDeclaration:    true,
				RequiresIncomeDeclaration: true,
			},
		},
		{
			Name:        RegimeEspecial,
			Description: "Régimen Especial - Beneficios para Tech",
			Charges: ChargeRules{
				AppliesIVA:        true,
				IVARate:           decimal.NewFromFloat(0.19),
				AppliesReteFuente: true,
				ReteFuenteRate:    decimal.NewFromFloat(0.015), // tarifa reducida
			},
			Invoicing: InvoicingRules{
				RequiresNIT:         true,
				RequiresRUT:         true,
				RequiresResolution:  true,
				SequentialNumbering: true,
			},
			Reporting: ReportingRules{
				RequiresDIANReporting:     true,
				Frequency:                 FrequencyQuarterly,
				RequiresVATDeclaration:    true,
				RequiresIncomeDeclaration: true,
			},
		},
	}
}

// DefaultActiveRegime es el régimen activo cuando la persistencia no tiene
// una selección guardada (primer arranque).
const DefaultActiveRegime = RegimePersonaNatural
