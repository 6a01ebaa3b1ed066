package fiscal

import "strings"

// ClientFiscalData son los campos de identidad del cliente relevantes para facturar.
type ClientFiscalData struct {
	Cedula      string
	NIT         string
	RUT         string
	Email       string
	AmountCents int64
}

// ValidationResult es el resultado de validar datos de factura: pasa/no pasa más
// la lista ordenada de razones. Se computa bajo demanda justo antes de emitir y
// nunca se cachea, porque el régimen o los datos del cliente pueden cambiar
// entre cotización y pago.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidateInvoiceData verifica que existan los datos exigidos por el régimen
// para emitir una factura legal. Acumula TODAS las violaciones encontradas, no
// solo la primera: el cliente debe poder ver todo lo que falta de una vez.
func ValidateInvoiceData(data ClientFiscalData, regime TaxRegime) ValidationResult {
	var errs []string

	if regime.Invoicing.RequiresCedula && strings.TrimSpace(data.Cedula) == "" {
		errs = append(errs, "la cédula es obligatoria para este régimen tributario")
	}
	if regime.Invoicing.RequiresNIT && strings.TrimSpace(data.NIT) == "" {
		errs = append(errs, "el NIT es obligatorio para este régimen tributario")
	}
	if regime.Invoicing.RequiresRUT && strings.TrimSpace(data.RUT) == "" {
		errs = append(errs, "el RUT es obligatorio para este régimen tributario")
	}

	// Independientes del régimen: siempre se exige email de contacto y monto positivo.
	if strings.TrimSpace(data.Email) == "" {
		errs = append(errs, "el email del cliente es obligatorio")
	}
	if data.AmountCents <= 0 {
		errs = append(errs, "el monto debe ser mayor que cero")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// ReportingRequirements resume las obligaciones de reporte del régimen para
// presentación administrativa.
type ReportingRequirements struct {
	Required  bool
	Frequency string
	Reports   []string
}

// ReportingFor devuelve las declaraciones implicadas por el régimen.
func ReportingFor(regime TaxRegime) ReportingRequirements {
	if !regime.Reporting.RequiresDIANReporting {
		return ReportingRequirements{Required: false, Frequency: FrequencyNone}
	}
	var reports []string
	if regime.Reporting.RequiresVATDeclaration {
		reports = append(reports, "Declaración de IVA")
	}
	if regime.Reporting.RequiresIncomeDeclaration {
		reports = append(reports, "Declaración de Renta y Complementarios")
	}
	return ReportingRequirements{
		Required:  true,
		Frequency: regime.Reporting.Frequency,
		Reports:   reports,
	}
}
