package dto

import "time"

// RegimeSummary régimen en listados administrativos.
type RegimeSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// RegimeDetail régimen completo para GET /api/admin/regimes/:name.
type RegimeDetail struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	IsActive    bool           `json:"is_active"`
	Charges     RegimeCharges  `json:"charges"`
	Invoicing   RegimeInvoices `json:"invoicing"`
	Reporting   RegimeReports  `json:"reporting"`
}

// RegimeCharges cargos del régimen (tarifas como string decimal exacto).
type RegimeCharges struct {
	AppliesIVA        bool       `json:"applies_iva"`
	IVARate           string     `json:"iva_rate"`
	AppliesReteFuente bool       `json:"applies_retefuente"`
	ReteFuenteRate    string     `json:"retefuente_rate"`
	OtherTaxes        []NamedTax `json:"other_taxes,omitempty"`
}

// NamedTax impuesto adicional con nombre.
type NamedTax struct {
	Name string `json:"name"`
	Rate string `json:"rate"`
}

// RegimeInvoices requisitos de facturación.
type RegimeInvoices struct {
	RequiresCedula      bool   `json:"requires_cedula"`
	RequiresNIT         bool   `json:"requires_nit"`
	RequiresRUT         bool   `json:"requires_rut"`
	RequiresResolution  bool   `json:"requires_resolution"`
	ResolutionNumber    string `json:"resolution_number,omitempty"`
	SequentialNumbering bool   `json:"sequential_numbering"`
}

// RegimeReports obligaciones de reporte.
type RegimeReports struct {
	Required  bool     `json:"required"`
	Frequency string   `json:"frequency"`
	Reports   []string `json:"reports,omitempty"`
}

// ActivateRegimeResponse resultado de POST /api/admin/regimes/:name/activate.
type ActivateRegimeResponse struct {
	PreviousRegime string    `json:"previous_regime"`
	NewRegime      string    `json:"new_regime"`
	ChangedAt      time.Time `json:"changed_at"`
	Principal      string    `json:"principal"`
}

// RegimeChangeDTO entrada del historial de auditoría.
type RegimeChangeDTO struct {
	ID             string    `json:"id"`
	PreviousRegime string    `json:"previous_regime"`
	NewRegime      string    `json:"new_regime"`
	Principal      string    `json:"principal"`
	ChangedAt      time.Time `json:"changed_at"`
}
