package dto

// CreateQuotationRequest body para POST /api/quotations.
// Description: descripción del proyecto en lenguaje natural.
type CreateQuotationRequest struct {
	Description string `json:"description"`
}

// FeatureDTO una funcionalidad atómica de la cotización.
type FeatureDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Complexity  string `json:"complexity"` // LOW, MEDIUM, HIGH
	Hours       int    `json:"hours"`
	PriceCents  int64  `json:"price_cents"`
}

// LineItemDTO línea del desglose de precio. Amount con signo (retenciones en negativo).
type LineItemDTO struct {
	Label       string `json:"label"`
	AmountCents int64  `json:"amount_cents"`
	Percentage  string `json:"percentage,omitempty"` // anotación, ej. "19"
	Display     string `json:"display"`              // monto formateado para humanos
}

// BreakdownDTO desglose itemizado bajo el régimen activo.
type BreakdownDTO struct {
	Regime     string        `json:"regime"`
	BaseCents  int64         `json:"base_cents"`
	Lines      []LineItemDTO `json:"lines"`
	TotalCents int64         `json:"total_cents"`
	Display    string        `json:"display"` // total formateado
}

// QuotationResponse cotización generada por el motor de IA.
type QuotationResponse struct {
	ProjectID      string       `json:"project_id"`
	Title          string       `json:"title"`
	Status         string       `json:"status"`
	Features       []FeatureDTO `json:"features"`
	EstimatedHours int          `json:"estimated_hours"`
	BasePriceCents int64        `json:"base_price_cents"`
	Breakdown      BreakdownDTO `json:"breakdown"`
}

// ProjectResponse proyecto en listados.
type ProjectResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Status         string `json:"status"`
	BasePriceCents int64  `json:"base_price_cents"`
	EstimatedHours int    `json:"estimated_hours"`
	ScopeConfirmed bool   `json:"scope_confirmed"`
}
