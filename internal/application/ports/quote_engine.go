package ports

import "context"

// FeatureDraft es una feature propuesta por el modelo, antes de asignar precio.
type FeatureDraft struct {
	Name        string
	Description string
	Complexity  string // LOW, MEDIUM, HIGH
}

// QuotationDraft es la descomposición cruda que devuelve el modelo.
type QuotationDraft struct {
	Title    string
	Features []FeatureDraft
}

// QuoteEngine define el puerto de salida hacia el modelo de lenguaje.
// Cualquier adaptador (Anthropic, OpenAI, mock) debe implementar esta interfaz.
// Siguiendo el principio de inversión de dependencias (DIP), la aplicación solo
// conoce este contrato, no la implementación concreta.
type QuoteEngine interface {
	// DecomposeProject analiza una descripción en lenguaje natural y la desglosa
	// en un título y features atómicas clasificadas por complejidad.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	DecomposeProject(ctx context.Context, description string) (*QuotationDraft, error)

	// GenerateBlueprint produce el blueprint técnico (markdown) de un proyecto
	// pagado, a partir de su título y la lista de features confirmadas.
	GenerateBlueprint(ctx context.Context, title string, features []FeatureDraft) (string, error)
}
