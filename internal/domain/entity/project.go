package entity

import "time"

// Estados del ciclo de vida de un proyecto cotizado.
const (
	ProjectStatusQuoted          = "QUOTED"           // Cotización generada por IA
	ProjectStatusScopeLocked     = "SCOPE_LOCKED"     // Cliente confirmó el alcance
	ProjectStatusPaymentApproved = "PAYMENT_APPROVED" // Pago confirmado por la pasarela
	ProjectStatusInQueue         = "IN_QUEUE"         // En cola de desarrollo
	ProjectStatusDelivered       = "DELIVERED"        // Paquete entregado
)

// Complejidades de feature y sus horas estimadas.
const (
	ComplexityLow    = "LOW"
	ComplexityMedium = "MEDIUM"
	ComplexityHigh   = "HIGH"
)

// HoursForComplexity devuelve las horas estimadas para una complejidad.
// Complejidades desconocidas se tratan como MEDIUM.
func HoursForComplexity(complexity string) int {
	switch complexity {
	case ComplexityLow:
		return 4
	case ComplexityHigh:
		return 24
	default:
		return 12
	}
}

// Project representa un proyecto cotizado para un cliente.
// BasePriceCents: precio base en unidad menor, antes de impuestos.
type Project struct {
	ID             string
	ClientID       string
	Title          string
	Description    string
	Status         string
	BasePriceCents int64
	EstimatedHours int
	ScopeConfirmed bool
	Blueprint      string // Blueprint técnico generado por IA tras el pago aprobado
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Feature es una funcionalidad atómica dentro de un proyecto cotizado.
type Feature struct {
	ID          string
	ProjectID   string
	Name        string
	Description string
	Complexity  string // LOW, MEDIUM, HIGH
	Hours       int
	PriceCents  int64
	CreatedAt   time.Time
}
