package entity

import "time"

// RegimeChange es un registro de auditoría append-only de cambios de régimen fiscal.
// Quién cambió qué, cuándo, de qué régimen a cuál. Nunca se actualiza ni borra.
type RegimeChange struct {
	ID             string
	PreviousRegime string
	NewRegime      string
	Principal      string // Usuario (admin) que ejecutó el cambio
	ChangedAt      time.Time
}
