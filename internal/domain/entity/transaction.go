package entity

import "time"

// Estados de una transacción de pago según la pasarela.
// PENDING es el único estado no terminal: una vez alcanzado cualquiera de los
// otros cuatro, la transacción no puede regresar ni cambiar de estado terminal.
const (
	TxStatusPending  = "PENDING"
	TxStatusApproved = "APPROVED"
	TxStatusDeclined = "DECLINED"
	TxStatusVoided   = "VOIDED"
	TxStatusError    = "ERROR"
)

// IsTerminalStatus indica si un estado de transacción es terminal.
func IsTerminalStatus(status string) bool {
	switch status {
	case TxStatusApproved, TxStatusDeclined, TxStatusVoided, TxStatusError:
		return true
	}
	return false
}

// CanTransition indica si la transición from -> to es válida.
// Solo se permite salir de PENDING hacia un estado terminal; las notificaciones
// duplicadas o fuera de orden sobre un estado terminal deben tratarse como no-op.
func CanTransition(from, to string) bool {
	if from != TxStatusPending {
		return false
	}
	return IsTerminalStatus(to)
}

// Transaction representa un intento de pago vía Wompi.
// Los montos y el régimen quedan congelados al crear la sesión de checkout:
// el breakdown usado para cobrar y el usado después para facturar salen del
// mismo snapshot, aunque el régimen activo cambie a mitad de la transacción.
type Transaction struct {
	ID              string
	ProjectID       string
	Reference       string // Referencia única enviada a Wompi (PRJ-...)
	Regime          string // Régimen fiscal vigente al momento del checkout
	SubtotalCents   int64
	IVACents        int64
	ReteFuenteCents int64
	OtherTaxesCents int64
	TotalCents      int64
	Currency        string
	Status          string // PENDING, APPROVED, DECLINED, VOIDED, ERROR
	GatewayTxID     string // ID asignado por Wompi en la notificación
	PaymentMethod   string
	ErrorMessage    string
	ApprovedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
