package entity

import "time"

// Invoice representa una cuenta de cobro / factura emitida tras un pago aprobado.
// Los montos provienen del snapshot de la transacción, no del régimen activo actual.
type Invoice struct {
	ID              string
	ProjectID       string
	TransactionID   string
	Number          string // Consecutivo (si el régimen exige resolución) o referencia UUID
	Resolution      string // Número de resolución DIAN, vacío si el régimen no la exige
	Regime          string
	ClientName      string
	ClientEmail     string
	ClientCedula    string
	ClientNIT       string
	ClientRUT       string
	ServiceName     string
	ServiceDetail   string
	SubtotalCents   int64
	IVACents        int64
	ReteFuenteCents int64
	TotalCents      int64
	Currency        string
	XML             string // Representación UBL sin firma, solo si el régimen exige resolución
	IssuedAt        time.Time
	CreatedAt       time.Time
}
