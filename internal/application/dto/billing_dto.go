package dto

import "time"

// CreateInvoiceRequest body para POST /api/projects/:id/invoice.
// Los documentos requeridos dependen del régimen congelado en la transacción.
type CreateInvoiceRequest struct {
	ClientName   string `json:"client_name"`
	ClientEmail  string `json:"client_email"`
	ClientCedula string `json:"client_cedula,omitempty"`
	ClientNIT    string `json:"client_nit,omitempty"`
	ClientRUT    string `json:"client_rut,omitempty"`
}

// InvoiceResponse factura emitida.
type InvoiceResponse struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"project_id"`
	TransactionID   string    `json:"transaction_id"`
	Number          string    `json:"number"`
	Resolution      string    `json:"resolution,omitempty"`
	Regime          string    `json:"regime"`
	ClientName      string    `json:"client_name"`
	ClientEmail     string    `json:"client_email"`
	SubtotalCents   int64     `json:"subtotal_cents"`
	IVACents        int64     `json:"iva_cents"`
	ReteFuenteCents int64     `json:"retefuente_cents"`
	TotalCents      int64     `json:"total_cents"`
	TotalDisplay    string    `json:"total_display"`
	Currency        string    `json:"currency"`
	IssuedAt        time.Time `json:"issued_at"`
}
