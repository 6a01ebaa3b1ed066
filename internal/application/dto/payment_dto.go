package dto

// CheckoutResponse sesión de pago creada para POST /api/projects/:id/checkout.
type CheckoutResponse struct {
	TransactionID string       `json:"transaction_id"`
	Reference     string       `json:"reference"`
	CheckoutURL   string       `json:"checkout_url"`
	Breakdown     BreakdownDTO `json:"breakdown"`
}

// WompiWebhookPayload cuerpo de la notificación asíncrona de Wompi.
// Solo se deserializa DESPUÉS de verificar la firma sobre el cuerpo crudo.
type WompiWebhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Transaction struct {
			ID            string `json:"id"`
			Reference     string `json:"reference"`
			AmountInCents int64  `json:"amount_in_cents"`
			Currency      string `json:"currency"`
			Status        string `json:"status"` // APPROVED, DECLINED, VOIDED, ERROR, PENDING
			PaymentMethod struct {
				Type string `json:"type"`
			} `json:"payment_method"`
			CustomerEmail string `json:"customer_email"`
		} `json:"transaction"`
	} `json:"data"`
}

// TransactionResponse estado de una transacción para GET /api/transactions/:id.
type TransactionResponse struct {
	ID            string `json:"id"`
	ProjectID     string `json:"project_id"`
	Reference     string `json:"reference"`
	Regime        string `json:"regime"`
	TotalCents    int64  `json:"total_cents"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
}
