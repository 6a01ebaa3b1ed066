package payment

import (
	"context"

	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

// CheckoutBuilder construye la URL del Web Checkout de la pasarela a partir de
// una sesión ya firmada. Implementado por infrastructure/wompi.
type CheckoutBuilder interface {
	BuildCheckoutURL(reference string, amountInCents int64, signature, customerEmail, customerName string) string
}

// PaymentTxRunner ejecuta el callback con repos atados a una misma transacción
// de base de datos. El webhook actualiza transacción y proyecto de forma
// atómica: o ambos cambian o ninguno.
type PaymentTxRunner interface {
	RunPayment(ctx context.Context, fn func(
		txRepo repository.TransactionRepository,
		projectRepo repository.ProjectRepository,
	) error) error
}
