// Package wompi construye las URLs del Web Checkout de la pasarela Wompi.
// La firma de integridad se calcula en el dominio (payments.Sign); aquí solo
// se arma la URL con los parámetros que el checkout espera.
package wompi

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/jhoicas/cotizador-api/internal/application/payment"
	"github.com/jhoicas/cotizador-api/pkg/config"
)

var _ payment.CheckoutBuilder = (*CheckoutURLBuilder)(nil)

// CheckoutURLBuilder arma URLs del Web Checkout con la configuración del comercio.
type CheckoutURLBuilder struct {
	cfg config.WompiConfig
}

// NewCheckoutURLBuilder construye el builder.
func NewCheckoutURLBuilder(cfg config.WompiConfig) *CheckoutURLBuilder {
	return &CheckoutURLBuilder{cfg: cfg}
}

// BuildCheckoutURL devuelve la URL completa del Web Checkout para una sesión
// ya firmada. El monto va en unidad menor (amount_in_cents), tal como se firmó.
func (b *CheckoutURLBuilder) BuildCheckoutURL(reference string, amountInCents int64, signature, customerEmail, customerName string) string {
	params := url.Values{}
	params.Set("public-key", b.cfg.PublicKey)
	params.Set("reference", reference)
	params.Set("amount-in-cents", strconv.FormatInt(amountInCents, 10))
	params.Set("currency", b.cfg.Currency)
	params.Set("signature:integrity", signature)
	if b.cfg.RedirectURL != "" {
		params.Set("redirect-url", b.cfg.RedirectURL)
	}
	if customerEmail != "" {
		params.Set("customer-data:email", customerEmail)
	}
	if customerName != "" {
		params.Set("customer-data:full-name", customerName)
	}

	base := strings.TrimRight(b.cfg.CheckoutURL, "?")
	return base + "?" + params.Encode()
}
