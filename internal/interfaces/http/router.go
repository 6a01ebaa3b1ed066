package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador-api/internal/application/auth"
	"github.com/jhoicas/cotizador-api/internal/application/billing"
	appfiscal "github.com/jhoicas/cotizador-api/internal/application/fiscal"
	"github.com/jhoicas/cotizador-api/internal/application/payment"
	"github.com/jhoicas/cotizador-api/internal/application/quotation"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	QuotationUC *quotation.QuotationUseCase
	CheckoutUC  *payment.CheckoutUseCase
	WebhookUC   *payment.WebhookUseCase
	RegimeUC    *appfiscal.RegimeUseCase
	BillingUC   *billing.BillingUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Webhook de la pasarela (público; autenticado por firma sobre el cuerpo crudo)
	paymentHandler := NewPaymentHandler(deps.CheckoutUC, deps.WebhookUC)
	api.Post("/webhooks/wompi", paymentHandler.Webhook)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Cotizaciones y proyectos (protegido)
	quotationHandler := NewQuotationHandler(deps.QuotationUC)
	protected.Post("/quotations", quotationHandler.Create)
	protected.Get("/projects", quotationHandler.List)
	protected.Get("/projects/:id/quotation", quotationHandler.Get)
	protected.Post("/projects/:id/lock-scope", quotationHandler.LockScope)

	// Pagos (protegido)
	protected.Post("/projects/:id/checkout", paymentHandler.CreateCheckout)
	protected.Get("/transactions/:id", paymentHandler.GetTransaction)

	// Facturación (protegido)
	invoiceHandler := NewInvoiceHandler(deps.BillingUC)
	protected.Post("/projects/:id/invoice", invoiceHandler.Create)
	protected.Get("/projects/:id/invoice", invoiceHandler.Get)
	protected.Get("/invoices/:id/pdf", invoiceHandler.PDF)

	// Administración fiscal (protegido, solo admin)
	admin := protected.Group("/admin", RequireRole(entity.RoleAdmin))
	regimeHandler := NewRegimeHandler(deps.RegimeUC)
	admin.Get("/regimes", regimeHandler.List)
	admin.Get("/regimes/changes", regimeHandler.ListChanges)
	admin.Get("/regimes/active/reporting", regimeHandler.ActiveReporting)
	admin.Get("/regimes/:name", regimeHandler.Get)
	admin.Post("/regimes/:name/activate", regimeHandler.Activate)
}
