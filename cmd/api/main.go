package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/cotizador-api/internal/application/auth"
	"github.com/jhoicas/cotizador-api/internal/application/billing"
	appfiscal "github.com/jhoicas/cotizador-api/internal/application/fiscal"
	"github.com/jhoicas/cotizador-api/internal/application/payment"
	"github.com/jhoicas/cotizador-api/internal/application/quotation"
	"github.com/jhoicas/cotizador-api/internal/domain/fiscal"
	infraai "github.com/jhoicas/cotizador-api/internal/infrastructure/ai"
	infrapdf "github.com/jhoicas/cotizador-api/internal/infrastructure/pdf"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/ubl"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/wompi"
	httpRouter "github.com/jhoicas/cotizador-api/internal/interfaces/http"
	"github.com/jhoicas/cotizador-api/pkg/config"
	"github.com/jhoicas/cotizador-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Registro de regímenes: el conjunto cerrado configurado, con la resolución
	// DIAN del comercio inyectada donde el régimen la exige.
	regimes := fiscal.BuiltinRegimes()
	for i := range regimes {
		if regimes[i].Invoicing.RequiresResolution && regimes[i].Invoicing.ResolutionNumber == "" {
			regimes[i].Invoicing.ResolutionNumber = cfg.Billing.DIANResolution
		}
	}
	registry, err := fiscal.NewRegistry(regimes, fiscal.DefaultActiveRegime)
	if err != nil {
		log.Fatal().Err(err).Msg("registro de regímenes")
	}

	userRepo := postgres.NewUserRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	regimeRepo := postgres.NewRegimeRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	regimeUC := appfiscal.NewRegimeUseCase(registry, regimeRepo, log.Zerolog())
	if err := regimeUC.RestoreActive(ctx); err != nil {
		log.Fatal().Err(err).Msg("restaurar régimen activo")
	}

	anthropicSvc := infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)

	quotationUC := quotation.NewQuotationUseCase(
		anthropicSvc, projectRepo, registry, cfg.Quote.HourlyRateCents, log.Zerolog(),
	)

	checkoutBuilder := wompi.NewCheckoutURLBuilder(cfg.Wompi)
	checkoutUC := payment.NewCheckoutUseCase(
		projectRepo, txRepo, userRepo, registry, checkoutBuilder,
		payment.WompiConfig{
			IntegritySecret: cfg.Wompi.IntegritySecret,
			Currency:        cfg.Wompi.Currency,
		},
		log.Zerolog(),
	)
	webhookUC := payment.NewWebhookUseCase(
		txRunner, txRepo, projectRepo, anthropicSvc, cfg.Wompi.IntegritySecret, log.Zerolog(),
	)

	xmlBuilder := ubl.NewInvoiceXMLBuilder(cfg.Billing.IssuerName, cfg.Billing.IssuerNIT)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.Billing.IssuerName, cfg.Billing.IssuerNIT)
	billingUC := billing.NewBillingUseCase(
		projectRepo, txRepo, invoiceRepo, registry, xmlBuilder, pdfGenerator, log.Zerolog(),
	)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		QuotationUC: quotationUC,
		CheckoutUC:  checkoutUC,
		WebhookUC:   webhookUC,
		RegimeUC:    regimeUC,
		BillingUC:   billingUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
