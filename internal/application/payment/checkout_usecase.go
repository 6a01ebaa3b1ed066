// Package payment implementa la creación de sesiones de pago y el procesamiento
// de notificaciones asíncronas de la pasarela Wompi.
package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/domain"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/fiscal"
	"github.com/jhoicas/cotizador-api/internal/domain/payments"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

// WompiConfig parámetros de la pasarela para el caso de uso.
type WompiConfig struct {
	IntegritySecret string
	Currency        string
}

// CheckoutUseCase crea sesiones de pago para proyectos con alcance confirmado.
type CheckoutUseCase struct {
	projectRepo repository.ProjectRepository
	txRepo      repository.TransactionRepository
	userRepo    repository.UserRepository
	registry    *fiscal.Registry
	builder     CheckoutBuilder
	cfg         WompiConfig
	log         zerolog.Logger
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(
	projectRepo repository.ProjectRepository,
	txRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	registry *fiscal.Registry,
	builder CheckoutBuilder,
	cfg WompiConfig,
	log zerolog.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		projectRepo: projectRepo,
		txRepo:      txRepo,
		userRepo:    userRepo,
		registry:    registry,
		builder:     builder,
		cfg:         cfg,
		log:         log,
	}
}

// CreateSession toma UN snapshot del régimen activo, computa el desglose, firma
// la referencia y persiste la transacción PENDING con los montos y el régimen
// congelados. El desglose usado para cobrar es el mismo que se usará después
// para facturar: un cambio de régimen a mitad de transacción no la afecta.
func (uc *CheckoutUseCase) CreateSession(ctx context.Context, clientID, projectID string) (*dto.CheckoutResponse, error) {
	project, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	if project.ClientID != clientID {
		return nil, domain.ErrForbidden
	}
	if !project.ScopeConfirmed {
		return nil, domain.ErrConflict // el alcance debe estar confirmado antes de pagar
	}

	client, err := uc.userRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrUserNotFound
	}

	// Snapshot del régimen: una sola lectura para toda la sesión.
	regime, err := uc.registry.GetActive()
	if err != nil {
		return nil, err
	}
	breakdown, err := fiscal.ComputeBreakdown(project.BasePriceCents, regime)
	if err != nil {
		return nil, err
	}

	reference := payments.NewReference(project.ID)
	signature := payments.Sign(reference, breakdown.TotalCents, uc.cfg.Currency, uc.cfg.IntegritySecret)

	now := time.Now()
	tx := &entity.Transaction{
		ID:              uuid.New().String(),
		ProjectID:       project.ID,
		Reference:       reference,
		Regime:          regime.Name,
		SubtotalCents:   breakdown.BaseCents,
		IVACents:        breakdown.AmountFor(fiscal.LineIVA),
		ReteFuenteCents: -breakdown.AmountFor(fiscal.LineReteFuente), // se guarda en valor absoluto
		OtherTaxesCents: breakdown.AmountFor(fiscal.LineOtherTax),
		TotalCents:      breakdown.TotalCents,
		Currency:        uc.cfg.Currency,
		Status:          entity.TxStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	checkoutURL := uc.builder.BuildCheckoutURL(reference, breakdown.TotalCents, signature, client.Email, client.Name)

	uc.log.Info().
		Str("project_id", project.ID).
		Str("reference", reference).
		Str("regime", regime.Name).
		Int64("total_cents", breakdown.TotalCents).
		Msg("sesión de checkout creada")

	return &dto.CheckoutResponse{
		TransactionID: tx.ID,
		Reference:     reference,
		CheckoutURL:   checkoutURL,
		Breakdown:     dto.ToBreakdownDTO(breakdown),
	}, nil
}

// GetTransaction devuelve el estado de una transacción (polling del frontend).
func (uc *CheckoutUseCase) GetTransaction(ctx context.Context, clientID, txID string) (*dto.TransactionResponse, error) {
	tx, err := uc.txRepo.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	project, err := uc.projectRepo.GetByID(ctx, tx.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil || project.ClientID != clientID {
		return nil, domain.ErrForbidden
	}
	return &dto.TransactionResponse{
		ID:            tx.ID,
		ProjectID:     tx.ProjectID,
		Reference:     tx.Reference,
		Regime:        tx.Regime,
		TotalCents:    tx.TotalCents,
		Currency:      tx.Currency,
		Status:        tx.Status,
		PaymentMethod: tx.PaymentMethod,
		ErrorMessage:  tx.ErrorMessage,
	}, nil
}

