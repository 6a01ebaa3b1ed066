package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/application/ports"
	"github.com/jhoicas/cotizador-api/internal/domain"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/payments"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

// blueprintTimeout acota la generación del blueprint técnico tras la aprobación.
const blueprintTimeout = 60 * time.Second

// WebhookUseCase procesa notificaciones asíncronas de Wompi.
// Orden estricto: verificar firma sobre el cuerpo crudo -> parsear -> aplicar
// transición idempotente. Nunca se toca estado antes de verificar.
type WebhookUseCase struct {
	txRunner    PaymentTxRunner
	txRepo      repository.TransactionRepository
	projectRepo repository.ProjectRepository
	engine      ports.QuoteEngine
	secret      string
	log         zerolog.Logger
}

// NewWebhookUseCase construye el caso de uso.
func NewWebhookUseCase(
	txRunner PaymentTxRunner,
	txRepo repository.TransactionRepository,
	projectRepo repository.ProjectRepository,
	engine ports.QuoteEngine,
	secret string,
	log zerolog.Logger,
) *WebhookUseCase {
	return &WebhookUseCase{
		txRunner:    txRunner,
		txRepo:      txRepo,
		projectRepo: projectRepo,
		engine:      engine,
		secret:      secret,
		log:         log,
	}
}

// ProcessNotification autentica y aplica una notificación de la pasarela.
//
// rawBody es el cuerpo HTTP sin parsear, tal como llegó (contrato del handler).
// Devuelve domain.ErrUnauthorized si la firma no coincide; el handler responde
// 401 sin revelar qué parte de la firma falló.
func (uc *WebhookUseCase) ProcessNotification(ctx context.Context, rawBody []byte, receivedSignature string) error {
	if !payments.Verify(rawBody, receivedSignature, uc.secret) {
		uc.log.Warn().Msg("webhook rechazado: firma inválida")
		return domain.ErrUnauthorized
	}

	var payload dto.WompiWebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return fmt.Errorf("%w: cuerpo de webhook ilegible", domain.ErrInvalidInput)
	}

	// Solo procesamos eventos de transacción; otros eventos se aceptan sin efecto.
	if !strings.Contains(payload.Event, "transaction") {
		return nil
	}

	notif := payload.Data.Transaction
	tx, err := uc.txRepo.GetByReference(ctx, notif.Reference)
	if err != nil {
		return err
	}
	if tx == nil {
		return fmt.Errorf("%w: transacción %q", domain.ErrNotFound, notif.Reference)
	}

	// Idempotencia: una transacción en estado terminal no regresa ni cambia.
	// Notificaciones duplicadas o fuera de orden son no-op.
	if entity.IsTerminalStatus(tx.Status) {
		uc.log.Info().
			Str("reference", tx.Reference).
			Str("status", tx.Status).
			Str("notified", notif.Status).
			Msg("notificación sobre transacción terminal ignorada")
		return nil
	}

	newStatus := normalizeStatus(notif.Status)
	if newStatus == entity.TxStatusPending {
		// La pasarela aún no resuelve; nada que aplicar.
		return nil
	}
	if !entity.CanTransition(tx.Status, newStatus) {
		return fmt.Errorf("%w: transición %s -> %s", domain.ErrConflict, tx.Status, newStatus)
	}

	now := time.Now()
	tx.Status = newStatus
	tx.GatewayTxID = notif.ID
	tx.PaymentMethod = notif.PaymentMethod.Type
	tx.UpdatedAt = now
	switch newStatus {
	case entity.TxStatusApproved:
		tx.ApprovedAt = &now
	case entity.TxStatusDeclined:
		tx.ErrorMessage = fmt.Sprintf("pago rechazado por %s", notif.PaymentMethod.Type)
	case entity.TxStatusError:
		tx.ErrorMessage = "error reportado por la pasarela"
	}

	// Transacción y proyecto cambian juntos o no cambia ninguno.
	err = uc.txRunner.RunPayment(ctx, func(
		txRepo repository.TransactionRepository,
		projectRepo repository.ProjectRepository,
	) error {
		if err := txRepo.Update(ctx, tx); err != nil {
			return err
		}
		if newStatus == entity.TxStatusApproved {
			return projectRepo.UpdateStatus(ctx, tx.ProjectID, entity.ProjectStatusPaymentApproved)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.log.Info().
		Str("reference", tx.Reference).
		Str("status", newStatus).
		Str("gateway_tx", notif.ID).
		Msg("transacción actualizada por webhook")

	if newStatus == entity.TxStatusApproved {
		// El blueprint es mejor-esfuerzo: su fallo no tumba el webhook, solo se loguea.
		if err := uc.generateBlueprint(ctx, tx.ProjectID); err != nil {
			uc.log.Error().Err(err).Str("project_id", tx.ProjectID).Msg("generación de blueprint falló")
		}
	}
	return nil
}

// generateBlueprint produce y guarda el blueprint técnico del proyecto pagado.
func (uc *WebhookUseCase) generateBlueprint(ctx context.Context, projectID string) error {
	project, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return domain.ErrNotFound
	}
	features, err := uc.projectRepo.ListFeatures(ctx, projectID)
	if err != nil {
		return err
	}
	drafts := make([]ports.FeatureDraft, 0, len(features))
	for _, f := range features {
		drafts = append(drafts, ports.FeatureDraft{
			Name:        f.Name,
			Description: f.Description,
			Complexity:  f.Complexity,
		})
	}

	llmCtx, cancel := context.WithTimeout(ctx, blueprintTimeout)
	defer cancel()
	blueprint, err := uc.engine.GenerateBlueprint(llmCtx, project.Title, drafts)
	if err != nil {
		return err
	}
	return uc.projectRepo.SaveBlueprint(ctx, projectID, blueprint)
}

// normalizeStatus mapea el estado reportado por Wompi al del dominio.
// Estados fuera del contrato se tratan como PENDING: la transacción queda
// abierta y una notificación posterior reconocible aún puede resolverla.
// ERROR se reserva para el ERROR literal de la pasarela.
func normalizeStatus(s string) string {
	switch strings.ToUpper(s) {
	case entity.TxStatusApproved:
		return entity.TxStatusApproved
	case entity.TxStatusDeclined:
		return entity.TxStatusDeclined
	case entity.TxStatusVoided:
		return entity.TxStatusVoided
	case entity.TxStatusError:
		return entity.TxStatusError
	default:
		return entity.TxStatusPending
	}
}
