package payment_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cotizador-api/internal/application/payment"
	"github.com/jhoicas/cotizador-api/internal/application/ports"
	"github.com/jhoicas/cotizador-api/internal/domain"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeTxRepo struct {
	byReference map[string]*entity.Transaction
	updates     int
}

func (r *fakeTxRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	r.byReference[tx.Reference] = tx
	return nil
}

func (r *fakeTxRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	for _, tx := range r.byReference {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, nil
}

func (r *fakeTxRepo) GetByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	return r.byReference[reference], nil
}

func (r *fakeTxRepo) GetApprovedByProject(ctx context.Context, projectID string) (*entity.Transaction, error) {
	for _, tx := range r.byReference {
		if tx.ProjectID == projectID && tx.Status == entity.TxStatusApproved {
			return tx, nil
		}
	}
	return nil, nil
}

func (r *fakeTxRepo) Update(ctx context.Context, tx *entity.Transaction) error {
	r.byReference[tx.Reference] = tx
	r.updates++
	return nil
}

type fakeProjectRepo struct {
	projects   map[string]*entity.Project
	features   map[string][]*entity.Feature
	blueprints map[string]string
}

func (r *fakeProjectRepo) Create(ctx context.Context, p *entity.Project, fs []*entity.Feature) error {
	r.projects[p.ID] = p
	r.features[p.ID] = fs
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	return r.projects[id], nil
}

func (r *fakeProjectRepo) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.Project, error) {
	var out []*entity.Project
	for _, p := range r.projects {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) ListFeatures(ctx context.Context, projectID string) ([]*entity.Feature, error) {
	return r.features[projectID], nil
}

func (r *fakeProjectRepo) UpdateStatus(ctx context.Context, id, status string) error {
	p, ok := r.projects[id]
	if !ok {
		return fmt.Errorf("proyecto %q no existe", id)
	}
	p.Status = status
	return nil
}

func (r *fakeProjectRepo) LockScope(ctx context.Context, id string) error {
	p, ok := r.projects[id]
	if !ok {
		return fmt.Errorf("proyecto %q no existe", id)
	}
	p.ScopeConfirmed = true
	p.Status = entity.ProjectStatusScopeLocked
	return nil
}

func (r *fakeProjectRepo) SaveBlueprint(ctx context.Context, id, blueprint string) error {
	r.blueprints[id] = blueprint
	return nil
}

// fakeTxRunner ejecuta el callback con los mismos repos en memoria; no hay
// transaccionalidad real que simular.
type fakeTxRunner struct {
	txRepo      *fakeTxRepo
	projectRepo *fakeProjectRepo
}

func (r *fakeTxRunner) RunPayment(ctx context.Context, fn func(
	txRepo repository.TransactionRepository,
	projectRepo repository.ProjectRepository,
) error) error {
	return fn(r.txRepo, r.projectRepo)
}

type fakeEngine struct {
	blueprint string
	calls     int
	err       error
}

func (e *fakeEngine) DecomposeProject(ctx context.Context, description string) (*ports.QuotationDraft, error) {
	return nil, errors.New("no usado en estos tests")
}

func (e *fakeEngine) GenerateBlueprint(ctx context.Context, title string, features []ports.FeatureDraft) (string, error) {
	e.calls++
	if e.err != nil {
		return "", e.err
	}
	return e.blueprint, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	webhookSecret = "test-integrity-secret"
	txReference   = "PRJ-P1-1708097600000-AB12CD34"
)

func newFixture(txStatus string) (*payment.WebhookUseCase, *fakeTxRepo, *fakeProjectRepo, *fakeEngine) {
	txRepo := &fakeTxRepo{byReference: map[string]*entity.Transaction{
		txReference: {
			ID:         "tx-1",
			ProjectID:  "p1",
			Reference:  txReference,
			Regime:     "PERSONA_JURIDICA",
			TotalCents: 116_000_000,
			Currency:   "COP",
			Status:     txStatus,
		},
	}}
	projectRepo := &fakeProjectRepo{
		projects: map[string]*entity.Project{
			"p1": {
				ID:       "p1",
				ClientID: "c1",
				Title:    "Tienda en línea",
				Status:   entity.ProjectStatusScopeLocked,
			},
		},
		features: map[string][]*entity.Feature{
			"p1": {{ID: "f1", ProjectID: "p1", Name: "Catálogo", Complexity: entity.ComplexityMedium}},
		},
		blueprints: map[string]string{},
	}
	engine := &fakeEngine{blueprint: "# Blueprint técnico\n..."}
	runner := &fakeTxRunner{txRepo: txRepo, projectRepo: projectRepo}
	uc := payment.NewWebhookUseCase(runner, txRepo, projectRepo, engine, webhookSecret, zerolog.Nop())
	return uc, txRepo, projectRepo, engine
}

// signedBody arma un cuerpo de webhook válido y su firma, igual que la pasarela.
func signedBody(t *testing.T, status, gatewayID string) ([]byte, string) {
	t.Helper()
	body := []byte(fmt.Sprintf(
		`{"event":"transaction.updated","data":{"transaction":{"id":%q,"reference":%q,"amount_in_cents":116000000,"currency":"COP","status":%q,"payment_method":{"type":"CARD"}}}}`,
		gatewayID, txReference, status,
	))
	return body, sha256Hex(body, webhookSecret)
}

// sha256Hex replica la firma de notificaciones de la pasarela:
// SHA256(cuerpo_crudo + secreto) en hex, lo que payments.Verify recalcula.
func sha256Hex(body []byte, secret string) string {
	h := sha256.New()
	h.Write(body)
	h.Write([]byte(secret))
	return hex.EncodeToString(h.Sum(nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessNotification_FirmaInvalida(t *testing.T) {
	uc, txRepo, _, _ := newFixture(entity.TxStatusPending)
	body, _ := signedBody(t, "APPROVED", "wompi-001")

	err := uc.ProcessNotification(context.Background(), body, "firma-falsa")

	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, 0, txRepo.updates, "nada debe cambiar antes de verificar la firma")
	assert.Equal(t, entity.TxStatusPending, txRepo.byReference[txReference].Status)
}

func TestProcessNotification_AprobacionActualizaTransaccionYProyecto(t *testing.T) {
	uc, txRepo, projectRepo, engine := newFixture(entity.TxStatusPending)
	body, sig := signedBody(t, "APPROVED", "wompi-001")

	err := uc.ProcessNotification(context.Background(), body, sig)
	require.NoError(t, err)

	tx := txRepo.byReference[txReference]
	assert.Equal(t, entity.TxStatusApproved, tx.Status)
	assert.Equal(t, "wompi-001", tx.GatewayTxID)
	assert.Equal(t, "CARD", tx.PaymentMethod)
	require.NotNil(t, tx.ApprovedAt)

	assert.Equal(t, entity.ProjectStatusPaymentApproved, projectRepo.projects["p1"].Status)
	assert.Equal(t, 1, engine.calls, "la aprobación dispara la generación del blueprint")
	assert.Equal(t, "# Blueprint técnico\n...", projectRepo.blueprints["p1"])
}

func TestProcessNotification_RechazoNoTocaElProyecto(t *testing.T) {
	uc, txRepo, projectRepo, engine := newFixture(entity.TxStatusPending)
	body, sig := signedBody(t, "DECLINED", "wompi-002")

	err := uc.ProcessNotification(context.Background(), body, sig)
	require.NoError(t, err)

	tx := txRepo.byReference[txReference]
	assert.Equal(t, entity.TxStatusDeclined, tx.Status)
	assert.Contains(t, tx.ErrorMessage, "rechazado")
	assert.Nil(t, tx.ApprovedAt)

	assert.Equal(t, entity.ProjectStatusScopeLocked, projectRepo.projects["p1"].Status)
	assert.Equal(t, 0, engine.calls)
}

// Notificaciones duplicadas o fuera de orden sobre un estado terminal son no-op.
func TestProcessNotification_TransaccionTerminalEsIdempotente(t *testing.T) {
	uc, txRepo, projectRepo, engine := newFixture(entity.TxStatusApproved)
	body, sig := signedBody(t, "DECLINED", "wompi-003")

	err := uc.ProcessNotification(context.Background(), body, sig)
	require.NoError(t, err)

	assert.Equal(t, entity.TxStatusApproved, txRepo.byReference[txReference].Status)
	assert.Equal(t, 0, txRepo.updates)
	assert.Equal(t, entity.ProjectStatusScopeLocked, projectRepo.projects["p1"].Status)
	assert.Equal(t, 0, engine.calls)
}

func TestProcessNotification_EstadoPendingEsNoOp(t *testing.T) {
	uc, txRepo, _, _ := newFixture(entity.TxStatusPending)
	body, sig := signedBody(t, "PENDING", "wompi-004")

	err := uc.ProcessNotification(context.Background(), body, sig)
	require.NoError(t, err)
	assert.Equal(t, 0, txRepo.updates)
}

// Un estado fuera del contrato deja la transacción abierta: una notificación
// reconocible posterior todavía debe poder resolverla.
func TestProcessNotification_EstadoDesconocidoNoCierraLaTransaccion(t *testing.T) {
	uc, txRepo, projectRepo, _ := newFixture(entity.TxStatusPending)

	body, sig := signedBody(t, "CHARGEBACK", "wompi-005")
	err := uc.ProcessNotification(context.Background(), body, sig)
	require.NoError(t, err)

	assert.Equal(t, entity.TxStatusPending, txRepo.byReference[txReference].Status)
	assert.Equal(t, 0, txRepo.updates)

	body, sig = signedBody(t, "APPROVED", "wompi-006")
	err = uc.ProcessNotification(context.Background(), body, sig)
	require.NoError(t, err)

	assert.Equal(t, entity.TxStatusApproved, txRepo.byReference[txReference].Status)
	assert.Equal(t, entity.ProjectStatusPaymentApproved, projectRepo.projects["p1"].Status)
}

func TestProcessNotification_ErrorLiteralDeLaPasarela(t *testing.T) {
	uc, txRepo, _, _ := newFixture(entity.TxStatusPending)
	body, sig := signedBody(t, "ERROR", "wompi-007")

	err := uc.ProcessNotification(context.Background(), body, sig)
	require.NoError(t, err)

	tx := txRepo.byReference[txReference]
	assert.Equal(t, entity.TxStatusError, tx.Status)
	assert.NotEmpty(t, tx.ErrorMessage)
}

func TestProcessNotification_ReferenciaDesconocida(t *testing.T) {
	uc, _, _, _ := newFixture(entity.TxStatusPending)
	body := []byte(`{"event":"transaction.updated","data":{"transaction":{"id":"x","reference":"PRJ-NADIE","status":"APPROVED"}}}`)
	sig := sha256Hex(body, webhookSecret)

	err := uc.ProcessNotification(context.Background(), body, sig)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProcessNotification_EventoNoTransaccionalSeIgnora(t *testing.T) {
	uc, txRepo, _, _ := newFixture(entity.TxStatusPending)
	body := []byte(`{"event":"nequi_token.updated","data":{}}`)
	sig := sha256Hex(body, webhookSecret)

	err := uc.ProcessNotification(context.Background(), body, sig)
	require.NoError(t, err)
	assert.Equal(t, 0, txRepo.updates)
}

func TestProcessNotification_CuerpoIlegibleConFirmaValida(t *testing.T) {
	uc, _, _, _ := newFixture(entity.TxStatusPending)
	body := []byte(`{no es json`)
	sig := sha256Hex(body, webhookSecret)

	err := uc.ProcessNotification(context.Background(), body, sig)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El blueprint es mejor-esfuerzo: si el modelo falla, el webhook igual responde OK.
func TestProcessNotification_FalloDeBlueprintNoTumbaElWebhook(t *testing.T) {
	uc, txRepo, projectRepo, engine := newFixture(entity.TxStatusPending)
	engine.err = errors.New("modelo no disponible")
	body, sig := signedBody(t, "APPROVED", "wompi-006")

	err := uc.ProcessNotification(context.Background(), body, sig)
	require.NoError(t, err)

	assert.Equal(t, entity.TxStatusApproved, txRepo.byReference[txReference].Status)
	assert.Empty(t, projectRepo.blueprints["p1"])
}
