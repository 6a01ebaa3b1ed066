package payment_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cotizador-api/internal/application/payment"
	"github.com/jhoicas/cotizador-api/internal/domain"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/fiscal"
	"github.com/jhoicas/cotizador-api/internal/domain/payments"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes adicionales para el checkout
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// fakeBuilder captura los argumentos con los que se arma la URL de checkout.
type fakeBuilder struct {
	reference string
	amount    int64
	signature string
	email     string
	name      string
}

func (b *fakeBuilder) BuildCheckoutURL(reference string, amountInCents int64, signature, customerEmail, customerName string) string {
	b.reference = reference
	b.amount = amountInCents
	b.signature = signature
	b.email = customerEmail
	b.name = customerName
	return "https://checkout.wompi.co/p/?reference=" + reference
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

func newCheckoutFixture(t *testing.T, scopeConfirmed bool) (*payment.CheckoutUseCase, *fakeTxRepo, *fakeBuilder, *fiscal.Registry) {
	t.Helper()
	txRepo := &fakeTxRepo{byReference: map[string]*entity.Transaction{}}
	projectRepo := &fakeProjectRepo{
		projects: map[string]*entity.Project{
			"p1": {
				ID:             "p1",
				ClientID:       "c1",
				Title:          "Tienda en línea",
				Status:         entity.ProjectStatusQuoted,
				BasePriceCents: 100_000_000, // $ 1.000.000
				ScopeConfirmed: scopeConfirmed,
			},
		},
		features:   map[string][]*entity.Feature{},
		blueprints: map[string]string{},
	}
	if scopeConfirmed {
		projectRepo.projects["p1"].Status = entity.ProjectStatusScopeLocked
	}
	userRepo := &fakeUserRepo{users: map[string]*entity.User{
		"c1": {ID: "c1", Email: "cliente@example.com", Name: "Cliente Uno", Role: entity.RoleCliente},
	}}

	registry, err := fiscal.NewRegistry(fiscal.BuiltinRegimes(), fiscal.RegimePersonaJuridica)
	require.NoError(t, err)

	builder := &fakeBuilder{}
	uc := payment.NewCheckoutUseCase(
		projectRepo, txRepo, userRepo, registry, builder,
		payment.WompiConfig{IntegritySecret: webhookSecret, Currency: "COP"},
		zerolog.Nop(),
	)
	return uc, txRepo, builder, registry
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// El pago exige alcance confirmado: sin lock no se crea ninguna transacción.
func TestCreateSession_AlcanceSinConfirmar(t *testing.T) {
	uc, txRepo, _, _ := newCheckoutFixture(t, false)

	_, err := uc.CreateSession(context.Background(), "c1", "p1")

	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, txRepo.byReference, "no debe persistirse ninguna transacción")
}

func TestCreateSession_ProyectoInexistente(t *testing.T) {
	uc, _, _, _ := newCheckoutFixture(t, true)

	_, err := uc.CreateSession(context.Background(), "c1", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSession_ProyectoDeOtroCliente(t *testing.T) {
	uc, txRepo, _, _ := newCheckoutFixture(t, true)

	_, err := uc.CreateSession(context.Background(), "c2", "p1")

	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, txRepo.byReference)
}

func TestCreateSession_PersisteSnapshotDelRegimen(t *testing.T) {
	uc, txRepo, builder, _ := newCheckoutFixture(t, true)

	resp, err := uc.CreateSession(context.Background(), "c1", "p1")
	require.NoError(t, err)

	tx := txRepo.byReference[resp.Reference]
	require.NotNil(t, tx, "la transacción debe persistirse bajo la referencia firmada")

	// Régimen y montos congelados: persona jurídica sobre $ 1.000.000.
	assert.Equal(t, fiscal.RegimePersonaJuridica, tx.Regime)
	assert.Equal(t, int64(100_000_000), tx.SubtotalCents)
	assert.Equal(t, int64(19_000_000), tx.IVACents)
	assert.Equal(t, int64(3_000_000), tx.ReteFuenteCents, "la retención se guarda en valor absoluto")
	assert.Equal(t, int64(116_000_000), tx.TotalCents)
	assert.Equal(t, "COP", tx.Currency)
	assert.Equal(t, entity.TxStatusPending, tx.Status)

	// La firma enviada a la pasarela corresponde a la referencia y total persistidos.
	assert.Equal(t, payments.Sign(tx.Reference, tx.TotalCents, "COP", webhookSecret), builder.signature)
	assert.Equal(t, tx.Reference, builder.reference)
	assert.Equal(t, int64(116_000_000), builder.amount)
	assert.Equal(t, "cliente@example.com", builder.email)
	assert.Equal(t, "Cliente Uno", builder.name)

	assert.Equal(t, tx.ID, resp.TransactionID)
	assert.Contains(t, resp.CheckoutURL, tx.Reference)
}

// Cada sesión toma su propio snapshot: un cambio de régimen afecta la sesión
// siguiente, nunca una ya creada.
func TestCreateSession_CambioDeRegimenEntreSesiones(t *testing.T) {
	uc, txRepo, _, registry := newCheckoutFixture(t, true)

	primera, err := uc.CreateSession(context.Background(), "c1", "p1")
	require.NoError(t, err)

	_, err = registry.SetActive(fiscal.RegimePersonaNatural)
	require.NoError(t, err)

	segunda, err := uc.CreateSession(context.Background(), "c1", "p1")
	require.NoError(t, err)

	antes := txRepo.byReference[primera.Reference]
	despues := txRepo.byReference[segunda.Reference]

	assert.Equal(t, fiscal.RegimePersonaJuridica, antes.Regime)
	assert.Equal(t, int64(116_000_000), antes.TotalCents)

	assert.Equal(t, fiscal.RegimePersonaNatural, despues.Regime)
	assert.Equal(t, int64(100_000_000), despues.TotalCents, "persona natural no agrega cargos")
}

func TestCreateSession_RegistroDeRegimenesRoto(t *testing.T) {
	uc, txRepo, _, registry := newCheckoutFixture(t, true)

	// Forzar el estado imposible de cero activos no es alcanzable vía API del
	// registro; un nombre fuera del conjunto en SetActive conserva el activo.
	_, err := registry.SetActive("NO_EXISTE")
	require.Error(t, err)

	_, err = uc.CreateSession(context.Background(), "c1", "p1")
	require.NoError(t, err, "el registro conserva su único activo tras un SetActive fallido")
	assert.Len(t, txRepo.byReference, 1)
}
