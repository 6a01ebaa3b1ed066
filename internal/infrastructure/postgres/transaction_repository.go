package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionColumns = `id, project_id, reference, regime, subtotal_cents, iva_cents, retefuente_cents, other_taxes_cents, total_cents, currency, status, gateway_tx_id, payment_method, error_message, approved_at, created_at, updated_at`

// TransactionRepo implementación de TransactionRepository (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste una transacción de pago recién emitida (PENDING).
func (r *TransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.ProjectID, tx.Reference, tx.Regime,
		tx.SubtotalCents, tx.IVACents, tx.ReteFuenteCents, tx.OtherTaxesCents, tx.TotalCents,
		tx.Currency, tx.Status,
		nullIfEmpty(tx.GatewayTxID), nullIfEmpty(tx.PaymentMethod), nullIfEmpty(tx.ErrorMessage),
		tx.ApprovedAt, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction reference already exists: %w", err)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una transacción por ID. Devuelve nil sin error si no existe.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByReference obtiene una transacción por su referencia de pago única.
// Devuelve nil sin error si no existe.
func (r *TransactionRepo) GetByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1`
	return r.getOne(ctx, query, reference)
}

// GetApprovedByProject obtiene la transacción APPROVED más reciente del proyecto.
// Devuelve nil sin error si el proyecto no tiene pago aprobado.
func (r *TransactionRepo) GetApprovedByProject(ctx context.Context, projectID string) (*entity.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions WHERE project_id = $1 AND status = $2
		ORDER BY updated_at DESC LIMIT 1`
	return r.getOne(ctx, query, projectID, entity.TxStatusApproved)
}

// Update persiste el resultado del pago: estado, datos de la pasarela y timestamps.
func (r *TransactionRepo) Update(ctx context.Context, tx *entity.Transaction) error {
	query := `
		UPDATE transactions
		SET status         = $2,
		    gateway_tx_id  = COALESCE($3, gateway_tx_id),
		    payment_method = COALESCE($4, payment_method),
		    error_message  = $5,
		    approved_at    = $6,
		    updated_at     = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.Status,
		nullIfEmpty(tx.GatewayTxID), nullIfEmpty(tx.PaymentMethod), nullIfEmpty(tx.ErrorMessage),
		tx.ApprovedAt, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Transaction, error) {
	var t entity.Transaction
	var gatewayTxID, paymentMethod, errorMessage *string
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.ProjectID, &t.Reference, &t.Regime,
		&t.SubtotalCents, &t.IVACents, &t.ReteFuenteCents, &t.OtherTaxesCents, &t.TotalCents,
		&t.Currency, &t.Status,
		&gatewayTxID, &paymentMethod, &errorMessage,
		&t.ApprovedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if gatewayTxID != nil {
		t.GatewayTxID = *gatewayTxID
	}
	if paymentMethod != nil {
		t.PaymentMethod = *paymentMethod
	}
	if errorMessage != nil {
		t.ErrorMessage = *errorMessage
	}
	return &t, nil
}
