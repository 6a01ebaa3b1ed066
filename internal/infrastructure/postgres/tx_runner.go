package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/cotizador-api/internal/application/payment"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

var _ payment.PaymentTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunPayment inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Usado por el webhook para que la transición de estado del
// pago y el avance del proyecto queden juntas o no queden.
func (r *TxRunner) RunPayment(ctx context.Context, fn func(
	txRepo repository.TransactionRepository,
	projectRepo repository.ProjectRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txRepo := NewTransactionRepository(tx)
	projectRepo := NewProjectRepository(tx)

	if err := fn(txRepo, projectRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
