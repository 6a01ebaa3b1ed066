package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

var _ repository.RegimeRepository = (*RegimeRepo)(nil)

// RegimeRepo persiste la selección de régimen activo (una sola fila) y su
// auditoría append-only. Necesita el pool directamente porque SetActive abre
// su propia transacción.
type RegimeRepo struct {
	pool *pgxpool.Pool
}

// NewRegimeRepository construye el adaptador.
func NewRegimeRepository(pool *pgxpool.Pool) *RegimeRepo {
	return &RegimeRepo{pool: pool}
}

// GetActiveName devuelve el nombre del régimen activo persistido, o "" sin
// error si aún no hay selección guardada (primer arranque).
func (r *RegimeRepo) GetActiveName(ctx context.Context) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx, `SELECT regime_name FROM active_regime WHERE singleton = TRUE`).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get active regime: %w", err)
	}
	return name, nil
}

// SetActive escribe la nueva selección y su registro de auditoría en una sola
// transacción. Si cualquiera de las dos escrituras falla, ninguna queda.
func (r *RegimeRepo) SetActive(ctx context.Context, change *entity.RegimeChange) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	upsert := `
		INSERT INTO active_regime (singleton, regime_name, updated_at)
		VALUES (TRUE, $1, $2)
		ON CONFLICT (singleton) DO UPDATE SET regime_name = $1, updated_at = $2`
	if _, err := tx.Exec(ctx, upsert, change.NewRegime, change.ChangedAt); err != nil {
		return fmt.Errorf("upsert active regime: %w", err)
	}

	audit := `
		INSERT INTO regime_changes (id, previous_regime, new_regime, principal, changed_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.Exec(ctx, audit,
		change.ID, change.PreviousRegime, change.NewRegime, change.Principal, change.ChangedAt,
	); err != nil {
		return fmt.Errorf("insert regime change: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ListChanges lista el historial de cambios de régimen, del más reciente al más antiguo.
func (r *RegimeRepo) ListChanges(ctx context.Context, limit, offset int) ([]*entity.RegimeChange, error) {
	query := `
		SELECT id, previous_regime, new_regime, principal, changed_at
		FROM regime_changes ORDER BY changed_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list regime changes: %w", err)
	}
	defer rows.Close()
	var list []*entity.RegimeChange
	for rows.Next() {
		var c entity.RegimeChange
		if err := rows.Scan(&c.ID, &c.PreviousRegime, &c.NewRegime, &c.Principal, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan regime change: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
