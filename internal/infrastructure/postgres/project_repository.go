package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

const projectColumns = `id, client_id, title, description, status, base_price_cents, estimated_hours, scope_confirmed, blueprint, created_at, updated_at`

// ProjectRepo implementación de ProjectRepository (usable con pool o tx).
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

// Create persiste el proyecto y sus features en un solo insert multi-sentencia.
// Se asume que el llamador controla la transaccionalidad si la necesita.
func (r *ProjectRepo) Create(ctx context.Context, project *entity.Project, features []*entity.Feature) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		project.ID, project.ClientID, project.Title, project.Description, project.Status,
		project.BasePriceCents, project.EstimatedHours, project.ScopeConfirmed,
		nullIfEmpty(project.Blueprint), project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	for _, f := range features {
		featureQuery := `
			INSERT INTO project_features (id, project_id, name, description, complexity, hours, price_cents, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		_, err := r.q.Exec(ctx, featureQuery,
			f.ID, f.ProjectID, f.Name, f.Description, f.Complexity, f.Hours, f.PriceCents, f.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert feature: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un proyecto por ID. Devuelve nil sin error si no existe.
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p, err := scanProject(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project by id: %w", err)
	}
	return p, nil
}

// ListByClient lista los proyectos de un cliente, del más reciente al más antiguo.
func (r *ProjectRepo) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects WHERE client_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	var list []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListFeatures lista las features de un proyecto en orden de inserción.
func (r *ProjectRepo) ListFeatures(ctx context.Context, projectID string) ([]*entity.Feature, error) {
	query := `
		SELECT id, project_id, name, description, complexity, hours, price_cents, created_at
		FROM project_features WHERE project_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	defer rows.Close()
	var list []*entity.Feature
	for rows.Next() {
		var f entity.Feature
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Name, &f.Description, &f.Complexity, &f.Hours, &f.PriceCents, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado del proyecto.
func (r *ProjectRepo) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE projects SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("update project status: %w", err)
	}
	return nil
}

// LockScope marca el alcance como confirmado y pasa el proyecto a SCOPE_LOCKED.
func (r *ProjectRepo) LockScope(ctx context.Context, id string) error {
	query := `
		UPDATE projects SET scope_confirmed = TRUE, status = $2, updated_at = $3
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, entity.ProjectStatusScopeLocked, time.Now())
	if err != nil {
		return fmt.Errorf("lock project scope: %w", err)
	}
	return nil
}

// SaveBlueprint guarda el blueprint técnico generado tras el pago.
func (r *ProjectRepo) SaveBlueprint(ctx context.Context, id, blueprint string) error {
	query := `UPDATE projects SET blueprint = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, blueprint, time.Now())
	if err != nil {
		return fmt.Errorf("save project blueprint: %w", err)
	}
	return nil
}

func scanProject(row pgx.Row) (*entity.Project, error) {
	var p entity.Project
	var blueprint *string
	err := row.Scan(
		&p.ID, &p.ClientID, &p.Title, &p.Description, &p.Status,
		&p.BasePriceCents, &p.EstimatedHours, &p.ScopeConfirmed,
		&blueprint, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if blueprint != nil {
		p.Blueprint = *blueprint
	}
	return &p, nil
}
