// Package quotation implementa el motor de cotización: descripción en lenguaje
// natural -> features atómicas (IA) -> precio base -> desglose bajo el régimen
// fiscal activo.
package quotation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/application/ports"
	"github.com/jhoicas/cotizador-api/internal/domain"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/fiscal"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

// llamada al modelo acotada; el adaptador tiene además su propio timeout de red.
const decomposeTimeout = 30 * time.Second

// maxFeatures límite de features atómicas por cotización.
const maxFeatures = 8

// QuotationUseCase genera cotizaciones y lista proyectos del cliente.
type QuotationUseCase struct {
	engine          ports.QuoteEngine
	projectRepo     repository.ProjectRepository
	registry        *fiscal.Registry
	hourlyRateCents int64
	log             zerolog.Logger
}

// NewQuotationUseCase construye el caso de uso.
func NewQuotationUseCase(
	engine ports.QuoteEngine,
	projectRepo repository.ProjectRepository,
	registry *fiscal.Registry,
	hourlyRateCents int64,
	log zerolog.Logger,
) *QuotationUseCase {
	return &QuotationUseCase{
		engine:          engine,
		projectRepo:     projectRepo,
		registry:        registry,
		hourlyRateCents: hourlyRateCents,
		log:             log,
	}
}

// GenerateQuotation descompone la descripción vía IA, asigna precio por
// complejidad y computa el desglose con el régimen activo en este instante.
// El desglose devuelto es informativo: el snapshot vinculante se toma al crear
// la sesión de checkout.
func (uc *QuotationUseCase) GenerateQuotation(ctx context.Context, clientID string, in dto.CreateQuotationRequest) (*dto.QuotationResponse, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, domain.ErrInvalidInput
	}

	llmCtx, cancel := context.WithTimeout(ctx, decomposeTimeout)
	defer cancel()

	draft, err := uc.engine.DecomposeProject(llmCtx, description)
	if err != nil {
		return nil, fmt.Errorf("cotización IA: %w", err)
	}
	if draft == nil || len(draft.Features) == 0 {
		return nil, fmt.Errorf("cotización IA: el modelo no devolvió features")
	}
	drafts := draft.Features
	if len(drafts) > maxFeatures {
		drafts = drafts[:maxFeatures]
	}

	now := time.Now()
	project := &entity.Project{
		ID:          uuid.New().String(),
		ClientID:    clientID,
		Title:       draft.Title,
		Description: description,
		Status:      entity.ProjectStatusQuoted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	features := make([]*entity.Feature, 0, len(drafts))
	totalHours := 0
	var baseCents int64
	for _, fd := range drafts {
		hours := entity.HoursForComplexity(fd.Complexity)
		price := int64(hours) * uc.hourlyRateCents
		totalHours += hours
		baseCents += price
		features = append(features, &entity.Feature{
			ID:          uuid.New().String(),
			ProjectID:   project.ID,
			Name:        fd.Name,
			Description: fd.Description,
			Complexity:  fd.Complexity,
			Hours:       hours,
			PriceCents:  price,
			CreatedAt:   now,
		})
	}
	project.BasePriceCents = baseCents
	project.EstimatedHours = totalHours

	regime, err := uc.registry.GetActive()
	if err != nil {
		return nil, err
	}
	breakdown, err := fiscal.ComputeBreakdown(baseCents, regime)
	if err != nil {
		return nil, err
	}

	if err := uc.projectRepo.Create(ctx, project, features); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("project_id", project.ID).
		Str("client_id", clientID).
		Int("features", len(features)).
		Int64("base_cents", baseCents).
		Str("regime", regime.Name).
		Msg("cotización generada")

	return uc.toResponse(project, features, breakdown), nil
}

// LockScope confirma el alcance de un proyecto del cliente.
// Tras el lock, las features no cambian y el proyecto puede ir a checkout.
func (uc *QuotationUseCase) LockScope(ctx context.Context, clientID, projectID string) error {
	project, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return domain.ErrNotFound
	}
	if project.ClientID != clientID {
		return domain.ErrForbidden
	}
	if project.ScopeConfirmed {
		return domain.ErrConflict
	}
	if err := uc.projectRepo.LockScope(ctx, projectID); err != nil {
		return err
	}
	uc.log.Info().Str("project_id", projectID).Msg("alcance confirmado")
	return nil
}

// GetQuotation devuelve la cotización completa de un proyecto del cliente,
// con el desglose recalculado bajo el régimen activo actual.
func (uc *QuotationUseCase) GetQuotation(ctx context.Context, clientID, projectID string) (*dto.QuotationResponse, error) {
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
	features, err := uc.projectRepo.ListFeatures(ctx, projectID)
	if err != nil {
		return nil, err
	}
	regime, err := uc.registry.GetActive()
	if err != nil {
		return nil, err
	}
	breakdown, err := fiscal.ComputeBreakdown(project.BasePriceCents, regime)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(project, features, breakdown), nil
}

// ListProjects lista los proyectos del cliente.
func (uc *QuotationUseCase) ListProjects(ctx context.Context, clientID string, page dto.PageRequest) ([]dto.ProjectResponse, error) {
	page.DefaultPage()
	projects, err := uc.projectRepo.ListByClient(ctx, clientID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, dto.ProjectResponse{
			ID:             p.ID,
			Title:          p.Title,
			Status:         p.Status,
			BasePriceCents: p.BasePriceCents,
			EstimatedHours: p.EstimatedHours,
			ScopeConfirmed: p.ScopeConfirmed,
		})
	}
	return out, nil
}

func (uc *QuotationUseCase) toResponse(p *entity.Project, features []*entity.Feature, b fiscal.PriceBreakdown) *dto.QuotationResponse {
	fs := make([]dto.FeatureDTO, 0, len(features))
	for _, f := range features {
		fs = append(fs, dto.FeatureDTO{
			Name:        f.Name,
			Description: f.Description,
			Complexity:  f.Complexity,
			Hours:       f.Hours,
			PriceCents:  f.PriceCents,
		})
	}
	return &dto.QuotationResponse{
		ProjectID:      p.ID,
		Title:          p.Title,
		Status:         p.Status,
		Features:       fs,
		EstimatedHours: p.EstimatedHours,
		BasePriceCents: p.BasePriceCents,
		Breakdown:      dto.ToBreakdownDTO(b),
	}
}
