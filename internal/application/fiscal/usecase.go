// Package fiscal (aplicación) administra el régimen tributario activo:
// listados, consulta y el cambio de régimen con auditoría obligatoria.
package fiscal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/cotizador-api/internal/domain/fiscal"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

// RegimeUseCase administra el registro de regímenes. El registro en memoria es
// una caché de lectura; la fuente de verdad de la selección es la persistencia.
type RegimeUseCase struct {
	registry   *domfiscal.Registry
	regimeRepo repository.RegimeRepository
	log        zerolog.Logger
}

// NewRegimeUseCase construye el caso de uso.
func NewRegimeUseCase(registry *domfiscal.Registry, regimeRepo repository.RegimeRepository, log zerolog.Logger) *RegimeUseCase {
	return &RegimeUseCase{registry: registry, regimeRepo: regimeRepo, log: log}
}

// RestoreActive sincroniza el registro con la selección persistida al arrancar.
// Si no hay selección guardada se conserva el activo por defecto y se informa.
func (uc *RegimeUseCase) RestoreActive(ctx context.Context) error {
	name, err := uc.regimeRepo.GetActiveName(ctx)
	if err != nil {
		return err
	}
	if name == "" {
		uc.log.Info().
			Str("regime", domfiscal.DefaultActiveRegime).
			Msg("sin selección de régimen persistida; se usa el activo por defecto")
		return nil
	}
	if _, err := uc.registry.SetActive(name); err != nil {
		return err
	}
	uc.log.Info().Str("regime", name).Msg("régimen activo restaurado desde persistencia")
	return nil
}

// List enumera todos los regímenes con su flag de activación.
func (uc *RegimeUseCase) List() []dto.RegimeSummary {
	infos := uc.registry.ListAll()
	out := make([]dto.RegimeSummary, 0, len(infos))
	for _, info := range infos {
		out = append(out, dto.RegimeSummary{
			Name:        info.Name,
			Description: info.Description,
			IsActive:    info.IsActive,
		})
	}
	return out
}

// Get devuelve el detalle completo de un régimen por nombre.
func (uc *RegimeUseCase) Get(name string) (*dto.RegimeDetail, error) {
	regime, err := uc.registry.Get(name)
	if err != nil {
		return nil, err
	}
	active, err := uc.registry.GetActive()
	if err != nil {
		return nil, err
	}
	return toDetail(regime, regime.Name == active.Name), nil
}

// GetActiveReporting devuelve las obligaciones de reporte del régimen activo.
func (uc *RegimeUseCase) GetActiveReporting() (*dto.RegimeReports, error) {
	active, err := uc.registry.GetActive()
	if err != nil {
		return nil, err
	}
	req := domfiscal.ReportingFor(active)
	return &dto.RegimeReports{
		Required:  req.Required,
		Frequency: req.Frequency,
		Reports:   req.Reports,
	}, nil
}

// Activate cambia el régimen activo: escribe la selección y el registro de
// auditoría (quién, cuándo, de cuál a cuál) en una sola transacción de DB y
// luego conmuta el registro en memoria. La auditoría es obligatoria: si la
// persistencia falla, el registro en memoria no cambia.
func (uc *RegimeUseCase) Activate(ctx context.Context, name, principal string) (*dto.ActivateRegimeResponse, error) {
	// Validar el nombre contra el conjunto cerrado antes de tocar nada.
	if _, err := uc.registry.Get(name); err != nil {
		return nil, err
	}
	current, err := uc.registry.GetActive()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	change := &entity.RegimeChange{
		ID:             uuid.New().String(),
		PreviousRegime: current.Name,
		NewRegime:      name,
		Principal:      principal,
		ChangedAt:      now,
	}
	if err := uc.regimeRepo.SetActive(ctx, change); err != nil {
		return nil, err
	}

	previous, err := uc.registry.SetActive(name)
	if err != nil {
		return nil, err
	}

	uc.log.Warn().
		Str("previous", previous).
		Str("new", name).
		Str("principal", principal).
		Time("changed_at", now).
		Msg("cambio de régimen tributario")

	return &dto.ActivateRegimeResponse{
		PreviousRegime: previous,
		NewRegime:      name,
		ChangedAt:      now,
		Principal:      principal,
	}, nil
}

// ListChanges devuelve el historial de auditoría de cambios de régimen.
func (uc *RegimeUseCase) ListChanges(ctx context.Context, page dto.PageRequest) ([]dto.RegimeChangeDTO, error) {
	page.DefaultPage()
	changes, err := uc.regimeRepo.ListChanges(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RegimeChangeDTO, 0, len(changes))
	for _, c := range changes {
		out = append(out, dto.RegimeChangeDTO{
			ID:             c.ID,
			PreviousRegime: c.PreviousRegime,
			NewRegime:      c.NewRegime,
			Principal:      c.Principal,
			ChangedAt:      c.ChangedAt,
		})
	}
	return out, nil
}

func toDetail(r domfiscal.TaxRegime, isActive bool) *dto.RegimeDetail {
	var others []dto.NamedTax
	for _, t := range r.Charges.OtherTaxes {
		others = append(others, dto.NamedTax{Name: t.Name, Rate: t.Rate.String()})
	}
	rep := domfiscal.ReportingFor(r)
	return &dto.RegimeDetail{
		Name:        r.Name,
		Description: r.Description,
		IsActive:    isActive,
		Charges: dto.RegimeCharges{
			AppliesIVA:        r.Charges.AppliesIVA,
			IVARate:           r.Charges.IVARate.String(),
			AppliesReteFuente: r.Charges.AppliesReteFuente,
			ReteFuenteRate:    r.Charges.ReteFuenteRate.String(),
			OtherTaxes:        others,
		},
		Invoicing: dto.RegimeInvoices{
			RequiresCedula:      r.Invoicing.RequiresCedula,
			RequiresNIT:         r.Invoicing.RequiresNIT,
			RequiresRUT:         r.Invoicing.RequiresRUT,
			RequiresResolution:  r.Invoicing.RequiresResolution,
			ResolutionNumber:    r.Invoicing.ResolutionNumber,
			SequentialNumbering: r.Invoicing.SequentialNumbering,
		},
		Reporting: dto.RegimeReports{
			Required:  rep.Required,
			Frequency: rep.Frequency,
			Reports:   rep.Reports,
		},
	}
}
