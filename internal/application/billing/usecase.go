// Package billing emite cuentas de cobro y facturas tras un pago aprobado.
// La validación de documentos del cliente y todos los montos usan el régimen
// congelado en la transacción, no el régimen activo al momento de emitir.
package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/domain"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/cotizador-api/internal/domain/fiscal"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
	"github.com/jhoicas/cotizador-api/pkg/money"
)

// XMLBuilder genera la representación UBL sin firma de una factura.
// Implementado en internal/infrastructure/ubl.
type XMLBuilder interface {
	BuildInvoiceXML(invoice *entity.Invoice) (string, error)
}

// PDFGenerator genera el PDF de una cuenta de cobro / factura.
// Implementado en internal/infrastructure/pdf.
type PDFGenerator interface {
	Generate(invoice *entity.Invoice) ([]byte, error)
}

// ValidationError agrupa todas las razones por las que los datos del cliente
// no satisfacen el régimen. Se reporta completo, no solo la primera falla.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "datos de factura inválidos: " + strings.Join(e.Reasons, "; ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// BillingUseCase orquesta la emisión de facturas.
type BillingUseCase struct {
	projectRepo repository.ProjectRepository
	txRepo      repository.TransactionRepository
	invoiceRepo repository.InvoiceRepository
	registry    *domfiscal.Registry
	xmlBuilder  XMLBuilder
	pdfGen      PDFGenerator
	log         zerolog.Logger
}

// NewBillingUseCase construye el caso de uso.
func NewBillingUseCase(
	projectRepo repository.ProjectRepository,
	txRepo repository.TransactionRepository,
	invoiceRepo repository.InvoiceRepository,
	registry *domfiscal.Registry,
	xmlBuilder XMLBuilder,
	pdfGen PDFGenerator,
	log zerolog.Logger,
) *BillingUseCase {
	return &BillingUseCase{
		projectRepo: projectRepo,
		txRepo:      txRepo,
		invoiceRepo: invoiceRepo,
		registry:    registry,
		xmlBuilder:  xmlBuilder,
		pdfGen:      pdfGen,
		log:         log,
	}
}

// IssueInvoice emite la factura de un proyecto con pago aprobado. Los montos
// se copian del snapshot de la transacción y el número es consecutivo solo
// cuando el régimen congelado exige resolución DIAN.
func (uc *BillingUseCase) IssueInvoice(ctx context.Context, clientID, projectID string, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
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

	// Un proyecto factura una sola vez.
	existing, err := uc.invoiceRepo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("el proyecto %s ya tiene factura emitida: %w", projectID, domain.ErrDuplicate)
	}

	tx, err := uc.txRepo.GetApprovedByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("el proyecto %s no tiene pago aprobado: %w", projectID, domain.ErrConflict)
	}

	// El régimen que manda es el congelado en la transacción.
	regime, err := uc.registry.Get(tx.Regime)
	if err != nil {
		return nil, err
	}

	result := domfiscal.ValidateInvoiceData(domfiscal.ClientFiscalData{
		Cedula:      req.ClientCedula,
		NIT:         req.ClientNIT,
		RUT:         req.ClientRUT,
		Email:       req.ClientEmail,
		AmountCents: tx.TotalCents,
	}, regime)
	if !result.Valid {
		return nil, &ValidationError{Reasons: result.Errors}
	}

	number, resolution, err := uc.assignNumber(ctx, regime)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	invoice := &entity.Invoice{
		ID:              uuid.New().String(),
		ProjectID:       project.ID,
		TransactionID:   tx.ID,
		Number:          number,
		Resolution:      resolution,
		Regime:          tx.Regime,
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		ClientCedula:    req.ClientCedula,
		ClientNIT:       req.ClientNIT,
		ClientRUT:       req.ClientRUT,
		ServiceName:     project.Title,
		ServiceDetail:   project.Description,
		SubtotalCents:   tx.SubtotalCents,
		IVACents:        tx.IVACents,
		ReteFuenteCents: tx.ReteFuenteCents,
		TotalCents:      tx.TotalCents,
		Currency:        tx.Currency,
		IssuedAt:        now,
		CreatedAt:       now,
	}

	if regime.Invoicing.RequiresResolution {
		xml, err := uc.xmlBuilder.BuildInvoiceXML(invoice)
		if err != nil {
			return nil, fmt.Errorf("generando XML de factura: %w", err)
		}
		invoice.XML = xml
	}

	if err := uc.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", invoice.ID).
		Str("project_id", project.ID).
		Str("number", invoice.Number).
		Str("regime", invoice.Regime).
		Int64("total_cents", invoice.TotalCents).
		Msg("factura emitida")

	return toInvoiceResponse(invoice), nil
}

// assignNumber asigna consecutivo bajo resolución DIAN; en caso contrario la
// cuenta de cobro lleva una referencia no secuencial.
func (uc *BillingUseCase) assignNumber(ctx context.Context, regime domfiscal.TaxRegime) (number, resolution string, err error) {
	if regime.Invoicing.RequiresResolution {
		seq, err := uc.invoiceRepo.NextSequential(ctx)
		if err != nil {
			return "", "", err
		}
		return fmt.Sprintf("FACT-%06d", seq), regime.Invoicing.ResolutionNumber, nil
	}
	ref := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
	return "CC-" + ref, "", nil
}

// GetByProject devuelve la factura del proyecto, verificando propiedad.
func (uc *BillingUseCase) GetByProject(ctx context.Context, clientID, projectID string) (*dto.InvoiceResponse, error) {
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
	invoice, err := uc.invoiceRepo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(invoice), nil
}

// RenderPDF genera el PDF de la factura identificada, verificando propiedad.
func (uc *BillingUseCase) RenderPDF(ctx context.Context, clientID, invoiceID string) ([]byte, string, error) {
	invoice, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	if invoice == nil {
		return nil, "", domain.ErrNotFound
	}
	project, err := uc.projectRepo.GetByID(ctx, invoice.ProjectID)
	if err != nil {
		return nil, "", err
	}
	if project == nil || project.ClientID != clientID {
		return nil, "", domain.ErrForbidden
	}
	pdf, err := uc.pdfGen.Generate(invoice)
	if err != nil {
		return nil, "", fmt.Errorf("generando PDF de factura: %w", err)
	}
	return pdf, invoice.Number + ".pdf", nil
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:              inv.ID,
		ProjectID:       inv.ProjectID,
		TransactionID:   inv.TransactionID,
		Number:          inv.Number,
		Resolution:      inv.Resolution,
		Regime:          inv.Regime,
		ClientName:      inv.ClientName,
		ClientEmail:     inv.ClientEmail,
		SubtotalCents:   inv.SubtotalCents,
		IVACents:        inv.IVACents,
		ReteFuenteCents: inv.ReteFuenteCents,
		TotalCents:      inv.TotalCents,
		TotalDisplay:    money.Format(inv.TotalCents, "es-CO"),
		Currency:        inv.Currency,
		IssuedAt:        inv.IssuedAt,
	}
}
