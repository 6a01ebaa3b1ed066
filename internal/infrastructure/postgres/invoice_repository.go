package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, project_id, transaction_id, number, resolution, regime, client_name, client_email, client_cedula, client_nit, client_rut, service_name, service_detail, subtotal_cents, iva_cents, retefuente_cents, total_cents, currency, xml, issued_at, created_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la factura emitida.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.ProjectID, invoice.TransactionID, invoice.Number,
		nullIfEmpty(invoice.Resolution), invoice.Regime,
		invoice.ClientName, invoice.ClientEmail,
		nullIfEmpty(invoice.ClientCedula), nullIfEmpty(invoice.ClientNIT), nullIfEmpty(invoice.ClientRUT),
		invoice.ServiceName, invoice.ServiceDetail,
		invoice.SubtotalCents, invoice.IVACents, invoice.ReteFuenteCents, invoice.TotalCents,
		invoice.Currency, nullIfEmpty(invoice.XML),
		invoice.IssuedAt, invoice.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID. Devuelve nil sin error si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByProject obtiene la factura del proyecto. Devuelve nil sin error si no existe.
func (r *InvoiceRepo) GetByProject(ctx context.Context, projectID string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE project_id = $1 LIMIT 1`
	return r.getOne(ctx, query, projectID)
}

// NextSequential devuelve el siguiente consecutivo de facturación. La secuencia
// garantiza atomicidad aun con emisiones concurrentes.
func (r *InvoiceRepo) NextSequential(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return n, nil
}

func (r *InvoiceRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Invoice, error) {
	var inv entity.Invoice
	var resolution, cedula, nit, rut, xml *string
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&inv.ID, &inv.ProjectID, &inv.TransactionID, &inv.Number,
		&resolution, &inv.Regime,
		&inv.ClientName, &inv.ClientEmail,
		&cedula, &nit, &rut,
		&inv.ServiceName, &inv.ServiceDetail,
		&inv.SubtotalCents, &inv.IVACents, &inv.ReteFuenteCents, &inv.TotalCents,
		&inv.Currency, &xml,
		&inv.IssuedAt, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if resolution != nil {
		inv.Resolution = *resolution
	}
	if cedula != nil {
		inv.ClientCedula = *cedula
	}
	if nit != nil {
		inv.ClientNIT = *nit
	}
	if rut != nil {
		inv.ClientRUT = *rut
	}
	if xml != nil {
		inv.XML = *xml
	}
	return &inv, nil
}
