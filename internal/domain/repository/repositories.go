// Package repository define los puertos de persistencia del dominio.
// Las implementaciones viven en internal/infrastructure/postgres.
package repository

import (
	"context"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
)

// UserRepository acceso a usuarios.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// ProjectRepository acceso a proyectos cotizados y sus features.
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project, features []*entity.Feature) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.Project, error)
	ListFeatures(ctx context.Context, projectID string) ([]*entity.Feature, error)
	UpdateStatus(ctx context.Context, id, status string) error
	LockScope(ctx context.Context, id string) error
	SaveBlueprint(ctx context.Context, id, blueprint string) error
}

// TransactionRepository acceso a transacciones de pago.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*entity.Transaction, error)
	// GetApprovedByProject devuelve la transacción APPROVED del proyecto, o
	// nil sin error si el proyecto no tiene pago aprobado.
	GetApprovedByProject(ctx context.Context, projectID string) (*entity.Transaction, error)
	Update(ctx context.Context, tx *entity.Transaction) error
}

// RegimeRepository persiste la selección de régimen activo y su auditoría.
// La selección es una sola fila; la auditoría es append-only.
type RegimeRepository interface {
	// GetActiveName devuelve "" sin error si aún no hay selección persistida.
	GetActiveName(ctx context.Context) (string, error)
	// SetActive escribe la selección y el registro de auditoría en una sola
	// transacción de base de datos.
	SetActive(ctx context.Context, change *entity.RegimeChange) error
	ListChanges(ctx context.Context, limit, offset int) ([]*entity.RegimeChange, error)
}

// InvoiceRepository acceso a cuentas de cobro / facturas emitidas.
// Los Get devuelven nil sin error cuando no hay fila.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByProject(ctx context.Context, projectID string) (*entity.Invoice, error)
	// NextSequential devuelve el siguiente consecutivo de facturación de forma
	// atómica (regímenes con resolución DIAN exigen numeración secuencial).
	NextSequential(ctx context.Context) (int64, error)
}
