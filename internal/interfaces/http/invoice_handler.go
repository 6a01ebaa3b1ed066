package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador-api/internal/application/billing"
	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/domain"
)

// InvoiceHandler maneja la emisión y consulta de facturas (protegido).
type InvoiceHandler struct {
	uc *billing.BillingUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.BillingUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create emite la factura del proyecto con pago aprobado.
// POST /api/projects/:id/invoice
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	clientID := GetUserID(c)
	projectID := c.Params("id")
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.uc.IssueInvoice(c.Context(), clientID, projectID, in)
	if err != nil {
		// Validación fiscal: 422 con la lista completa de razones.
		var vErr *billing.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Code:    "FISCAL_VALIDATION",
				Message: "los datos del cliente no cumplen el régimen tributario",
				Errors:  vErr.Reasons,
			})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_INVOICED", Message: "el proyecto ya tiene factura emitida"})
		}
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PAYMENT_REQUIRED", Message: "el proyecto no tiene pago aprobado"})
		}
		return mapDomainError(c, err, "proyecto no encontrado")
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// Get devuelve la factura del proyecto.
// GET /api/projects/:id/invoice
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	clientID := GetUserID(c)
	projectID := c.Params("id")
	invoice, err := h.uc.GetByProject(c.Context(), clientID, projectID)
	if err != nil {
		return mapDomainError(c, err, "factura no encontrada")
	}
	return c.JSON(invoice)
}

// PDF devuelve la representación gráfica de la factura.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	clientID := GetUserID(c)
	invoiceID := c.Params("id")
	pdfBytes, filename, err := h.uc.RenderPDF(c.Context(), clientID, invoiceID)
	if err != nil {
		return mapDomainError(c, err, "factura no encontrada")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
