package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/application/quotation"
	"github.com/jhoicas/cotizador-api/internal/domain"
)

// QuotationHandler maneja la generación y consulta de cotizaciones (protegido).
type QuotationHandler struct {
	uc *quotation.QuotationUseCase
}

// NewQuotationHandler construye el handler.
func NewQuotationHandler(uc *quotation.QuotationUseCase) *QuotationHandler {
	return &QuotationHandler{uc: uc}
}

// Create genera una cotización a partir de la descripción del cliente.
// POST /api/quotations
func (h *QuotationHandler) Create(c *fiber.Ctx) error {
	clientID := GetUserID(c)
	var in dto.CreateQuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "description es requerido"})
	}
	quote, err := h.uc.GenerateQuotation(c.Context(), clientID, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrConfiguration) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "FISCAL_CONFIG", Message: "configuración fiscal inconsistente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(quote)
}

// Get obtiene la cotización completa de un proyecto.
// GET /api/projects/:id/quotation
func (h *QuotationHandler) Get(c *fiber.Ctx) error {
	clientID := GetUserID(c)
	projectID := c.Params("id")
	quote, err := h.uc.GetQuotation(c.Context(), clientID, projectID)
	if err != nil {
		return mapDomainError(c, err, "proyecto no encontrado")
	}
	return c.JSON(quote)
}

// List lista los proyectos del cliente autenticado.
// GET /api/projects
func (h *QuotationHandler) List(c *fiber.Ctx) error {
	clientID := GetUserID(c)
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	projects, err := h.uc.ListProjects(c.Context(), clientID, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(projects)
}

// LockScope congela el alcance del proyecto antes del pago.
// POST /api/projects/:id/lock-scope
func (h *QuotationHandler) LockScope(c *fiber.Ctx) error {
	clientID := GetUserID(c)
	projectID := c.Params("id")
	if err := h.uc.LockScope(c.Context(), clientID, projectID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_LOCKED", Message: "el alcance ya fue confirmado"})
		}
		return mapDomainError(c, err, "proyecto no encontrado")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// mapDomainError traduce los sentinels de dominio más comunes a HTTP.
func mapDomainError(c *fiber.Ctx, err error, notFoundMsg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFoundMsg})
	}
	if errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
