package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	appfiscal "github.com/jhoicas/cotizador-api/internal/application/fiscal"
	"github.com/jhoicas/cotizador-api/internal/domain"
)

// RegimeHandler maneja la administración del régimen tributario (solo admin).
type RegimeHandler struct {
	uc *appfiscal.RegimeUseCase
}

// NewRegimeHandler construye el handler.
func NewRegimeHandler(uc *appfiscal.RegimeUseCase) *RegimeHandler {
	return &RegimeHandler{uc: uc}
}

// List lista los regímenes disponibles con su flag de activación.
// GET /api/admin/regimes
func (h *RegimeHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.uc.List())
}

// Get devuelve el detalle de un régimen.
// GET /api/admin/regimes/:name
func (h *RegimeHandler) Get(c *fiber.Ctx) error {
	detail, err := h.uc.Get(c.Params("name"))
	if err != nil {
		return regimeError(c, err)
	}
	return c.JSON(detail)
}

// Activate conmuta el régimen activo, con auditoría de quién lo hizo.
// POST /api/admin/regimes/:name/activate
func (h *RegimeHandler) Activate(c *fiber.Ctx) error {
	principal := GetUserID(c)
	resp, err := h.uc.Activate(c.Context(), c.Params("name"), principal)
	if err != nil {
		return regimeError(c, err)
	}
	return c.JSON(resp)
}

// ListChanges devuelve el historial de auditoría de cambios de régimen.
// GET /api/admin/regimes/changes
func (h *RegimeHandler) ListChanges(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	changes, err := h.uc.ListChanges(c.Context(), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(changes)
}

// ActiveReporting devuelve las obligaciones de reporte del régimen activo.
// GET /api/admin/regimes/active/reporting
func (h *RegimeHandler) ActiveReporting(c *fiber.Ctx) error {
	rep, err := h.uc.GetActiveReporting()
	if err != nil {
		return regimeError(c, err)
	}
	return c.JSON(rep)
}

func regimeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "régimen no encontrado"})
	}
	if errors.Is(err, domain.ErrConfiguration) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "FISCAL_CONFIG", Message: "configuración fiscal inconsistente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
