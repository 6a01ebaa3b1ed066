package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador-api/internal/application/dto"
	"github.com/jhoicas/cotizador-api/internal/application/payment"
	"github.com/jhoicas/cotizador-api/internal/domain"
)

// PaymentHandler maneja sesiones de checkout, consulta de transacciones y el
// webhook de la pasarela.
type PaymentHandler struct {
	checkoutUC *payment.CheckoutUseCase
	webhookUC  *payment.WebhookUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(checkoutUC *payment.CheckoutUseCase, webhookUC *payment.WebhookUseCase) *PaymentHandler {
	return &PaymentHandler{checkoutUC: checkoutUC, webhookUC: webhookUC}
}

// CreateCheckout crea la sesión de pago del proyecto con alcance confirmado.
// POST /api/projects/:id/checkout
func (h *PaymentHandler) CreateCheckout(c *fiber.Ctx) error {
	clientID := GetUserID(c)
	projectID := c.Params("id")
	session, err := h.checkoutUC.CreateSession(c.Context(), clientID, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SCOPE_NOT_LOCKED", Message: "el alcance debe confirmarse antes de pagar"})
		}
		if errors.Is(err, domain.ErrConfiguration) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "FISCAL_CONFIG", Message: "configuración fiscal inconsistente"})
		}
		return mapDomainError(c, err, "proyecto no encontrado")
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// GetTransaction consulta el estado de una transacción del cliente.
// GET /api/transactions/:id
func (h *PaymentHandler) GetTransaction(c *fiber.Ctx) error {
	clientID := GetUserID(c)
	txID := c.Params("id")
	tx, err := h.checkoutUC.GetTransaction(c.Context(), clientID, txID)
	if err != nil {
		return mapDomainError(c, err, "transacción no encontrada")
	}
	return c.JSON(tx)
}

// Webhook procesa las notificaciones de la pasarela. Público: la autenticidad
// la da la firma sobre el cuerpo crudo, que se verifica antes de parsear.
// POST /api/webhooks/wompi
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	signature := c.Get("X-Wompi-Signature")
	if signature == "" {
		signature = c.Get("X-Event-Checksum")
	}

	err := h.webhookUC.ProcessNotification(c.Context(), c.Body(), signature)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SIGNATURE", Message: "firma de webhook inválida"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "payload inválido"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transacción no encontrada"})
		}
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "transición de estado inválida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"received": true})
}
