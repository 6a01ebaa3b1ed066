// Package payments implementa la verificación de integridad de pagos Wompi:
// firma del checkout saliente y autenticación de notificaciones entrantes.
// Hash de una vía con secreto compartido; sin estado, sin reintentos, sin caché.
package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Sign calcula la firma de integridad del checkout.
// Fórmula Wompi: SHA256(referencia + monto_en_centavos + moneda + secreto), en
// ese orden exacto de campos. El orden es parte del contrato: pasarela y
// verificador deben coincidir byte a byte, y el monto se representa como entero
// decimal sin separadores.
func Sign(reference string, amountInCents int64, currency, secret string) string {
	payload := reference + strconv.FormatInt(amountInCents, 10) + currency + secret
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Verify autentica una notificación asíncrona de la pasarela.
// Recalcula SHA256(cuerpo_crudo + secreto) y compara contra la firma recibida
// en tiempo constante. DEBE invocarse sobre el cuerpo crudo, sin parsear:
// parsear y reserializar desincroniza el layout de bytes (espacios, orden de
// claves) y produce rechazos falsos. Ese es un contrato del llamador.
//
// El resultado es binario: o la firma coincide o la petición se trata como no
// autenticada. No hay estado de confianza parcial.
func Verify(rawBody []byte, receivedSignature, secret string) bool {
	h := sha256.New()
	h.Write(rawBody)
	h.Write([]byte(secret))
	expected := hex.EncodeToString(h.Sum(nil))
	// hmac.Equal compara en tiempo constante; no filtra en cuánto difieren.
	return hmac.Equal([]byte(expected), []byte(receivedSignature))
}
