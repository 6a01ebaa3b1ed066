package payments

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewReference genera una referencia única de transacción para la pasarela.
// Formato: PRJ-<proyecto[0:6]>-<unix_ms>-<sufijo aleatorio>, en mayúsculas.
// El sufijo UUID evita colisiones aun con dos checkouts en el mismo milisegundo.
func NewReference(projectID string) string {
	short := projectID
	if len(short) > 6 {
		short = short[:6]
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	ref := fmt.Sprintf("PRJ-%s-%d-%s", short, time.Now().UnixMilli(), suffix)
	return strings.ToUpper(ref)
}
