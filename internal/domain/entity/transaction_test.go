package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
)

func TestIsTerminalStatus(t *testing.T) {
	assert.False(t, entity.IsTerminalStatus(entity.TxStatusPending))

	assert.True(t, entity.IsTerminalStatus(entity.TxStatusApproved))
	assert.True(t, entity.IsTerminalStatus(entity.TxStatusDeclined))
	assert.True(t, entity.IsTerminalStatus(entity.TxStatusVoided))
	assert.True(t, entity.IsTerminalStatus(entity.TxStatusError))

	assert.False(t, entity.IsTerminalStatus("REFUNDED"))
	assert.False(t, entity.IsTerminalStatus(""))
}

// Solo se permite salir de PENDING hacia un estado terminal; todo lo demás es
// no-op, incluidas notificaciones duplicadas sobre un estado terminal.
func TestCanTransition_Matriz(t *testing.T) {
	estados := []string{
		entity.TxStatusPending,
		entity.TxStatusApproved,
		entity.TxStatusDeclined,
		entity.TxStatusVoided,
		entity.TxStatusError,
	}

	for _, from := range estados {
		for _, to := range estados {
			esperado := from == entity.TxStatusPending && to != entity.TxStatusPending
			assert.Equal(t, esperado, entity.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_EstadoDesconocido(t *testing.T) {
	assert.False(t, entity.CanTransition(entity.TxStatusPending, "REFUNDED"))
	assert.False(t, entity.CanTransition("REFUNDED", entity.TxStatusApproved))
}
