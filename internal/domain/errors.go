package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// ErrConfiguration: el registro de regímenes quedó sin régimen activo o con más
	// de uno. Es un bug de configuración, no una condición de runtime: la operación
	// debe abortar y alertar al operador, nunca asumir un régimen por defecto.
	ErrConfiguration = errors.New("configuración fiscal inconsistente")

	// ErrInvalidAmount: monto no positivo o mal formado donde se exige un cargo.
	ErrInvalidAmount = errors.New("monto inválido")
)
