package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrPlanLimitReached    = errors.New("límite del plan alcanzado")
	ErrAlreadyCompleted    = errors.New("la solicitud de reseña ya fue respondida")
	ErrIntegrationDisabled = errors.New("integración no configurada")
	ErrInvalidSignature    = errors.New("firma inválida")
	ErrTooManyAttempts     = errors.New("demasiados intentos")
	ErrPaymentFailed       = errors.New("el proveedor de pagos rechazó el cargo")
)
