package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrSessionNotFound    = errors.New("sesión de chat no encontrada")
	ErrSessionClosed      = errors.New("sesión de chat cerrada")
	ErrTooManySessions    = errors.New("demasiadas sesiones de chat abiertas")
)
