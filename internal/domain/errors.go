package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrUnitNotFound      = errors.New("unidad de negocio no encontrada")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInvalidThresholds = errors.New("dias para pre-bloqueo debe ser mayor que dias para crítico")
	ErrPasswordMismatch  = errors.New("las contraseñas no coinciden")
)
