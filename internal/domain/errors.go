package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrNoInput               = errors.New("no se indicó ningún archivo de movimientos")
	ErrMalformedInput        = errors.New("dato de entrada mal formado")
	ErrMissingColumn         = errors.New("columna requerida ausente")
	ErrNegativePurchasePrice = errors.New("precio de compra negativo: movimiento sin regla aplicable")
)
