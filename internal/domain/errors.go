package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNoEncontrado      = errors.New("recurso no encontrado")
	ErrValidacion        = errors.New("entrada inválida")
	ErrNoAutorizado      = errors.New("acceso denegado")
	ErrConflicto         = errors.New("conflicto con el estado actual")
	ErrStockInsuficiente = errors.New("stock insuficiente")
	ErrCredenciales      = errors.New("credenciales inválidas")
)

// StockInsuficienteError detalla el faltante de una línea de despacho o reajuste.
// Detalle es el índice 1-based de la línea dentro de la solicitud.
type StockInsuficienteError struct {
	CodigoInsumo int64
	Faltante     int64
	Detalle      int
}

func (e *StockInsuficienteError) Error() string {
	if e.Faltante > 0 {
		return fmt.Sprintf("inventario insuficiente para el producto %d: faltan %d unidades (detalle #%d)",
			e.CodigoInsumo, e.Faltante, e.Detalle)
	}
	return fmt.Sprintf("no existen lotes disponibles para el producto %d", e.CodigoInsumo)
}

func (e *StockInsuficienteError) Unwrap() error { return ErrStockInsuficiente }

// ConflictoError nombra la referencia que bloquea una reversión o anulación.
type ConflictoError struct {
	Motivo string
}

func (e *ConflictoError) Error() string { return e.Motivo }

func (e *ConflictoError) Unwrap() error { return ErrConflicto }

// ValidacionError señala una línea concreta de la solicitud como inválida.
type ValidacionError struct {
	Motivo  string
	Detalle int // índice 1-based de la línea; 0 si aplica a toda la solicitud
}

func (e *ValidacionError) Error() string {
	if e.Detalle > 0 {
		return fmt.Sprintf("%s (detalle #%d)", e.Motivo, e.Detalle)
	}
	return e.Motivo
}

func (e *ValidacionError) Unwrap() error { return ErrValidacion }
