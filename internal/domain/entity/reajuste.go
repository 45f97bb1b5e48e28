package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de reajuste.
const (
	ReajusteEntrada = 1
	ReajusteSalida  = 2
)

// Reajuste es la cabecera de una corrección manual de existencias.
type Reajuste struct {
	IDReajuste          int64
	FechaReajuste       time.Time
	TipoReajuste        int
	ReferenciaDocumento string
	Observaciones       *string
	IDUsuario           int64
	Detalles            []*ReajusteDetalle
}

// ReajusteDetalle es una línea de reajuste aplicada contra un lote.
type ReajusteDetalle struct {
	IDReajusteDetalle  int64
	IDReajuste         int64
	IDInventario       int64
	IDCatalogoInsumos  *int64
	CodigoInsumo       int64
	NombreInsumo       string
	Caracteristicas    string
	CodigoPresentacion *int64
	Presentacion       *string
	UnidadMedida       *string
	Lote               *string
	FechaVencimiento   *time.Time
	Cantidad           int64
	PrecioUnitario     decimal.Decimal
	Observaciones      *string
}
