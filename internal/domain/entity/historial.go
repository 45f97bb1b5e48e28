package entity

import "time"

// Tipos de movimiento del historial de inventario.
const (
	MovimientoEntrada         = "ENTRADA"
	MovimientoSalida          = "SALIDA"
	MovimientoReajusteEntrada = "REAJUSTE_ENTRADA"
	MovimientoReajusteSalida  = "REAJUSTE_SALIDA"
)

// Módulos que originan movimientos.
const (
	ModuloCompras   = "COMPRAS"
	ModuloDespachos = "DESPACHOS"
	ModuloReajustes = "REAJUSTES"
)

// HistorialInventario es un registro inmutable del libro de movimientos.
// Exactamente una de las referencias de origen (compra, despacho o reajuste)
// está poblada según el módulo. La cantidad se guarda como magnitud; el signo
// lo determina TipoMovimiento. Lote y FechaVencimiento se copian del lote al
// momento del movimiento para que el historial sobreviva a cambios del lote.
type HistorialInventario struct {
	IDHistorial       int64
	IDInventario      int64
	IDCatalogoInsumos *int64
	IDIngresoCompras  *int64
	IDDespacho        *int64
	IDReajuste        *int64
	Cantidad          int64
	TipoMovimiento    string
	Modulo            string
	IDUsuario         int64
	Lote              string
	FechaVencimiento  *time.Time
	FechaMovimiento   time.Time
}

// EsEntrada indica si el movimiento suma existencias.
func (h *HistorialInventario) EsEntrada() bool {
	return h.TipoMovimiento == MovimientoEntrada || h.TipoMovimiento == MovimientoReajusteEntrada
}
