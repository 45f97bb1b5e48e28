package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Despacho es la cabecera de una salida de bodega hacia un servicio.
type Despacho struct {
	IDDespacho     int64
	CodigoDespacho string
	IDServicio     *int64
	IDUsuario      int64
	FechaDespacho  time.Time
	Observaciones  *string
	TotalCantidad  int64
	TotalGeneral   decimal.Decimal
	Detalles       []*DespachoDetalle
}

// CodigoGenerado devuelve el código legible del despacho (DESP-000123).
func CodigoGenerado(idDespacho int64) string {
	return fmt.Sprintf("DESP-%06d", idDespacho)
}

// DespachoDetalle es un fragmento consumido de un lote concreto. Un detalle
// solicitado puede producir varios fragmentos cuando la cantidad se cubre con
// más de un lote (FEFO).
type DespachoDetalle struct {
	IDDespachoDetalle  int64
	IDDespacho         int64
	IDInventario       int64
	IDCatalogoInsumos  *int64
	IDIngresoCompras   *int64
	CodigoInsumo       int64
	NombreInsumo       string
	Caracteristicas    string
	CodigoPresentacion int64
	Presentacion       string
	UnidadMedida       string
	Lote               string
	FechaVencimiento   *time.Time
	Cantidad           int64
	PrecioUnitario     decimal.Decimal
	PrecioTotal        decimal.Decimal
}
