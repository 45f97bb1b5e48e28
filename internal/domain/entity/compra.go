package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// IngresoCompras es la cabecera de un ingreso por compra.
type IngresoCompras struct {
	IDIngresoCompras int64
	NumeroFactura    string
	SerieFactura     string
	TipoCompra       string
	FechaIngreso     time.Time
	Proveedor        string
	OrdenCompra      *string
	Programa         *string
	Numero1H         *string
	NoKardex         *int64
	Detalles         []*IngresoComprasDetalle
}

// IngresoComprasDetalle es una línea de la factura de compra. La suma de las
// cantidades de sus lotes debe igualar CantidadTotal.
type IngresoComprasDetalle struct {
	IDIngresoComprasDetalle int64
	IDIngresoCompras        int64
	IDCatalogoInsumos       int64
	Renglon                 int
	CodigoInsumo            int64
	NombreInsumo            string
	Caracteristicas         string
	CodigoPresentacion      int64
	Presentacion            string
	CantidadTotal           int64
	PrecioUnitario          decimal.Decimal
	PrecioTotalFactura      decimal.Decimal
	Observaciones           *string
	Lotes                   []*IngresoComprasLote
}

// IngresoComprasLote es un lote físico declarado dentro de una línea de compra.
type IngresoComprasLote struct {
	IDIngresoComprasLotes   int64
	IDIngresoComprasDetalle int64
	Cantidad                int64
	Lote                    string
	FechaVencimiento        *time.Time
	CartaCompromiso         bool
	MesesDevolucion         *int
	ObservacionesDevolucion *string
}

// FechaNotificacionDevolucion devuelve la fecha límite para gestionar la
// devolución del lote (vencimiento menos la ventana en meses), o nil si el
// lote no tiene vencimiento o ventana de devolución.
func (l *IngresoComprasLote) FechaNotificacionDevolucion() *time.Time {
	if l.FechaVencimiento == nil || l.MesesDevolucion == nil {
		return nil
	}
	f := l.FechaVencimiento.AddDate(0, -*l.MesesDevolucion, 0)
	return &f
}
