package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventario representa un lote físico de un insumo: una combinación de
// producto/presentación/lote/vencimiento con su cantidad disponible y precio.
// IDIngresoCompras e IDIngresoComprasLotes son nulos cuando el lote fue creado
// por un reajuste de entrada y no por una compra.
type Inventario struct {
	IDInventario            int64
	IDIngresoCompras        *int64
	IDIngresoComprasLotes   *int64
	IDCatalogoInsumos       *int64
	Renglon                 int
	CodigoInsumo            int64
	NombreInsumo            string
	Caracteristicas         string
	CodigoPresentacion      int64
	Presentacion            string
	UnidadMedida            string
	Lote                    string
	FechaVencimiento        *time.Time
	CartaCompromiso         bool
	MesesDevolucion         *int
	ObservacionesDevolucion *string
	CantidadDisponible      int64
	PrecioUnitario          decimal.Decimal
	PrecioTotal             decimal.Decimal
	NoKardex                *int64
	CreadoEn                time.Time
}

// RecalcularPrecioTotal mantiene el invariante precioTotal = precioUnitario × cantidadDisponible.
// Debe llamarse después de cada mutación de cantidad o precio unitario.
func (i *Inventario) RecalcularPrecioTotal() {
	i.PrecioTotal = i.PrecioUnitario.Mul(decimal.NewFromInt(i.CantidadDisponible))
}

// TieneOrigenCompra indica si el lote proviene de un ingreso de compras.
// Los lotes sin origen de compra y en cero son candidatos a baja tras revertir
// el reajuste que los creó.
func (i *Inventario) TieneOrigenCompra() bool {
	return i.IDIngresoCompras != nil || i.IDIngresoComprasLotes != nil
}
