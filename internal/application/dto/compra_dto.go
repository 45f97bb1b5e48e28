package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
)

// CrearCompraLoteRequest lote físico declarado dentro de una línea de compra.
type CrearCompraLoteRequest struct {
	Cantidad                int64      `json:"cantidad" validate:"required,gt=0"`
	Lote                    string     `json:"lote" validate:"required"`
	FechaVencimiento        *time.Time `json:"fecha_vencimiento,omitempty"`
	CartaCompromiso         bool       `json:"carta_compromiso"`
	MesesDevolucion         *int       `json:"meses_devolucion,omitempty" validate:"omitempty,gt=0"`
	ObservacionesDevolucion *string    `json:"observaciones_devolucion,omitempty"`
}

// CrearCompraDetalleRequest línea de la factura. La suma de las cantidades de
// sus lotes debe igualar CantidadTotal; se valida en el caso de uso.
type CrearCompraDetalleRequest struct {
	IDCatalogoInsumos int64                    `json:"id_catalogo_insumos" validate:"required,gt=0"`
	CantidadTotal     int64                    `json:"cantidad_total" validate:"required,gt=0"`
	PrecioUnitario    decimal.Decimal          `json:"precio_unitario"`
	Observaciones     *string                  `json:"observaciones,omitempty"`
	Lotes             []CrearCompraLoteRequest `json:"lotes" validate:"required,min=1,dive"`
}

// CrearCompraRequest body para POST /api/compras.
type CrearCompraRequest struct {
	NumeroFactura string                      `json:"numero_factura" validate:"required"`
	SerieFactura  string                      `json:"serie_factura" validate:"required"`
	TipoCompra    string                      `json:"tipo_compra" validate:"required"`
	FechaIngreso  time.Time                   `json:"fecha_ingreso" validate:"required"`
	Proveedor     string                      `json:"proveedor" validate:"required"`
	OrdenCompra   *string                     `json:"orden_compra,omitempty"`
	Programa      *string                     `json:"programa,omitempty"`
	Numero1H      *string                     `json:"numero_1h,omitempty"`
	NoKardex      *int64                      `json:"no_kardex,omitempty"`
	Detalles      []CrearCompraDetalleRequest `json:"detalles" validate:"required,min=1,dive"`
}

// CrearCompraResponse resultado de registrar un ingreso de compras.
type CrearCompraResponse struct {
	IDIngresoCompras int64           `json:"id_ingreso_compras"`
	TotalFactura     decimal.Decimal `json:"total_factura"`
}

// ActualizarCompraRequest body para PUT /api/compras/:id. Solo metadatos de la
// cabecera; nunca cantidades ni lotes.
type ActualizarCompraRequest struct {
	NumeroFactura string    `json:"numero_factura" validate:"required"`
	SerieFactura  string    `json:"serie_factura" validate:"required"`
	TipoCompra    string    `json:"tipo_compra" validate:"required"`
	FechaIngreso  time.Time `json:"fecha_ingreso" validate:"required"`
	Proveedor     string    `json:"proveedor" validate:"required"`
	OrdenCompra   *string   `json:"orden_compra,omitempty"`
	Programa      *string   `json:"programa,omitempty"`
	Numero1H      *string   `json:"numero_1h,omitempty"`
	NoKardex      *int64    `json:"no_kardex,omitempty"`
}

// ListarComprasRequest filtros de GET /api/compras.
type ListarComprasRequest struct {
	PageRequest
	Proveedor   *string    `query:"proveedor"`
	FechaInicio *time.Time `query:"fecha_inicio"`
	FechaFin    *time.Time `query:"fecha_fin"`
}

// CompraLoteResponse lote dentro de una línea de compra.
type CompraLoteResponse struct {
	IDIngresoComprasLotes   int64      `json:"id_ingreso_compras_lotes"`
	Cantidad                int64      `json:"cantidad"`
	Lote                    string     `json:"lote"`
	FechaVencimiento        *time.Time `json:"fecha_vencimiento,omitempty"`
	CartaCompromiso         bool       `json:"carta_compromiso"`
	MesesDevolucion         *int       `json:"meses_devolucion,omitempty"`
	ObservacionesDevolucion *string    `json:"observaciones_devolucion,omitempty"`
	FechaNotificacion       *time.Time `json:"fecha_notificacion_devolucion,omitempty"`
}

// CompraDetalleResponse línea de compra con sus lotes.
type CompraDetalleResponse struct {
	IDIngresoComprasDetalle int64                `json:"id_ingreso_compras_detalle"`
	IDCatalogoInsumos       int64                `json:"id_catalogo_insumos"`
	Renglon                 int                  `json:"renglon"`
	CodigoInsumo            int64                `json:"codigo_insumo"`
	NombreInsumo            string               `json:"nombre_insumo"`
	Caracteristicas         string               `json:"caracteristicas"`
	CodigoPresentacion      int64                `json:"codigo_presentacion"`
	Presentacion            string               `json:"presentacion"`
	CantidadTotal           int64                `json:"cantidad_total"`
	PrecioUnitario          decimal.Decimal      `json:"precio_unitario"`
	PrecioTotalFactura      decimal.Decimal      `json:"precio_total_factura"`
	Observaciones           *string              `json:"observaciones,omitempty"`
	Lotes                   []CompraLoteResponse `json:"lotes"`
}

// CompraResponse cabecera de ingreso de compras con detalle completo.
type CompraResponse struct {
	IDIngresoCompras int64                   `json:"id_ingreso_compras"`
	NumeroFactura    string                  `json:"numero_factura"`
	SerieFactura     string                  `json:"serie_factura"`
	TipoCompra       string                  `json:"tipo_compra"`
	FechaIngreso     time.Time               `json:"fecha_ingreso"`
	Proveedor        string                  `json:"proveedor"`
	OrdenCompra      *string                 `json:"orden_compra,omitempty"`
	Programa         *string                 `json:"programa,omitempty"`
	Numero1H         *string                 `json:"numero_1h,omitempty"`
	NoKardex         *int64                  `json:"no_kardex,omitempty"`
	TotalFactura     decimal.Decimal         `json:"total_factura"`
	Detalles         []CompraDetalleResponse `json:"detalles"`
}

// NewCompraResponse mapea la entidad al DTO de respuesta, calculando el total
// de la factura como la suma de los totales de línea.
func NewCompraResponse(c *entity.IngresoCompras) CompraResponse {
	total := decimal.Zero
	detalles := make([]CompraDetalleResponse, 0, len(c.Detalles))
	for _, d := range c.Detalles {
		total = total.Add(d.PrecioTotalFactura)
		lotes := make([]CompraLoteResponse, 0, len(d.Lotes))
		for _, l := range d.Lotes {
			lotes = append(lotes, CompraLoteResponse{
				IDIngresoComprasLotes:   l.IDIngresoComprasLotes,
				Cantidad:                l.Cantidad,
				Lote:                    l.Lote,
				FechaVencimiento:        l.FechaVencimiento,
				CartaCompromiso:         l.CartaCompromiso,
				MesesDevolucion:         l.MesesDevolucion,
				ObservacionesDevolucion: l.ObservacionesDevolucion,
				FechaNotificacion:       l.FechaNotificacionDevolucion(),
			})
		}
		detalles = append(detalles, CompraDetalleResponse{
			IDIngresoComprasDetalle: d.IDIngresoComprasDetalle,
			IDCatalogoInsumos:       d.IDCatalogoInsumos,
			Renglon:                 d.Renglon,
			CodigoInsumo:            d.CodigoInsumo,
			NombreInsumo:            d.NombreInsumo,
			Caracteristicas:         d.Caracteristicas,
			CodigoPresentacion:      d.CodigoPresentacion,
			Presentacion:            d.Presentacion,
			CantidadTotal:           d.CantidadTotal,
			PrecioUnitario:          d.PrecioUnitario,
			PrecioTotalFactura:      d.PrecioTotalFactura,
			Observaciones:           d.Observaciones,
			Lotes:                   lotes,
		})
	}
	return CompraResponse{
		IDIngresoCompras: c.IDIngresoCompras,
		NumeroFactura:    c.NumeroFactura,
		SerieFactura:     c.SerieFactura,
		TipoCompra:       c.TipoCompra,
		FechaIngreso:     c.FechaIngreso,
		Proveedor:        c.Proveedor,
		OrdenCompra:      c.OrdenCompra,
		Programa:         c.Programa,
		Numero1H:         c.Numero1H,
		NoKardex:         c.NoKardex,
		TotalFactura:     total,
		Detalles:         detalles,
	}
}
