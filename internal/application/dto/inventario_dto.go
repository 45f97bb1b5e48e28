package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
)

// ListarInventarioRequest filtros de GET /api/inventario.
type ListarInventarioRequest struct {
	Buscar             *string    `query:"buscar"`
	CodigoInsumo       *int64     `query:"codigo_insumo"`
	Lote               *string    `query:"lote"`
	CodigoPresentacion *int64     `query:"codigo_presentacion"`
	VencimientoDesde   *time.Time `query:"vencimiento_desde"`
	VencimientoHasta   *time.Time `query:"vencimiento_hasta"`
	ProximosVencer     bool       `query:"proximos_vencer"`
	StockBajo          bool       `query:"stock_bajo"`
}

// DisponibilidadRequest filtros de GET /api/inventario/existencias.
type DisponibilidadRequest struct {
	CodigoInsumo       *int64  `query:"codigo_insumo"`
	Lote               *string `query:"lote"`
	CodigoPresentacion *int64  `query:"codigo_presentacion"`
}

// HistorialRequest filtros de GET /api/inventario/historial.
type HistorialRequest struct {
	PageRequest
	IDInventario   *int64     `query:"id_inventario"`
	CodigoInsumo   *int64     `query:"codigo_insumo"`
	Lote           *string    `query:"lote"`
	TipoMovimiento *string    `query:"tipo_movimiento"`
	Modulo         *string    `query:"modulo"`
	FechaInicio    *time.Time `query:"fecha_inicio"`
	FechaFin       *time.Time `query:"fecha_fin"`
}

// InventarioResponse un lote de inventario.
type InventarioResponse struct {
	IDInventario            int64           `json:"id_inventario"`
	IDIngresoCompras        *int64          `json:"id_ingreso_compras,omitempty"`
	Renglon                 int             `json:"renglon"`
	CodigoInsumo            int64           `json:"codigo_insumo"`
	NombreInsumo            string          `json:"nombre_insumo"`
	Caracteristicas         string          `json:"caracteristicas"`
	CodigoPresentacion      int64           `json:"codigo_presentacion"`
	Presentacion            string          `json:"presentacion"`
	UnidadMedida            string          `json:"unidad_medida"`
	Lote                    string          `json:"lote"`
	FechaVencimiento        *time.Time      `json:"fecha_vencimiento,omitempty"`
	CartaCompromiso         bool            `json:"carta_compromiso"`
	MesesDevolucion         *int            `json:"meses_devolucion,omitempty"`
	ObservacionesDevolucion *string         `json:"observaciones_devolucion,omitempty"`
	CantidadDisponible      int64           `json:"cantidad_disponible"`
	PrecioUnitario          decimal.Decimal `json:"precio_unitario"`
	PrecioTotal             decimal.Decimal `json:"precio_total"`
	NoKardex                *int64          `json:"no_kardex,omitempty"`
}

// NewInventarioResponse mapea la entidad al DTO de respuesta.
func NewInventarioResponse(i *entity.Inventario) InventarioResponse {
	return InventarioResponse{
		IDInventario:            i.IDInventario,
		IDIngresoCompras:        i.IDIngresoCompras,
		Renglon:                 i.Renglon,
		CodigoInsumo:            i.CodigoInsumo,
		NombreInsumo:            i.NombreInsumo,
		Caracteristicas:         i.Caracteristicas,
		CodigoPresentacion:      i.CodigoPresentacion,
		Presentacion:            i.Presentacion,
		UnidadMedida:            i.UnidadMedida,
		Lote:                    i.Lote,
		FechaVencimiento:        i.FechaVencimiento,
		CartaCompromiso:         i.CartaCompromiso,
		MesesDevolucion:         i.MesesDevolucion,
		ObservacionesDevolucion: i.ObservacionesDevolucion,
		CantidadDisponible:      i.CantidadDisponible,
		PrecioUnitario:          i.PrecioUnitario,
		PrecioTotal:             i.PrecioTotal,
		NoKardex:                i.NoKardex,
	}
}

// MovimientoResponse un registro del historial.
type MovimientoResponse struct {
	IDHistorial      int64      `json:"id_historial"`
	IDInventario     int64      `json:"id_inventario"`
	IDIngresoCompras *int64     `json:"id_ingreso_compras,omitempty"`
	IDDespacho       *int64     `json:"id_despacho,omitempty"`
	IDReajuste       *int64     `json:"id_reajuste,omitempty"`
	Cantidad         int64      `json:"cantidad"`
	TipoMovimiento   string     `json:"tipo_movimiento"`
	Modulo           string     `json:"modulo"`
	IDUsuario        int64      `json:"id_usuario"`
	Lote             string     `json:"lote"`
	FechaVencimiento *time.Time `json:"fecha_vencimiento,omitempty"`
	FechaMovimiento  time.Time  `json:"fecha_movimiento"`
}

// NewMovimientoResponse mapea la entidad al DTO de respuesta.
func NewMovimientoResponse(h *entity.HistorialInventario) MovimientoResponse {
	return MovimientoResponse{
		IDHistorial:      h.IDHistorial,
		IDInventario:     h.IDInventario,
		IDIngresoCompras: h.IDIngresoCompras,
		IDDespacho:       h.IDDespacho,
		IDReajuste:       h.IDReajuste,
		Cantidad:         h.Cantidad,
		TipoMovimiento:   h.TipoMovimiento,
		Modulo:           h.Modulo,
		IDUsuario:        h.IDUsuario,
		Lote:             h.Lote,
		FechaVencimiento: h.FechaVencimiento,
		FechaMovimiento:  h.FechaMovimiento,
	}
}

// ResumenInventarioResponse agregados para el tablero.
type ResumenInventarioResponse struct {
	TotalItems          int64           `json:"total_items"`
	ValorTotal          decimal.Decimal `json:"valor_total"`
	ItemsProximosVencer int64           `json:"items_proximos_vencer"`
	ItemsStockBajo      int64           `json:"items_stock_bajo"`
	TotalLotes          int64           `json:"total_lotes"`
}

// AlertaVencimientoResponse lote próximo a vencer o vencido.
type AlertaVencimientoResponse struct {
	InventarioResponse
	DiasParaVencer int  `json:"dias_para_vencer"`
	Vencido        bool `json:"vencido"`
}
