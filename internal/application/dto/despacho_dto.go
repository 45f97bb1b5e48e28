package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
)

// DespachoItemRequest producto solicitado en un despacho. La cantidad se
// cubre contra uno o más lotes según orden de vencimiento.
type DespachoItemRequest struct {
	CodigoInsumo       int64  `json:"codigo_insumo" validate:"required,gt=0"`
	CodigoPresentacion *int64 `json:"codigo_presentacion,omitempty" validate:"omitempty,gt=0"`
	Cantidad           int64  `json:"cantidad" validate:"required,gt=0"`
}

// CrearDespachoRequest body para POST /api/despachos.
type CrearDespachoRequest struct {
	IDServicio    *int64                `json:"id_servicio,omitempty" validate:"omitempty,gt=0"`
	Observaciones *string               `json:"observaciones,omitempty"`
	Detalles      []DespachoItemRequest `json:"detalles" validate:"required,min=1,dive"`
}

// ListarDespachosRequest filtros de GET /api/despachos.
type ListarDespachosRequest struct {
	PageRequest
	Codigo      *string    `query:"codigo"`
	IDServicio  *int64     `query:"id_servicio"`
	FechaInicio *time.Time `query:"fecha_inicio"`
	FechaFin    *time.Time `query:"fecha_fin"`
}

// DespachoDetalleResponse fragmento consumido de un lote concreto.
type DespachoDetalleResponse struct {
	IDDespachoDetalle  int64           `json:"id_despacho_detalle"`
	IDInventario       int64           `json:"id_inventario"`
	CodigoInsumo       int64           `json:"codigo_insumo"`
	NombreInsumo       string          `json:"nombre_insumo"`
	Caracteristicas    string          `json:"caracteristicas"`
	CodigoPresentacion int64           `json:"codigo_presentacion"`
	Presentacion       string          `json:"presentacion"`
	UnidadMedida       string          `json:"unidad_medida"`
	Lote               string          `json:"lote"`
	FechaVencimiento   *time.Time      `json:"fecha_vencimiento,omitempty"`
	Cantidad           int64           `json:"cantidad"`
	PrecioUnitario     decimal.Decimal `json:"precio_unitario"`
	PrecioTotal        decimal.Decimal `json:"precio_total"`
}

// DespachoResponse cabecera de despacho con sus fragmentos.
type DespachoResponse struct {
	IDDespacho     int64                     `json:"id_despacho"`
	CodigoDespacho string                    `json:"codigo_despacho"`
	IDServicio     *int64                    `json:"id_servicio,omitempty"`
	IDUsuario      int64                     `json:"id_usuario"`
	FechaDespacho  time.Time                 `json:"fecha_despacho"`
	Observaciones  *string                   `json:"observaciones,omitempty"`
	TotalCantidad  int64                     `json:"total_cantidad"`
	TotalGeneral   decimal.Decimal           `json:"total_general"`
	Detalles       []DespachoDetalleResponse `json:"detalles"`
}

// NewDespachoResponse mapea la entidad al DTO de respuesta.
func NewDespachoResponse(d *entity.Despacho) DespachoResponse {
	detalles := make([]DespachoDetalleResponse, 0, len(d.Detalles))
	for _, det := range d.Detalles {
		detalles = append(detalles, DespachoDetalleResponse{
			IDDespachoDetalle:  det.IDDespachoDetalle,
			IDInventario:       det.IDInventario,
			CodigoInsumo:       det.CodigoInsumo,
			NombreInsumo:       det.NombreInsumo,
			Caracteristicas:    det.Caracteristicas,
			CodigoPresentacion: det.CodigoPresentacion,
			Presentacion:       det.Presentacion,
			UnidadMedida:       det.UnidadMedida,
			Lote:               det.Lote,
			FechaVencimiento:   det.FechaVencimiento,
			Cantidad:           det.Cantidad,
			PrecioUnitario:     det.PrecioUnitario,
			PrecioTotal:        det.PrecioTotal,
		})
	}
	return DespachoResponse{
		IDDespacho:     d.IDDespacho,
		CodigoDespacho: d.CodigoDespacho,
		IDServicio:     d.IDServicio,
		IDUsuario:      d.IDUsuario,
		FechaDespacho:  d.FechaDespacho,
		Observaciones:  d.Observaciones,
		TotalCantidad:  d.TotalCantidad,
		TotalGeneral:   d.TotalGeneral,
		Detalles:       detalles,
	}
}
