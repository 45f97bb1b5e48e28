package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
)

// ReajusteDetalleRequest línea de reajuste. Para entradas que crean un lote
// nuevo se exige PrecioUnitario y NoKardex; para el resto el precio del lote
// existente manda.
type ReajusteDetalleRequest struct {
	CodigoInsumo       int64           `json:"codigo_insumo" validate:"required,gt=0"`
	CodigoPresentacion *int64          `json:"codigo_presentacion,omitempty" validate:"omitempty,gt=0"`
	Lote               *string         `json:"lote,omitempty"`
	FechaVencimiento   *time.Time      `json:"fecha_vencimiento,omitempty"`
	Cantidad           int64           `json:"cantidad" validate:"required,gt=0"`
	PrecioUnitario     decimal.Decimal `json:"precio_unitario"`
	NoKardex           *int64          `json:"no_kardex,omitempty" validate:"omitempty,gt=0"`
	Observaciones      *string         `json:"observaciones,omitempty"`
}

// CrearReajusteRequest body para POST /api/reajustes.
type CrearReajusteRequest struct {
	FechaReajuste       time.Time                `json:"fecha_reajuste" validate:"required"`
	TipoReajuste        int                      `json:"tipo_reajuste" validate:"required,oneof=1 2"`
	ReferenciaDocumento string                   `json:"referencia_documento" validate:"required"`
	Observaciones       *string                  `json:"observaciones,omitempty"`
	Detalles            []ReajusteDetalleRequest `json:"detalles" validate:"required,min=1,dive"`
}

// ListarReajustesRequest filtros de GET /api/reajustes.
type ListarReajustesRequest struct {
	PageRequest
	TipoReajuste *int       `query:"tipo_reajuste" validate:"omitempty,oneof=1 2"`
	Referencia   *string    `query:"referencia"`
	FechaInicio  *time.Time `query:"fecha_inicio"`
	FechaFin     *time.Time `query:"fecha_fin"`
}

// ReajusteDetalleResponse línea de reajuste aplicada.
type ReajusteDetalleResponse struct {
	IDReajusteDetalle  int64           `json:"id_reajuste_detalle"`
	IDInventario       int64           `json:"id_inventario"`
	CodigoInsumo       int64           `json:"codigo_insumo"`
	NombreInsumo       string          `json:"nombre_insumo"`
	Caracteristicas    string          `json:"caracteristicas"`
	CodigoPresentacion *int64          `json:"codigo_presentacion,omitempty"`
	Presentacion       *string         `json:"presentacion,omitempty"`
	UnidadMedida       *string         `json:"unidad_medida,omitempty"`
	Lote               *string         `json:"lote,omitempty"`
	FechaVencimiento   *time.Time      `json:"fecha_vencimiento,omitempty"`
	Cantidad           int64           `json:"cantidad"`
	PrecioUnitario     decimal.Decimal `json:"precio_unitario"`
	Observaciones      *string         `json:"observaciones,omitempty"`
}

// ReajusteResponse cabecera de reajuste con sus líneas.
type ReajusteResponse struct {
	IDReajuste          int64                     `json:"id_reajuste"`
	FechaReajuste       time.Time                 `json:"fecha_reajuste"`
	TipoReajuste        int                       `json:"tipo_reajuste"`
	ReferenciaDocumento string                    `json:"referencia_documento"`
	Observaciones       *string                   `json:"observaciones,omitempty"`
	IDUsuario           int64                     `json:"id_usuario"`
	Detalles            []ReajusteDetalleResponse `json:"detalles"`
}

// NewReajusteResponse mapea la entidad al DTO de respuesta.
func NewReajusteResponse(r *entity.Reajuste) ReajusteResponse {
	detalles := make([]ReajusteDetalleResponse, 0, len(r.Detalles))
	for _, d := range r.Detalles {
		detalles = append(detalles, ReajusteDetalleResponse{
			IDReajusteDetalle:  d.IDReajusteDetalle,
			IDInventario:       d.IDInventario,
			CodigoInsumo:       d.CodigoInsumo,
			NombreInsumo:       d.NombreInsumo,
			Caracteristicas:    d.Caracteristicas,
			CodigoPresentacion: d.CodigoPresentacion,
			Presentacion:       d.Presentacion,
			UnidadMedida:       d.UnidadMedida,
			Lote:               d.Lote,
			FechaVencimiento:   d.FechaVencimiento,
			Cantidad:           d.Cantidad,
			PrecioUnitario:     d.PrecioUnitario,
			Observaciones:      d.Observaciones,
		})
	}
	return ReajusteResponse{
		IDReajuste:          r.IDReajuste,
		FechaReajuste:       r.FechaReajuste,
		TipoReajuste:        r.TipoReajuste,
		ReferenciaDocumento: r.ReferenciaDocumento,
		Observaciones:       r.Observaciones,
		IDUsuario:           r.IDUsuario,
		Detalles:            detalles,
	}
}
