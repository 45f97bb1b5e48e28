package dto

import "github.com/jcastellanos/bodega-api/internal/domain/entity"

// BuscarCatalogoRequest filtros de GET /api/catalogo.
type BuscarCatalogoRequest struct {
	Termino string `query:"q" validate:"required,min=2"`
	Limit   int    `query:"limit" validate:"min=0,max=100"`
}

// CatalogoItemResponse entrada del catálogo de insumos.
type CatalogoItemResponse struct {
	IDCatalogoInsumos  int64  `json:"id_catalogo_insumos"`
	Renglon            int    `json:"renglon"`
	CodigoInsumo       int64  `json:"codigo_insumo"`
	NombreInsumo       string `json:"nombre_insumo"`
	Caracteristicas    string `json:"caracteristicas"`
	CodigoPresentacion int64  `json:"codigo_presentacion"`
	NombrePresentacion string `json:"nombre_presentacion"`
	UnidadMedida       string `json:"unidad_medida"`
}

// NewCatalogoItemResponse mapea la entidad al DTO de respuesta.
func NewCatalogoItemResponse(c *entity.CatalogoInsumos) CatalogoItemResponse {
	return CatalogoItemResponse{
		IDCatalogoInsumos:  c.IDCatalogoInsumos,
		Renglon:            c.Renglon,
		CodigoInsumo:       c.CodigoInsumo,
		NombreInsumo:       c.NombreInsumo,
		Caracteristicas:    c.Caracteristicas,
		CodigoPresentacion: c.CodigoPresentacion,
		NombrePresentacion: c.NombrePresentacion,
		UnidadMedida:       c.UnidadMedida,
	}
}

// ImportarCatalogoResponse resumen de una importación CSV.
type ImportarCatalogoResponse struct {
	Procesados int      `json:"procesados"`
	Importados int      `json:"importados"`
	Errores    []string `json:"errores,omitempty"`
}

// ServicioResponse servicio destino de despachos.
type ServicioResponse struct {
	IDServicio int64  `json:"id_servicio"`
	Nombre     string `json:"nombre"`
	Activo     bool   `json:"activo"`
}
