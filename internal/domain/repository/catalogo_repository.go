package repository

import (
	"context"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
)

// FiltroCatalogo criterios de búsqueda en el catálogo de insumos. Si
// Renglones no está vacío, la búsqueda se restringe a esos renglones.
type FiltroCatalogo struct {
	Termino   string
	Renglones []int
	Limit     int
}

// CatalogoRepository puerto de consulta del catálogo de insumos.
type CatalogoRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.CatalogoInsumos, error)
	FindByCodigo(ctx context.Context, codigoInsumo int64) (*entity.CatalogoInsumos, error)
	Buscar(ctx context.Context, f FiltroCatalogo) ([]*entity.CatalogoInsumos, error)

	// Upsert inserta o actualiza por (codigoInsumo, codigoPresentacion); se usa
	// en la importación CSV.
	Upsert(ctx context.Context, c *entity.CatalogoInsumos) error
}
