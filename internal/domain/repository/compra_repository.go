package repository

import (
	"context"
	"time"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
)

// FiltroCompras criterios del listado de ingresos de compras.
type FiltroCompras struct {
	Proveedor *string
	Desde     *time.Time
	Hasta     *time.Time
	Limit     int
	Offset    int
}

// CompraRepository puerto de persistencia de ingresos de compras.
type CompraRepository interface {
	CreateIngreso(ctx context.Context, c *entity.IngresoCompras) error
	CreateDetalle(ctx context.Context, d *entity.IngresoComprasDetalle) error
	CreateLote(ctx context.Context, l *entity.IngresoComprasLote) error

	// GetByID carga la cabecera con sus detalles y lotes; nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.IngresoCompras, error)
	List(ctx context.Context, f FiltroCompras) ([]*entity.IngresoCompras, int64, error)
	UpdateCabecera(ctx context.Context, c *entity.IngresoCompras) error

	DeleteLotesByCompra(ctx context.Context, idIngresoCompras int64) error
	DeleteDetallesByCompra(ctx context.Context, idIngresoCompras int64) error
	DeleteIngreso(ctx context.Context, idIngresoCompras int64) error
}
