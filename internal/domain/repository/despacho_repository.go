package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
)

// FiltroDespachos criterios del listado de despachos.
type FiltroDespachos struct {
	Codigo     *string
	IDServicio *int64
	IDUsuario  *int64
	Desde      *time.Time
	Hasta      *time.Time
	Limit      int
	Offset     int
}

// DespachoRepository puerto de persistencia de despachos.
type DespachoRepository interface {
	Create(ctx context.Context, d *entity.Despacho) error
	CreateDetalle(ctx context.Context, d *entity.DespachoDetalle) error
	UpdateTotales(ctx context.Context, idDespacho int64, codigo string, totalCantidad int64, totalGeneral decimal.Decimal) error

	// GetByID carga la cabecera con sus detalles; nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Despacho, error)
	List(ctx context.Context, f FiltroDespachos) ([]*entity.Despacho, int64, error)

	// CountDetallesByInventarios cuenta fragmentos de despacho que consumen
	// cualquiera de los lotes dados; se usa para bloquear anulaciones.
	CountDetallesByInventarios(ctx context.Context, idsInventario []int64) (int64, error)
}
