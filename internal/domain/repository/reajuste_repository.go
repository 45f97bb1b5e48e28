package repository

import (
	"context"
	"time"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
)

// FiltroReajustes criterios del listado de reajustes.
type FiltroReajustes struct {
	TipoReajuste *int
	Referencia   *string
	IDUsuario    *int64
	Desde        *time.Time
	Hasta        *time.Time
	Limit        int
	Offset       int
}

// ReajusteRepository puerto de persistencia de reajustes.
type ReajusteRepository interface {
	Create(ctx context.Context, r *entity.Reajuste) error
	CreateDetalle(ctx context.Context, d *entity.ReajusteDetalle) error

	// GetByID carga la cabecera con sus detalles en orden de creación; nil si
	// no existe.
	GetByID(ctx context.Context, id int64) (*entity.Reajuste, error)
	List(ctx context.Context, f FiltroReajustes) ([]*entity.Reajuste, int64, error)

	DeleteDetallesByReajuste(ctx context.Context, idReajuste int64) error
	Delete(ctx context.Context, idReajuste int64) error

	CountDetallesByInventario(ctx context.Context, idInventario int64) (int64, error)
	CountDetallesByInventarios(ctx context.Context, idsInventario []int64) (int64, error)
}
