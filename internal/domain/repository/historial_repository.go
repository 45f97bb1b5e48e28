package repository

import (
	"context"
	"time"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
)

// FiltroHistorial criterios de consulta del libro de movimientos.
type FiltroHistorial struct {
	IDInventario   *int64
	CodigoInsumo   *int64
	Lote           *string
	TipoMovimiento *string
	Modulo         *string
	IDUsuario      *int64
	FechaDesde     *time.Time
	FechaHasta     *time.Time
	Limit          int
	Offset         int
}

// HistorialRepository es el puerto del libro de movimientos. Los registros
// nunca se actualizan; solo se borran como parte de una reversión o anulación
// completamente validada.
type HistorialRepository interface {
	Create(ctx context.Context, h *entity.HistorialInventario) error
	List(ctx context.Context, f FiltroHistorial) ([]*entity.HistorialInventario, int64, error)
	Recientes(ctx context.Context, limit int) ([]*entity.HistorialInventario, error)
	ListByReajuste(ctx context.Context, idReajuste int64) ([]*entity.HistorialInventario, error)

	// CountPosteriores cuenta los movimientos del lote con fecha estrictamente
	// posterior a la dada, excluyendo los ids indicados. Se usa para decidir si
	// una reversión es segura.
	CountPosteriores(ctx context.Context, idInventario int64, excluir []int64, despuesDe time.Time) (int64, error)

	CountByInventario(ctx context.Context, idInventario int64) (int64, error)
	DeleteByReajuste(ctx context.Context, idReajuste int64) error
	DeleteByCompra(ctx context.Context, idIngresoCompras int64) error
}
