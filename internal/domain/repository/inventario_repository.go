package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
)

// FiltroDisponibilidad criterios para consultar existencias con stock > 0.
// Todos los campos son opcionales; Lote es coincidencia parcial insensible a
// mayúsculas.
type FiltroDisponibilidad struct {
	CodigoInsumo       *int64
	Lote               *string
	CodigoPresentacion *int64
}

// FiltroLoteExistente identifica el lote contra el que aplicar un reajuste:
// mismo producto y, si se indican, misma presentación y mismo lote exacto.
type FiltroLoteExistente struct {
	CodigoInsumo       int64
	CodigoPresentacion *int64
	Lote               *string
}

// FiltroInventario criterios del listado general de inventario.
type FiltroInventario struct {
	Buscar                *string
	CodigoInsumo          *int64
	NombreInsumo          *string
	Lote                  *string
	CodigoPresentacion    *int64
	Presentacion          *string
	FechaVencimientoDesde *time.Time
	FechaVencimientoHasta *time.Time
	CantidadMinima        *int64
	ProximosVencer        bool
	StockBajo             bool
}

// ResumenInventario agregados para el tablero.
type ResumenInventario struct {
	TotalItems          int64
	ValorTotal          decimal.Decimal
	ItemsProximosVencer int64
	ItemsStockBajo      int64
	TotalLotes          int64
}

// InventarioRepository es el puerto del almacén de lotes. Solo los casos de
// uso de compras, despachos y reajustes mutan cantidades a través de él, y
// siempre dentro de una transacción.
type InventarioRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Inventario, error)

	// GetForUpdate obtiene el lote bloqueando la fila (SELECT FOR UPDATE);
	// solo tiene sentido dentro de una transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Inventario, error)

	Create(ctx context.Context, inv *entity.Inventario) error
	Update(ctx context.Context, inv *entity.Inventario) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f FiltroInventario) ([]*entity.Inventario, error)
	ListByCompra(ctx context.Context, idIngresoCompras int64) ([]*entity.Inventario, error)
	DeleteByCompra(ctx context.Context, idIngresoCompras int64) error

	// FindDisponiblesFEFO devuelve los lotes con existencia del producto en
	// orden de consumo: fecha de vencimiento ascendente (los lotes sin
	// vencimiento al final) y, a igual fecha, id ascendente. Dentro de una
	// transacción bloquea las filas (FOR UPDATE).
	FindDisponiblesFEFO(ctx context.Context, codigoInsumo int64, codigoPresentacion *int64) ([]*entity.Inventario, error)

	// FindLote localiza el primer lote que coincide con el filtro, en el
	// mismo orden FEFO, bloqueando la fila dentro de una transacción.
	FindLote(ctx context.Context, f FiltroLoteExistente) (*entity.Inventario, error)

	Disponibilidad(ctx context.Context, f FiltroDisponibilidad) ([]*entity.Inventario, error)
	Resumen(ctx context.Context) (*ResumenInventario, error)
}
