package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

var _ repository.InventarioRepository = (*InventarioRepo)(nil)

// Umbrales de los filtros de alerta.
const (
	diasProximoVencer = 30
	umbralStockBajo   = 10
)

const columnasInventario = `
	id_inventario, id_ingreso_compras, id_ingreso_compras_lotes, id_catalogo_insumos,
	renglon, codigo_insumo, nombre_insumo, caracteristicas, codigo_presentacion,
	presentacion, unidad_medida, lote, fecha_vencimiento, carta_compromiso,
	meses_devolucion, observaciones_devolucion, cantidad_disponible,
	precio_unitario, precio_total, no_kardex, creado_en`

// ordenFEFO es el orden de consumo: vence primero sale primero, los lotes sin
// vencimiento al final y, a igual fecha, el lote más antiguo primero.
const ordenFEFO = `ORDER BY fecha_vencimiento ASC NULLS LAST, id_inventario ASC`

// InventarioRepo implementación de InventarioRepository sobre PostgreSQL (usable con pool o tx).
type InventarioRepo struct {
	q Querier
}

// NewInventarioRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventarioRepository(q Querier) *InventarioRepo {
	return &InventarioRepo{q: q}
}

func scanInventario(row pgx.Row) (*entity.Inventario, error) {
	var i entity.Inventario
	err := row.Scan(
		&i.IDInventario, &i.IDIngresoCompras, &i.IDIngresoComprasLotes, &i.IDCatalogoInsumos,
		&i.Renglon, &i.CodigoInsumo, &i.NombreInsumo, &i.Caracteristicas, &i.CodigoPresentacion,
		&i.Presentacion, &i.UnidadMedida, &i.Lote, &i.FechaVencimiento, &i.CartaCompromiso,
		&i.MesesDevolucion, &i.ObservacionesDevolucion, &i.CantidadDisponible,
		&i.PrecioUnitario, &i.PrecioTotal, &i.NoKardex, &i.CreadoEn,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func collectInventario(rows pgx.Rows) ([]*entity.Inventario, error) {
	defer rows.Close()
	var out []*entity.Inventario
	for rows.Next() {
		i, err := scanInventario(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventario: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// GetByID obtiene un lote por id; nil si no existe.
func (r *InventarioRepo) GetByID(ctx context.Context, id int64) (*entity.Inventario, error) {
	query := `SELECT` + columnasInventario + ` FROM inventario WHERE id_inventario = $1`
	i, err := scanInventario(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventario: %w", err)
	}
	return i, nil
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *InventarioRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Inventario, error) {
	query := `SELECT` + columnasInventario + ` FROM inventario WHERE id_inventario = $1 FOR UPDATE`
	i, err := scanInventario(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventario for update: %w", err)
	}
	return i, nil
}

// Create inserta el lote y asigna el id generado.
func (r *InventarioRepo) Create(ctx context.Context, inv *entity.Inventario) error {
	query := `
		INSERT INTO inventario (
			id_ingreso_compras, id_ingreso_compras_lotes, id_catalogo_insumos,
			renglon, codigo_insumo, nombre_insumo, caracteristicas,
			codigo_presentacion, presentacion, unidad_medida, lote,
			fecha_vencimiento, carta_compromiso, meses_devolucion,
			observaciones_devolucion, cantidad_disponible, precio_unitario,
			precio_total, no_kardex, creado_en
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		RETURNING id_inventario`
	err := r.q.QueryRow(ctx, query,
		inv.IDIngresoCompras, inv.IDIngresoComprasLotes, inv.IDCatalogoInsumos,
		inv.Renglon, inv.CodigoInsumo, inv.NombreInsumo, inv.Caracteristicas,
		inv.CodigoPresentacion, inv.Presentacion, inv.UnidadMedida, inv.Lote,
		inv.FechaVencimiento, inv.CartaCompromiso, inv.MesesDevolucion,
		inv.ObservacionesDevolucion, inv.CantidadDisponible, inv.PrecioUnitario,
		inv.PrecioTotal, inv.NoKardex, inv.CreadoEn,
	).Scan(&inv.IDInventario)
	if err != nil {
		return fmt.Errorf("create inventario: %w", err)
	}
	return nil
}

// Update persiste cantidad y precios del lote. El precio total viaja ya
// recalculado desde el dominio.
func (r *InventarioRepo) Update(ctx context.Context, inv *entity.Inventario) error {
	query := `
		UPDATE inventario SET
			cantidad_disponible = $2, precio_unitario = $3, precio_total = $4,
			lote = $5, fecha_vencimiento = $6, no_kardex = $7
		WHERE id_inventario = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.IDInventario, inv.CantidadDisponible, inv.PrecioUnitario, inv.PrecioTotal,
		inv.Lote, inv.FechaVencimiento, inv.NoKardex,
	)
	if err != nil {
		return fmt.Errorf("update inventario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update inventario %d: fila no encontrada", inv.IDInventario)
	}
	return nil
}

// Delete elimina el lote.
func (r *InventarioRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventario WHERE id_inventario = $1`, id); err != nil {
		return fmt.Errorf("delete inventario: %w", err)
	}
	return nil
}

// DeleteByCompra elimina todos los lotes nacidos de un ingreso de compras.
func (r *InventarioRepo) DeleteByCompra(ctx context.Context, idIngresoCompras int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventario WHERE id_ingreso_compras = $1`, idIngresoCompras); err != nil {
		return fmt.Errorf("delete inventario por compra: %w", err)
	}
	return nil
}

// ListByCompra lista los lotes nacidos de un ingreso de compras.
func (r *InventarioRepo) ListByCompra(ctx context.Context, idIngresoCompras int64) ([]*entity.Inventario, error) {
	query := `SELECT` + columnasInventario + ` FROM inventario WHERE id_ingreso_compras = $1 ORDER BY id_inventario`
	rows, err := r.q.Query(ctx, query, idIngresoCompras)
	if err != nil {
		return nil, fmt.Errorf("list inventario por compra: %w", err)
	}
	return collectInventario(rows)
}

// FindDisponiblesFEFO lista los lotes con existencia del producto en orden de
// consumo, bloqueando las filas.
func (r *InventarioRepo) FindDisponiblesFEFO(ctx context.Context, codigoInsumo int64, codigoPresentacion *int64) ([]*entity.Inventario, error) {
	query := `SELECT` + columnasInventario + `
		FROM inventario
		WHERE codigo_insumo = $1 AND cantidad_disponible > 0
		  AND ($2::bigint IS NULL OR codigo_presentacion = $2)
		` + ordenFEFO + `
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, codigoInsumo, codigoPresentacion)
	if err != nil {
		return nil, fmt.Errorf("find disponibles: %w", err)
	}
	return collectInventario(rows)
}

// FindLote localiza el primer lote que coincide con el filtro en orden FEFO,
// bloqueando la fila; nil si no hay coincidencia.
func (r *InventarioRepo) FindLote(ctx context.Context, f repository.FiltroLoteExistente) (*entity.Inventario, error) {
	query := `SELECT` + columnasInventario + `
		FROM inventario
		WHERE codigo_insumo = $1
		  AND ($2::bigint IS NULL OR codigo_presentacion = $2)
		  AND ($3::text IS NULL OR lote = $3)
		` + ordenFEFO + `
		LIMIT 1
		FOR UPDATE`
	i, err := scanInventario(r.q.QueryRow(ctx, query, f.CodigoInsumo, f.CodigoPresentacion, f.Lote))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find lote: %w", err)
	}
	return i, nil
}

// Disponibilidad lista lotes con existencia según filtro, en orden FEFO y sin
// bloquear filas.
func (r *InventarioRepo) Disponibilidad(ctx context.Context, f repository.FiltroDisponibilidad) ([]*entity.Inventario, error) {
	query := `SELECT` + columnasInventario + `
		FROM inventario
		WHERE cantidad_disponible > 0
		  AND ($1::bigint IS NULL OR codigo_insumo = $1)
		  AND ($2::text IS NULL OR lote ILIKE '%' || $2 || '%')
		  AND ($3::bigint IS NULL OR codigo_presentacion = $3)
		` + ordenFEFO
	rows, err := r.q.Query(ctx, query, f.CodigoInsumo, f.Lote, f.CodigoPresentacion)
	if err != nil {
		return nil, fmt.Errorf("disponibilidad: %w", err)
	}
	return collectInventario(rows)
}

// List lista lotes según los filtros del listado general.
func (r *InventarioRepo) List(ctx context.Context, f repository.FiltroInventario) ([]*entity.Inventario, error) {
	var cond []string
	var args []any

	add := func(c string, v any) {
		args = append(args, v)
		cond = append(cond, fmt.Sprintf(c, len(args)))
	}

	if f.Buscar != nil && *f.Buscar != "" {
		add(`(nombre_insumo ILIKE '%%' || $%d || '%%' OR caracteristicas ILIKE '%%' || $%[1]d || '%%' OR lote ILIKE '%%' || $%[1]d || '%%')`, *f.Buscar)
	}
	if f.CodigoInsumo != nil {
		add(`codigo_insumo = $%d`, *f.CodigoInsumo)
	}
	if f.NombreInsumo != nil && *f.NombreInsumo != "" {
		add(`nombre_insumo ILIKE '%%' || $%d || '%%'`, *f.NombreInsumo)
	}
	if f.Lote != nil && *f.Lote != "" {
		add(`lote ILIKE '%%' || $%d || '%%'`, *f.Lote)
	}
	if f.CodigoPresentacion != nil {
		add(`codigo_presentacion = $%d`, *f.CodigoPresentacion)
	}
	if f.Presentacion != nil && *f.Presentacion != "" {
		add(`presentacion ILIKE '%%' || $%d || '%%'`, *f.Presentacion)
	}
	if f.FechaVencimientoDesde != nil {
		add(`fecha_vencimiento >= $%d`, *f.FechaVencimientoDesde)
	}
	if f.FechaVencimientoHasta != nil {
		add(`fecha_vencimiento <= $%d`, *f.FechaVencimientoHasta)
	}
	if f.CantidadMinima != nil {
		add(`cantidad_disponible >= $%d`, *f.CantidadMinima)
	}
	if f.ProximosVencer {
		cond = append(cond, fmt.Sprintf(
			`fecha_vencimiento IS NOT NULL AND fecha_vencimiento <= now() + interval '%d days'`, diasProximoVencer))
	}
	if f.StockBajo {
		cond = append(cond, fmt.Sprintf(`cantidad_disponible > 0 AND cantidad_disponible < %d`, umbralStockBajo))
	}

	query := `SELECT` + columnasInventario + ` FROM inventario`
	if len(cond) > 0 {
		query += ` WHERE ` + strings.Join(cond, ` AND `)
	}
	query += ` ` + ordenFEFO

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventario: %w", err)
	}
	return collectInventario(rows)
}

// Resumen calcula los agregados del tablero en una sola consulta.
func (r *InventarioRepo) Resumen(ctx context.Context) (*repository.ResumenInventario, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(DISTINCT (codigo_insumo, codigo_presentacion)) FILTER (WHERE cantidad_disponible > 0),
			COALESCE(SUM(precio_total), 0),
			COUNT(*) FILTER (WHERE cantidad_disponible > 0
				AND fecha_vencimiento IS NOT NULL
				AND fecha_vencimiento <= now() + interval '%d days'),
			COUNT(*) FILTER (WHERE cantidad_disponible > 0 AND cantidad_disponible < %d),
			COUNT(*) FILTER (WHERE cantidad_disponible > 0)
		FROM inventario`, diasProximoVencer, umbralStockBajo)
	var res repository.ResumenInventario
	err := r.q.QueryRow(ctx, query).Scan(
		&res.TotalItems, &res.ValorTotal, &res.ItemsProximosVencer, &res.ItemsStockBajo, &res.TotalLotes,
	)
	if err != nil {
		return nil, fmt.Errorf("resumen inventario: %w", err)
	}
	return &res, nil
}
