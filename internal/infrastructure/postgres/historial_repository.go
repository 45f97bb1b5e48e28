package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

var _ repository.HistorialRepository = (*HistorialRepo)(nil)

const columnasHistorial = `
	id_historial, id_inventario, id_catalogo_insumos, id_ingreso_compras,
	id_despacho, id_reajuste, cantidad, tipo_movimiento, modulo, id_usuario,
	lote, fecha_vencimiento, fecha_movimiento`

// HistorialRepo implementación de HistorialRepository sobre PostgreSQL (usable con pool o tx).
type HistorialRepo struct {
	q Querier
}

// NewHistorialRepository construye el adaptador del historial. Pasar pool o tx (Querier).
func NewHistorialRepository(q Querier) *HistorialRepo {
	return &HistorialRepo{q: q}
}

func scanHistorial(row pgx.Row) (*entity.HistorialInventario, error) {
	var h entity.HistorialInventario
	err := row.Scan(
		&h.IDHistorial, &h.IDInventario, &h.IDCatalogoInsumos, &h.IDIngresoCompras,
		&h.IDDespacho, &h.IDReajuste, &h.Cantidad, &h.TipoMovimiento, &h.Modulo, &h.IDUsuario,
		&h.Lote, &h.FechaVencimiento, &h.FechaMovimiento,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func collectHistorial(rows pgx.Rows) ([]*entity.HistorialInventario, error) {
	defer rows.Close()
	var out []*entity.HistorialInventario
	for rows.Next() {
		h, err := scanHistorial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan historial: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Create inserta el movimiento y asigna el id generado.
func (r *HistorialRepo) Create(ctx context.Context, h *entity.HistorialInventario) error {
	query := `
		INSERT INTO historial_inventario (
			id_inventario, id_catalogo_insumos, id_ingreso_compras, id_despacho,
			id_reajuste, cantidad, tipo_movimiento, modulo, id_usuario, lote,
			fecha_vencimiento, fecha_movimiento
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id_historial`
	err := r.q.QueryRow(ctx, query,
		h.IDInventario, h.IDCatalogoInsumos, h.IDIngresoCompras, h.IDDespacho,
		h.IDReajuste, h.Cantidad, h.TipoMovimiento, h.Modulo, h.IDUsuario, h.Lote,
		h.FechaVencimiento, h.FechaMovimiento,
	).Scan(&h.IDHistorial)
	if err != nil {
		return fmt.Errorf("create historial: %w", err)
	}
	return nil
}

// List consulta el libro de movimientos con filtros; devuelve la página y el
// total sin paginar.
func (r *HistorialRepo) List(ctx context.Context, f repository.FiltroHistorial) ([]*entity.HistorialInventario, int64, error) {
	var cond []string
	var args []any

	add := func(c string, v any) {
		args = append(args, v)
		cond = append(cond, fmt.Sprintf(c, len(args)))
	}

	if f.IDInventario != nil {
		add(`id_inventario = $%d`, *f.IDInventario)
	}
	if f.CodigoInsumo != nil {
		add(`id_inventario IN (SELECT id_inventario FROM inventario WHERE codigo_insumo = $%d)`, *f.CodigoInsumo)
	}
	if f.Lote != nil && *f.Lote != "" {
		add(`lote ILIKE '%%' || $%d || '%%'`, *f.Lote)
	}
	if f.TipoMovimiento != nil && *f.TipoMovimiento != "" {
		add(`tipo_movimiento = $%d`, *f.TipoMovimiento)
	}
	if f.Modulo != nil && *f.Modulo != "" {
		add(`modulo = $%d`, *f.Modulo)
	}
	if f.IDUsuario != nil {
		add(`id_usuario = $%d`, *f.IDUsuario)
	}
	if f.FechaDesde != nil {
		add(`fecha_movimiento >= $%d`, *f.FechaDesde)
	}
	if f.FechaHasta != nil {
		add(`fecha_movimiento <= $%d`, *f.FechaHasta)
	}

	where := ""
	if len(cond) > 0 {
		where = ` WHERE ` + strings.Join(cond, ` AND `)
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM historial_inventario`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count historial: %w", err)
	}

	query := `SELECT` + columnasHistorial + ` FROM historial_inventario` + where +
		fmt.Sprintf(` ORDER BY fecha_movimiento DESC, id_historial DESC LIMIT %d OFFSET %d`, f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list historial: %w", err)
	}
	out, err := collectHistorial(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Recientes devuelve los últimos movimientos registrados.
func (r *HistorialRepo) Recientes(ctx context.Context, limit int) ([]*entity.HistorialInventario, error) {
	query := `SELECT` + columnasHistorial + `
		FROM historial_inventario
		ORDER BY fecha_movimiento DESC, id_historial DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("historial recientes: %w", err)
	}
	return collectHistorial(rows)
}

// ListByReajuste lista los movimientos de un reajuste en orden de creación.
func (r *HistorialRepo) ListByReajuste(ctx context.Context, idReajuste int64) ([]*entity.HistorialInventario, error) {
	query := `SELECT` + columnasHistorial + `
		FROM historial_inventario
		WHERE id_reajuste = $1
		ORDER BY id_historial`
	rows, err := r.q.Query(ctx, query, idReajuste)
	if err != nil {
		return nil, fmt.Errorf("historial por reajuste: %w", err)
	}
	return collectHistorial(rows)
}

// CountPosteriores cuenta movimientos del lote estrictamente posteriores a la
// fecha dada, excluyendo los ids indicados.
func (r *HistorialRepo) CountPosteriores(ctx context.Context, idInventario int64, excluir []int64, despuesDe time.Time) (int64, error) {
	query := `
		SELECT COUNT(*) FROM historial_inventario
		WHERE id_inventario = $1
		  AND fecha_movimiento > $2
		  AND NOT (id_historial = ANY($3))`
	var n int64
	if err := r.q.QueryRow(ctx, query, idInventario, despuesDe, excluir).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posteriores: %w", err)
	}
	return n, nil
}

// CountByInventario cuenta los movimientos que referencian el lote.
func (r *HistorialRepo) CountByInventario(ctx context.Context, idInventario int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM historial_inventario WHERE id_inventario = $1`, idInventario).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count historial por inventario: %w", err)
	}
	return n, nil
}

// DeleteByReajuste elimina los movimientos de un reajuste.
func (r *HistorialRepo) DeleteByReajuste(ctx context.Context, idReajuste int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM historial_inventario WHERE id_reajuste = $1`, idReajuste); err != nil {
		return fmt.Errorf("delete historial por reajuste: %w", err)
	}
	return nil
}

// DeleteByCompra elimina los movimientos de un ingreso de compras.
func (r *HistorialRepo) DeleteByCompra(ctx context.Context, idIngresoCompras int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM historial_inventario WHERE id_ingreso_compras = $1`, idIngresoCompras); err != nil {
		return fmt.Errorf("delete historial por compra: %w", err)
	}
	return nil
}
