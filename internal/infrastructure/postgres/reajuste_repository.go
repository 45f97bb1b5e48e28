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

var _ repository.ReajusteRepository = (*ReajusteRepo)(nil)

// ReajusteRepo implementación de ReajusteRepository sobre PostgreSQL (usable con pool o tx).
type ReajusteRepo struct {
	q Querier
}

// NewReajusteRepository construye el adaptador de reajustes. Pasar pool o tx (Querier).
func NewReajusteRepository(q Querier) *ReajusteRepo {
	return &ReajusteRepo{q: q}
}

// Create inserta la cabecera y asigna el id generado.
func (r *ReajusteRepo) Create(ctx context.Context, rj *entity.Reajuste) error {
	query := `
		INSERT INTO reajustes (
			fecha_reajuste, tipo_reajuste, referencia_documento, observaciones, id_usuario
		) VALUES ($1,$2,$3,$4,$5)
		RETURNING id_reajuste`
	err := r.q.QueryRow(ctx, query,
		rj.FechaReajuste, rj.TipoReajuste, rj.ReferenciaDocumento, rj.Observaciones, rj.IDUsuario,
	).Scan(&rj.IDReajuste)
	if err != nil {
		return fmt.Errorf("create reajuste: %w", err)
	}
	return nil
}

// CreateDetalle inserta una línea y asigna el id generado.
func (r *ReajusteRepo) CreateDetalle(ctx context.Context, d *entity.ReajusteDetalle) error {
	query := `
		INSERT INTO reajuste_detalle (
			id_reajuste, id_inventario, id_catalogo_insumos, codigo_insumo,
			nombre_insumo, caracteristicas, codigo_presentacion, presentacion,
			unidad_medida, lote, fecha_vencimiento, cantidad, precio_unitario,
			observaciones
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id_reajuste_detalle`
	err := r.q.QueryRow(ctx, query,
		d.IDReajuste, d.IDInventario, d.IDCatalogoInsumos, d.CodigoInsumo,
		d.NombreInsumo, d.Caracteristicas, d.CodigoPresentacion, d.Presentacion,
		d.UnidadMedida, d.Lote, d.FechaVencimiento, d.Cantidad, d.PrecioUnitario,
		d.Observaciones,
	).Scan(&d.IDReajusteDetalle)
	if err != nil {
		return fmt.Errorf("create detalle de reajuste: %w", err)
	}
	return nil
}

// GetByID carga la cabecera con sus líneas; nil si no existe.
func (r *ReajusteRepo) GetByID(ctx context.Context, id int64) (*entity.Reajuste, error) {
	query := `
		SELECT id_reajuste, fecha_reajuste, tipo_reajuste, referencia_documento,
		       observaciones, id_usuario
		FROM reajustes WHERE id_reajuste = $1`
	var rj entity.Reajuste
	err := r.q.QueryRow(ctx, query, id).Scan(
		&rj.IDReajuste, &rj.FechaReajuste, &rj.TipoReajuste, &rj.ReferenciaDocumento,
		&rj.Observaciones, &rj.IDUsuario,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reajuste: %w", err)
	}
	if err := r.cargarDetalles(ctx, &rj); err != nil {
		return nil, err
	}
	return &rj, nil
}

func (r *ReajusteRepo) cargarDetalles(ctx context.Context, rj *entity.Reajuste) error {
	query := `
		SELECT id_reajuste_detalle, id_reajuste, id_inventario, id_catalogo_insumos,
		       codigo_insumo, nombre_insumo, caracteristicas, codigo_presentacion,
		       presentacion, unidad_medida, lote, fecha_vencimiento, cantidad,
		       precio_unitario, observaciones
		FROM reajuste_detalle
		WHERE id_reajuste = $1
		ORDER BY id_reajuste_detalle`
	rows, err := r.q.Query(ctx, query, rj.IDReajuste)
	if err != nil {
		return fmt.Errorf("detalles de reajuste: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.ReajusteDetalle
		if err := rows.Scan(
			&d.IDReajusteDetalle, &d.IDReajuste, &d.IDInventario, &d.IDCatalogoInsumos,
			&d.CodigoInsumo, &d.NombreInsumo, &d.Caracteristicas, &d.CodigoPresentacion,
			&d.Presentacion, &d.UnidadMedida, &d.Lote, &d.FechaVencimiento, &d.Cantidad,
			&d.PrecioUnitario, &d.Observaciones,
		); err != nil {
			return fmt.Errorf("scan detalle de reajuste: %w", err)
		}
		rj.Detalles = append(rj.Detalles, &d)
	}
	return rows.Err()
}

// List lista reajustes (con líneas) según filtros; devuelve también el total
// sin paginar.
func (r *ReajusteRepo) List(ctx context.Context, f repository.FiltroReajustes) ([]*entity.Reajuste, int64, error) {
	var cond []string
	var args []any

	add := func(c string, v any) {
		args = append(args, v)
		cond = append(cond, fmt.Sprintf(c, len(args)))
	}

	if f.TipoReajuste != nil {
		add(`tipo_reajuste = $%d`, *f.TipoReajuste)
	}
	if f.Referencia != nil && *f.Referencia != "" {
		add(`referencia_documento ILIKE '%%' || $%d || '%%'`, *f.Referencia)
	}
	if f.IDUsuario != nil {
		add(`id_usuario = $%d`, *f.IDUsuario)
	}
	if f.Desde != nil {
		add(`fecha_reajuste >= $%d`, *f.Desde)
	}
	if f.Hasta != nil {
		add(`fecha_reajuste <= $%d`, *f.Hasta)
	}

	where := ""
	if len(cond) > 0 {
		where = ` WHERE ` + strings.Join(cond, ` AND `)
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM reajustes`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reajustes: %w", err)
	}

	query := `
		SELECT id_reajuste, fecha_reajuste, tipo_reajuste, referencia_documento,
		       observaciones, id_usuario
		FROM reajustes` + where +
		fmt.Sprintf(` ORDER BY fecha_reajuste DESC, id_reajuste DESC LIMIT %d OFFSET %d`, f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reajustes: %w", err)
	}
	defer rows.Close()

	var out []*entity.Reajuste
	for rows.Next() {
		var rj entity.Reajuste
		if err := rows.Scan(
			&rj.IDReajuste, &rj.FechaReajuste, &rj.TipoReajuste, &rj.ReferenciaDocumento,
			&rj.Observaciones, &rj.IDUsuario,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reajuste: %w", err)
		}
		out = append(out, &rj)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, rj := range out {
		if err := r.cargarDetalles(ctx, rj); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

// DeleteDetallesByReajuste elimina las líneas del reajuste.
func (r *ReajusteRepo) DeleteDetallesByReajuste(ctx context.Context, idReajuste int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM reajuste_detalle WHERE id_reajuste = $1`, idReajuste); err != nil {
		return fmt.Errorf("delete detalles de reajuste: %w", err)
	}
	return nil
}

// Delete elimina la cabecera.
func (r *ReajusteRepo) Delete(ctx context.Context, idReajuste int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM reajustes WHERE id_reajuste = $1`, idReajuste); err != nil {
		return fmt.Errorf("delete reajuste: %w", err)
	}
	return nil
}

// CountDetallesByInventario cuenta líneas de reajuste que referencian el lote.
func (r *ReajusteRepo) CountDetallesByInventario(ctx context.Context, idInventario int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM reajuste_detalle WHERE id_inventario = $1`, idInventario).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count detalles de reajuste: %w", err)
	}
	return n, nil
}

// CountDetallesByInventarios cuenta líneas de reajuste que referencian
// cualquiera de los lotes dados.
func (r *ReajusteRepo) CountDetallesByInventarios(ctx context.Context, idsInventario []int64) (int64, error) {
	if len(idsInventario) == 0 {
		return 0, nil
	}
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM reajuste_detalle WHERE id_inventario = ANY($1)`, idsInventario).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count detalles de reajuste: %w", err)
	}
	return n, nil
}
