package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

var _ repository.DespachoRepository = (*DespachoRepo)(nil)

// DespachoRepo implementación de DespachoRepository sobre PostgreSQL (usable con pool o tx).
type DespachoRepo struct {
	q Querier
}

// NewDespachoRepository construye el adaptador de despachos. Pasar pool o tx (Querier).
func NewDespachoRepository(q Querier) *DespachoRepo {
	return &DespachoRepo{q: q}
}

// Create inserta la cabecera y asigna el id generado. El código legible se
// fija después con UpdateTotales, cuando ya se conoce el id.
func (r *DespachoRepo) Create(ctx context.Context, d *entity.Despacho) error {
	query := `
		INSERT INTO despachos (
			codigo_despacho, id_servicio, id_usuario, fecha_despacho,
			observaciones, total_cantidad, total_general
		) VALUES ('', $1, $2, $3, $4, 0, 0)
		RETURNING id_despacho`
	err := r.q.QueryRow(ctx, query,
		d.IDServicio, d.IDUsuario, d.FechaDespacho, d.Observaciones,
	).Scan(&d.IDDespacho)
	if err != nil {
		return fmt.Errorf("create despacho: %w", err)
	}
	return nil
}

// CreateDetalle inserta un fragmento y asigna el id generado.
func (r *DespachoRepo) CreateDetalle(ctx context.Context, d *entity.DespachoDetalle) error {
	query := `
		INSERT INTO despacho_detalle (
			id_despacho, id_inventario, id_catalogo_insumos, id_ingreso_compras,
			codigo_insumo, nombre_insumo, caracteristicas, codigo_presentacion,
			presentacion, unidad_medida, lote, fecha_vencimiento, cantidad,
			precio_unitario, precio_total
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id_despacho_detalle`
	err := r.q.QueryRow(ctx, query,
		d.IDDespacho, d.IDInventario, d.IDCatalogoInsumos, d.IDIngresoCompras,
		d.CodigoInsumo, d.NombreInsumo, d.Caracteristicas, d.CodigoPresentacion,
		d.Presentacion, d.UnidadMedida, d.Lote, d.FechaVencimiento, d.Cantidad,
		d.PrecioUnitario, d.PrecioTotal,
	).Scan(&d.IDDespachoDetalle)
	if err != nil {
		return fmt.Errorf("create detalle de despacho: %w", err)
	}
	return nil
}

// UpdateTotales fija código y totales de la cabecera al cierre del despacho.
func (r *DespachoRepo) UpdateTotales(ctx context.Context, idDespacho int64, codigo string, totalCantidad int64, totalGeneral decimal.Decimal) error {
	query := `
		UPDATE despachos SET codigo_despacho = $2, total_cantidad = $3, total_general = $4
		WHERE id_despacho = $1`
	tag, err := r.q.Exec(ctx, query, idDespacho, codigo, totalCantidad, totalGeneral)
	if err != nil {
		return fmt.Errorf("update totales de despacho: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update despacho %d: fila no encontrada", idDespacho)
	}
	return nil
}

// GetByID carga la cabecera con sus fragmentos; nil si no existe.
func (r *DespachoRepo) GetByID(ctx context.Context, id int64) (*entity.Despacho, error) {
	query := `
		SELECT id_despacho, codigo_despacho, id_servicio, id_usuario,
		       fecha_despacho, observaciones, total_cantidad, total_general
		FROM despachos WHERE id_despacho = $1`
	var d entity.Despacho
	err := r.q.QueryRow(ctx, query, id).Scan(
		&d.IDDespacho, &d.CodigoDespacho, &d.IDServicio, &d.IDUsuario,
		&d.FechaDespacho, &d.Observaciones, &d.TotalCantidad, &d.TotalGeneral,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get despacho: %w", err)
	}
	if err := r.cargarDetalles(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DespachoRepo) cargarDetalles(ctx context.Context, d *entity.Despacho) error {
	query := `
		SELECT id_despacho_detalle, id_despacho, id_inventario, id_catalogo_insumos,
		       id_ingreso_compras, codigo_insumo, nombre_insumo, caracteristicas,
		       codigo_presentacion, presentacion, unidad_medida, lote,
		       fecha_vencimiento, cantidad, precio_unitario, precio_total
		FROM despacho_detalle
		WHERE id_despacho = $1
		ORDER BY id_despacho_detalle`
	rows, err := r.q.Query(ctx, query, d.IDDespacho)
	if err != nil {
		return fmt.Errorf("detalles de despacho: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var det entity.DespachoDetalle
		if err := rows.Scan(
			&det.IDDespachoDetalle, &det.IDDespacho, &det.IDInventario, &det.IDCatalogoInsumos,
			&det.IDIngresoCompras, &det.CodigoInsumo, &det.NombreInsumo, &det.Caracteristicas,
			&det.CodigoPresentacion, &det.Presentacion, &det.UnidadMedida, &det.Lote,
			&det.FechaVencimiento, &det.Cantidad, &det.PrecioUnitario, &det.PrecioTotal,
		); err != nil {
			return fmt.Errorf("scan detalle de despacho: %w", err)
		}
		d.Detalles = append(d.Detalles, &det)
	}
	return rows.Err()
}

// List lista despachos (con fragmentos) según filtros; devuelve también el
// total sin paginar.
func (r *DespachoRepo) List(ctx context.Context, f repository.FiltroDespachos) ([]*entity.Despacho, int64, error) {
	var cond []string
	var args []any

	add := func(c string, v any) {
		args = append(args, v)
		cond = append(cond, fmt.Sprintf(c, len(args)))
	}

	if f.Codigo != nil && *f.Codigo != "" {
		add(`codigo_despacho ILIKE '%%' || $%d || '%%'`, *f.Codigo)
	}
	if f.IDServicio != nil {
		add(`id_servicio = $%d`, *f.IDServicio)
	}
	if f.IDUsuario != nil {
		add(`id_usuario = $%d`, *f.IDUsuario)
	}
	if f.Desde != nil {
		add(`fecha_despacho >= $%d`, *f.Desde)
	}
	if f.Hasta != nil {
		add(`fecha_despacho <= $%d`, *f.Hasta)
	}

	where := ""
	if len(cond) > 0 {
		where = ` WHERE ` + strings.Join(cond, ` AND `)
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM despachos`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count despachos: %w", err)
	}

	query := `
		SELECT id_despacho, codigo_despacho, id_servicio, id_usuario,
		       fecha_despacho, observaciones, total_cantidad, total_general
		FROM despachos` + where +
		fmt.Sprintf(` ORDER BY fecha_despacho DESC, id_despacho DESC LIMIT %d OFFSET %d`, f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list despachos: %w", err)
	}
	defer rows.Close()

	var out []*entity.Despacho
	for rows.Next() {
		var d entity.Despacho
		if err := rows.Scan(
			&d.IDDespacho, &d.CodigoDespacho, &d.IDServicio, &d.IDUsuario,
			&d.FechaDespacho, &d.Observaciones, &d.TotalCantidad, &d.TotalGeneral,
		); err != nil {
			return nil, 0, fmt.Errorf("scan despacho: %w", err)
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, d := range out {
		if err := r.cargarDetalles(ctx, d); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

// CountDetallesByInventarios cuenta fragmentos que consumen cualquiera de los
// lotes dados.
func (r *DespachoRepo) CountDetallesByInventarios(ctx context.Context, idsInventario []int64) (int64, error) {
	if len(idsInventario) == 0 {
		return 0, nil
	}
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM despacho_detalle WHERE id_inventario = ANY($1)`, idsInventario).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count detalles de despacho: %w", err)
	}
	return n, nil
}
