package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jcastellanos/bodega-api/internal/domain"
	"github.com/jcastellanos/bodega-api/internal/domain/entity"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

var _ repository.CompraRepository = (*CompraRepo)(nil)

// CompraRepo implementación de CompraRepository sobre PostgreSQL (usable con pool o tx).
type CompraRepo struct {
	q Querier
}

// NewCompraRepository construye el adaptador de compras. Pasar pool o tx (Querier).
func NewCompraRepository(q Querier) *CompraRepo {
	return &CompraRepo{q: q}
}

// CreateIngreso inserta la cabecera y asigna el id generado. El número y
// serie de factura son únicos por proveedor.
func (r *CompraRepo) CreateIngreso(ctx context.Context, c *entity.IngresoCompras) error {
	query := `
		INSERT INTO ingreso_compras (
			numero_factura, serie_factura, tipo_compra, fecha_ingreso, proveedor,
			orden_compra, programa, numero_1h, no_kardex
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id_ingreso_compras`
	err := r.q.QueryRow(ctx, query,
		c.NumeroFactura, c.SerieFactura, c.TipoCompra, c.FechaIngreso, c.Proveedor,
		c.OrdenCompra, c.Programa, c.Numero1H, c.NoKardex,
	).Scan(&c.IDIngresoCompras)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictoError{Motivo: fmt.Sprintf("la factura %s-%s del proveedor ya fue ingresada", c.SerieFactura, c.NumeroFactura)}
		}
		return fmt.Errorf("create ingreso: %w", err)
	}
	return nil
}

// CreateDetalle inserta una línea y asigna el id generado.
func (r *CompraRepo) CreateDetalle(ctx context.Context, d *entity.IngresoComprasDetalle) error {
	query := `
		INSERT INTO ingreso_compras_detalle (
			id_ingreso_compras, id_catalogo_insumos, renglon, codigo_insumo,
			nombre_insumo, caracteristicas, codigo_presentacion, presentacion,
			cantidad_total, precio_unitario, precio_total_factura, observaciones
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id_ingreso_compras_detalle`
	err := r.q.QueryRow(ctx, query,
		d.IDIngresoCompras, d.IDCatalogoInsumos, d.Renglon, d.CodigoInsumo,
		d.NombreInsumo, d.Caracteristicas, d.CodigoPresentacion, d.Presentacion,
		d.CantidadTotal, d.PrecioUnitario, d.PrecioTotalFactura, d.Observaciones,
	).Scan(&d.IDIngresoComprasDetalle)
	if err != nil {
		return fmt.Errorf("create detalle de compra: %w", err)
	}
	return nil
}

// CreateLote inserta un lote declarado y asigna el id generado.
func (r *CompraRepo) CreateLote(ctx context.Context, l *entity.IngresoComprasLote) error {
	query := `
		INSERT INTO ingreso_compras_lotes (
			id_ingreso_compras_detalle, cantidad, lote, fecha_vencimiento,
			carta_compromiso, meses_devolucion, observaciones_devolucion
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id_ingreso_compras_lotes`
	err := r.q.QueryRow(ctx, query,
		l.IDIngresoComprasDetalle, l.Cantidad, l.Lote, l.FechaVencimiento,
		l.CartaCompromiso, l.MesesDevolucion, l.ObservacionesDevolucion,
	).Scan(&l.IDIngresoComprasLotes)
	if err != nil {
		return fmt.Errorf("create lote de compra: %w", err)
	}
	return nil
}

// GetByID carga la cabecera con detalles y lotes; nil si no existe.
func (r *CompraRepo) GetByID(ctx context.Context, id int64) (*entity.IngresoCompras, error) {
	query := `
		SELECT id_ingreso_compras, numero_factura, serie_factura, tipo_compra,
		       fecha_ingreso, proveedor, orden_compra, programa, numero_1h, no_kardex
		FROM ingreso_compras WHERE id_ingreso_compras = $1`
	var c entity.IngresoCompras
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.IDIngresoCompras, &c.NumeroFactura, &c.SerieFactura, &c.TipoCompra,
		&c.FechaIngreso, &c.Proveedor, &c.OrdenCompra, &c.Programa, &c.Numero1H, &c.NoKardex,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get compra: %w", err)
	}
	if err := r.cargarDetalles(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompraRepo) cargarDetalles(ctx context.Context, c *entity.IngresoCompras) error {
	query := `
		SELECT id_ingreso_compras_detalle, id_ingreso_compras, id_catalogo_insumos,
		       renglon, codigo_insumo, nombre_insumo, caracteristicas,
		       codigo_presentacion, presentacion, cantidad_total, precio_unitario,
		       precio_total_factura, observaciones
		FROM ingreso_compras_detalle
		WHERE id_ingreso_compras = $1
		ORDER BY id_ingreso_compras_detalle`
	rows, err := r.q.Query(ctx, query, c.IDIngresoCompras)
	if err != nil {
		return fmt.Errorf("detalles de compra: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.IngresoComprasDetalle
		if err := rows.Scan(
			&d.IDIngresoComprasDetalle, &d.IDIngresoCompras, &d.IDCatalogoInsumos,
			&d.Renglon, &d.CodigoInsumo, &d.NombreInsumo, &d.Caracteristicas,
			&d.CodigoPresentacion, &d.Presentacion, &d.CantidadTotal, &d.PrecioUnitario,
			&d.PrecioTotalFactura, &d.Observaciones,
		); err != nil {
			return fmt.Errorf("scan detalle de compra: %w", err)
		}
		c.Detalles = append(c.Detalles, &d)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, d := range c.Detalles {
		if err := r.cargarLotes(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *CompraRepo) cargarLotes(ctx context.Context, d *entity.IngresoComprasDetalle) error {
	query := `
		SELECT id_ingreso_compras_lotes, id_ingreso_compras_detalle, cantidad, lote,
		       fecha_vencimiento, carta_compromiso, meses_devolucion, observaciones_devolucion
		FROM ingreso_compras_lotes
		WHERE id_ingreso_compras_detalle = $1
		ORDER BY id_ingreso_compras_lotes`
	rows, err := r.q.Query(ctx, query, d.IDIngresoComprasDetalle)
	if err != nil {
		return fmt.Errorf("lotes de compra: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.IngresoComprasLote
		if err := rows.Scan(
			&l.IDIngresoComprasLotes, &l.IDIngresoComprasDetalle, &l.Cantidad, &l.Lote,
			&l.FechaVencimiento, &l.CartaCompromiso, &l.MesesDevolucion, &l.ObservacionesDevolucion,
		); err != nil {
			return fmt.Errorf("scan lote de compra: %w", err)
		}
		d.Lotes = append(d.Lotes, &l)
	}
	return rows.Err()
}

// List lista cabeceras (con detalles) según filtros; devuelve también el
// total sin paginar.
func (r *CompraRepo) List(ctx context.Context, f repository.FiltroCompras) ([]*entity.IngresoCompras, int64, error) {
	var cond []string
	var args []any

	add := func(c string, v any) {
		args = append(args, v)
		cond = append(cond, fmt.Sprintf(c, len(args)))
	}

	if f.Proveedor != nil && *f.Proveedor != "" {
		add(`proveedor ILIKE '%%' || $%d || '%%'`, *f.Proveedor)
	}
	if f.Desde != nil {
		add(`fecha_ingreso >= $%d`, *f.Desde)
	}
	if f.Hasta != nil {
		add(`fecha_ingreso <= $%d`, *f.Hasta)
	}

	where := ""
	if len(cond) > 0 {
		where = ` WHERE ` + strings.Join(cond, ` AND `)
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM ingreso_compras`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count compras: %w", err)
	}

	query := `
		SELECT id_ingreso_compras, numero_factura, serie_factura, tipo_compra,
		       fecha_ingreso, proveedor, orden_compra, programa, numero_1h, no_kardex
		FROM ingreso_compras` + where +
		fmt.Sprintf(` ORDER BY fecha_ingreso DESC, id_ingreso_compras DESC LIMIT %d OFFSET %d`, f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list compras: %w", err)
	}
	defer rows.Close()

	var out []*entity.IngresoCompras
	for rows.Next() {
		var c entity.IngresoCompras
		if err := rows.Scan(
			&c.IDIngresoCompras, &c.NumeroFactura, &c.SerieFactura, &c.TipoCompra,
			&c.FechaIngreso, &c.Proveedor, &c.OrdenCompra, &c.Programa, &c.Numero1H, &c.NoKardex,
		); err != nil {
			return nil, 0, fmt.Errorf("scan compra: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, c := range out {
		if err := r.cargarDetalles(ctx, c); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

// UpdateCabecera persiste los metadatos de la cabecera.
func (r *CompraRepo) UpdateCabecera(ctx context.Context, c *entity.IngresoCompras) error {
	query := `
		UPDATE ingreso_compras SET
			numero_factura = $2, serie_factura = $3, tipo_compra = $4,
			fecha_ingreso = $5, proveedor = $6, orden_compra = $7,
			programa = $8, numero_1h = $9, no_kardex = $10
		WHERE id_ingreso_compras = $1`
	tag, err := r.q.Exec(ctx, query,
		c.IDIngresoCompras, c.NumeroFactura, c.SerieFactura, c.TipoCompra,
		c.FechaIngreso, c.Proveedor, c.OrdenCompra, c.Programa, c.Numero1H, c.NoKardex,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictoError{Motivo: fmt.Sprintf("la factura %s-%s del proveedor ya fue ingresada", c.SerieFactura, c.NumeroFactura)}
		}
		return fmt.Errorf("update compra: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update compra %d: fila no encontrada", c.IDIngresoCompras)
	}
	return nil
}

// DeleteLotesByCompra elimina los lotes declarados de todas las líneas del ingreso.
func (r *CompraRepo) DeleteLotesByCompra(ctx context.Context, idIngresoCompras int64) error {
	query := `
		DELETE FROM ingreso_compras_lotes
		WHERE id_ingreso_compras_detalle IN (
			SELECT id_ingreso_compras_detalle FROM ingreso_compras_detalle
			WHERE id_ingreso_compras = $1)`
	if _, err := r.q.Exec(ctx, query, idIngresoCompras); err != nil {
		return fmt.Errorf("delete lotes de compra: %w", err)
	}
	return nil
}

// DeleteDetallesByCompra elimina las líneas del ingreso.
func (r *CompraRepo) DeleteDetallesByCompra(ctx context.Context, idIngresoCompras int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM ingreso_compras_detalle WHERE id_ingreso_compras = $1`, idIngresoCompras); err != nil {
		return fmt.Errorf("delete detalles de compra: %w", err)
	}
	return nil
}

// DeleteIngreso elimina la cabecera.
func (r *CompraRepo) DeleteIngreso(ctx context.Context, idIngresoCompras int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM ingreso_compras WHERE id_ingreso_compras = $1`, idIngresoCompras); err != nil {
		return fmt.Errorf("delete ingreso: %w", err)
	}
	return nil
}
