package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

var _ repository.CatalogoRepository = (*CatalogoRepo)(nil)

const columnasCatalogo = `
	id_catalogo_insumos, renglon, codigo_insumo, nombre_insumo, caracteristicas,
	codigo_presentacion, nombre_presentacion, unidad_medida`

// CatalogoRepo implementación de CatalogoRepository sobre PostgreSQL (usable con pool o tx).
type CatalogoRepo struct {
	q Querier
}

// NewCatalogoRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewCatalogoRepository(q Querier) *CatalogoRepo {
	return &CatalogoRepo{q: q}
}

func scanCatalogo(row pgx.Row) (*entity.CatalogoInsumos, error) {
	var c entity.CatalogoInsumos
	err := row.Scan(
		&c.IDCatalogoInsumos, &c.Renglon, &c.CodigoInsumo, &c.NombreInsumo,
		&c.Caracteristicas, &c.CodigoPresentacion, &c.NombrePresentacion, &c.UnidadMedida,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID obtiene una entrada por id; nil si no existe.
func (r *CatalogoRepo) GetByID(ctx context.Context, id int64) (*entity.CatalogoInsumos, error) {
	query := `SELECT` + columnasCatalogo + ` FROM catalogo_insumos WHERE id_catalogo_insumos = $1`
	c, err := scanCatalogo(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalogo: %w", err)
	}
	return c, nil
}

// FindByCodigo obtiene la entrada con el código de insumo dado; nil si no
// existe. Con varias presentaciones del mismo insumo devuelve la de menor
// código de presentación.
func (r *CatalogoRepo) FindByCodigo(ctx context.Context, codigoInsumo int64) (*entity.CatalogoInsumos, error) {
	query := `SELECT` + columnasCatalogo + `
		FROM catalogo_insumos
		WHERE codigo_insumo = $1
		ORDER BY codigo_presentacion
		LIMIT 1`
	c, err := scanCatalogo(r.q.QueryRow(ctx, query, codigoInsumo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find catalogo por codigo: %w", err)
	}
	return c, nil
}

// Buscar busca por término contra nombre, características o código, opcionalmente
// restringido a un conjunto de renglones.
func (r *CatalogoRepo) Buscar(ctx context.Context, f repository.FiltroCatalogo) ([]*entity.CatalogoInsumos, error) {
	query := `SELECT` + columnasCatalogo + `
		FROM catalogo_insumos
		WHERE (nombre_insumo ILIKE '%' || $1 || '%'
		   OR caracteristicas ILIKE '%' || $1 || '%'
		   OR codigo_insumo::text = $1)
		  AND (cardinality($2::int[]) = 0 OR renglon = ANY($2))
		ORDER BY nombre_insumo, codigo_presentacion
		LIMIT $3`
	renglones := f.Renglones
	if renglones == nil {
		renglones = []int{}
	}
	rows, err := r.q.Query(ctx, query, f.Termino, renglones, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("buscar catalogo: %w", err)
	}
	defer rows.Close()

	var out []*entity.CatalogoInsumos
	for rows.Next() {
		c, err := scanCatalogo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalogo: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Upsert inserta o actualiza por (codigo_insumo, codigo_presentacion).
func (r *CatalogoRepo) Upsert(ctx context.Context, c *entity.CatalogoInsumos) error {
	query := `
		INSERT INTO catalogo_insumos (
			renglon, codigo_insumo, nombre_insumo, caracteristicas,
			codigo_presentacion, nombre_presentacion, unidad_medida
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (codigo_insumo, codigo_presentacion)
		DO UPDATE SET renglon = EXCLUDED.renglon,
			nombre_insumo = EXCLUDED.nombre_insumo,
			caracteristicas = EXCLUDED.caracteristicas,
			nombre_presentacion = EXCLUDED.nombre_presentacion,
			unidad_medida = EXCLUDED.unidad_medida
		RETURNING id_catalogo_insumos`
	err := r.q.QueryRow(ctx, query,
		c.Renglon, c.CodigoInsumo, c.NombreInsumo, c.Caracteristicas,
		c.CodigoPresentacion, c.NombrePresentacion, c.UnidadMedida,
	).Scan(&c.IDCatalogoInsumos)
	if err != nil {
		return fmt.Errorf("upsert catalogo: %w", err)
	}
	return nil
}
