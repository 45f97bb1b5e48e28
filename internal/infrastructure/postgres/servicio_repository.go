package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

var _ repository.ServicioRepository = (*ServicioRepo)(nil)

// ServicioRepo implementación de ServicioRepository sobre PostgreSQL (usable con pool o tx).
type ServicioRepo struct {
	q Querier
}

// NewServicioRepository construye el adaptador de servicios. Pasar pool o tx (Querier).
func NewServicioRepository(q Querier) *ServicioRepo {
	return &ServicioRepo{q: q}
}

// GetByID obtiene un servicio por id; nil si no existe.
func (r *ServicioRepo) GetByID(ctx context.Context, id int64) (*entity.Servicio, error) {
	var s entity.Servicio
	err := r.q.QueryRow(ctx, `SELECT id_servicio, nombre, activo FROM servicios WHERE id_servicio = $1`, id).
		Scan(&s.IDServicio, &s.Nombre, &s.Activo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get servicio: %w", err)
	}
	return &s, nil
}

// List lista los servicios activos.
func (r *ServicioRepo) List(ctx context.Context) ([]*entity.Servicio, error) {
	rows, err := r.q.Query(ctx, `SELECT id_servicio, nombre, activo FROM servicios WHERE activo ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list servicios: %w", err)
	}
	defer rows.Close()

	var out []*entity.Servicio
	for rows.Next() {
		var s entity.Servicio
		if err := rows.Scan(&s.IDServicio, &s.Nombre, &s.Activo); err != nil {
			return nil, fmt.Errorf("scan servicio: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
