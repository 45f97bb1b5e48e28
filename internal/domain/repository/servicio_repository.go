package repository

import (
	"context"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
)

// ServicioRepository puerto de consulta de servicios destino de despachos.
type ServicioRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Servicio, error)
	List(ctx context.Context) ([]*entity.Servicio, error)
}
