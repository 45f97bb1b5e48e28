package despachos

import (
	"context"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. El despacho consume lotes con bloqueo de fila
// (SELECT FOR UPDATE) y hace Commit solo si todas las líneas se cubrieron.
type TxRunner interface {
	RunDespacho(ctx context.Context, fn func(
		despachoRepo repository.DespachoRepository,
		invRepo repository.InventarioRepository,
		histRepo repository.HistorialRepository,
	) error) error
}

// ConstanciaGenerator produce el PDF de constancia de un despacho.
type ConstanciaGenerator interface {
	Generar(d *entity.Despacho, servicio *entity.Servicio) ([]byte, error)
}
