package compras

import (
	"context"

	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que un ingreso (cabecera, detalles,
// lotes, inventario e historial) o una anulación se apliquen completos o no se
// apliquen.
type TxRunner interface {
	RunCompra(ctx context.Context, fn func(
		compraRepo repository.CompraRepository,
		invRepo repository.InventarioRepository,
		histRepo repository.HistorialRepository,
		despachoRepo repository.DespachoRepository,
		reajusteRepo repository.ReajusteRepository,
	) error) error
}
