package reajustes

import (
	"context"

	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Tanto aplicar como revertir un reajuste
// mutan lotes, historial y el propio reajuste en una sola transacción.
type TxRunner interface {
	RunReajuste(ctx context.Context, fn func(
		reajusteRepo repository.ReajusteRepository,
		invRepo repository.InventarioRepository,
		histRepo repository.HistorialRepository,
		despachoRepo repository.DespachoRepository,
	) error) error
}
