package inventario

import (
	"context"
	"time"

	"github.com/jcastellanos/bodega-api/internal/application/dto"
	"github.com/jcastellanos/bodega-api/internal/domain"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

// DiasAlertaVencimiento ventana de la alerta de vencimiento.
const DiasAlertaVencimiento = 30

// UseCase consultas de solo lectura sobre el inventario y su historial. Las
// cantidades solo cambian a través de compras, despachos y reajustes.
type UseCase struct {
	invRepo  repository.InventarioRepository
	histRepo repository.HistorialRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(invRepo repository.InventarioRepository, histRepo repository.HistorialRepository) *UseCase {
	return &UseCase{invRepo: invRepo, histRepo: histRepo}
}

// List lista lotes según filtros.
func (uc *UseCase) List(ctx context.Context, in dto.ListarInventarioRequest) ([]dto.InventarioResponse, error) {
	lotes, err := uc.invRepo.List(ctx, repository.FiltroInventario{
		Buscar:                in.Buscar,
		CodigoInsumo:          in.CodigoInsumo,
		Lote:                  in.Lote,
		CodigoPresentacion:    in.CodigoPresentacion,
		FechaVencimientoDesde: in.VencimientoDesde,
		FechaVencimientoHasta: in.VencimientoHasta,
		ProximosVencer:        in.ProximosVencer,
		StockBajo:             in.StockBajo,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventarioResponse, 0, len(lotes))
	for _, l := range lotes {
		out = append(out, dto.NewInventarioResponse(l))
	}
	return out, nil
}

// FindOne devuelve un lote por id.
func (uc *UseCase) FindOne(ctx context.Context, id int64) (*dto.InventarioResponse, error) {
	lote, err := uc.invRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lote == nil {
		return nil, domain.ErrNoEncontrado
	}
	resp := dto.NewInventarioResponse(lote)
	return &resp, nil
}

// Existencias lista los lotes con cantidad disponible mayor que cero, en
// orden de vencimiento.
func (uc *UseCase) Existencias(ctx context.Context, in dto.DisponibilidadRequest) ([]dto.InventarioResponse, error) {
	lotes, err := uc.invRepo.Disponibilidad(ctx, repository.FiltroDisponibilidad{
		CodigoInsumo:       in.CodigoInsumo,
		Lote:               in.Lote,
		CodigoPresentacion: in.CodigoPresentacion,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventarioResponse, 0, len(lotes))
	for _, l := range lotes {
		out = append(out, dto.NewInventarioResponse(l))
	}
	return out, nil
}

// Historial consulta el libro de movimientos con filtros y paginación.
func (uc *UseCase) Historial(ctx context.Context, in dto.HistorialRequest) ([]dto.MovimientoResponse, int64, error) {
	in.DefaultPage()
	movimientos, total, err := uc.histRepo.List(ctx, repository.FiltroHistorial{
		IDInventario:   in.IDInventario,
		CodigoInsumo:   in.CodigoInsumo,
		Lote:           in.Lote,
		TipoMovimiento: in.TipoMovimiento,
		Modulo:         in.Modulo,
		FechaDesde:     in.FechaInicio,
		FechaHasta:     in.FechaFin,
		Limit:          in.Limit,
		Offset:         in.Offset,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.MovimientoResponse, 0, len(movimientos))
	for _, m := range movimientos {
		out = append(out, dto.NewMovimientoResponse(m))
	}
	return out, total, nil
}

// MovimientosRecientes devuelve los últimos movimientos registrados.
func (uc *UseCase) MovimientosRecientes(ctx context.Context, limit int) ([]dto.MovimientoResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	movimientos, err := uc.histRepo.Recientes(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoResponse, 0, len(movimientos))
	for _, m := range movimientos {
		out = append(out, dto.NewMovimientoResponse(m))
	}
	return out, nil
}

// Resumen agregados para el tablero.
func (uc *UseCase) Resumen(ctx context.Context) (*dto.ResumenInventarioResponse, error) {
	r, err := uc.invRepo.Resumen(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ResumenInventarioResponse{
		TotalItems:          r.TotalItems,
		ValorTotal:          r.ValorTotal,
		ItemsProximosVencer: r.ItemsProximosVencer,
		ItemsStockBajo:      r.ItemsStockBajo,
		TotalLotes:          r.TotalLotes,
	}, nil
}

// AlertasVencimiento lista lotes con existencia cuyo vencimiento cae dentro
// de la ventana de alerta, incluidos los ya vencidos.
func (uc *UseCase) AlertasVencimiento(ctx context.Context) ([]dto.AlertaVencimientoResponse, error) {
	hoy := time.Now()
	limite := hoy.AddDate(0, 0, DiasAlertaVencimiento)
	lotes, err := uc.invRepo.List(ctx, repository.FiltroInventario{
		FechaVencimientoHasta: &limite,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertaVencimientoResponse, 0, len(lotes))
	for _, l := range lotes {
		if l.CantidadDisponible <= 0 || l.FechaVencimiento == nil {
			continue
		}
		dias := int(l.FechaVencimiento.Sub(hoy).Hours() / 24)
		out = append(out, dto.AlertaVencimientoResponse{
			InventarioResponse: dto.NewInventarioResponse(l),
			DiasParaVencer:     dias,
			Vencido:            l.FechaVencimiento.Before(hoy),
		})
	}
	return out, nil
}
