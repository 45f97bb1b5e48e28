package compras

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastellanos/bodega-api/internal/application/dto"
	"github.com/jcastellanos/bodega-api/internal/domain"
	"github.com/jcastellanos/bodega-api/internal/domain/entity"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

// UseCase registra ingresos de compras de forma transaccional: cabecera,
// detalles, lotes, filas de inventario y movimientos ENTRADA nacen juntos o
// no nacen. También anula ingresos no consumidos.
type UseCase struct {
	txRunner     TxRunner
	compraRepo   repository.CompraRepository
	catalogoRepo repository.CatalogoRepository
	usuarioRepo  repository.UsuarioRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	compraRepo repository.CompraRepository,
	catalogoRepo repository.CatalogoRepository,
	usuarioRepo repository.UsuarioRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		compraRepo:   compraRepo,
		catalogoRepo: catalogoRepo,
		usuarioRepo:  usuarioRepo,
	}
}

// Crear valida la solicitud (sumas de lotes, catálogo, renglones autorizados)
// y dentro de una transacción crea la cabecera, las líneas, los lotes, una
// fila de inventario por lote y un movimiento ENTRADA por fila creada.
func (uc *UseCase) Crear(ctx context.Context, idUsuario int64, in dto.CrearCompraRequest) (*dto.CrearCompraResponse, error) {
	if len(in.Detalles) == 0 {
		return nil, &domain.ValidacionError{Motivo: "la compra requiere al menos un detalle"}
	}

	permitidos, err := uc.usuarioRepo.RenglonesPermitidos(ctx, idUsuario)
	if err != nil {
		return nil, err
	}

	// Resuelve el catálogo y valida cada línea antes de abrir la transacción.
	catalogos := make([]*entity.CatalogoInsumos, len(in.Detalles))
	for i, d := range in.Detalles {
		if d.PrecioUnitario.IsNegative() {
			return nil, &domain.ValidacionError{Motivo: "el precio unitario no puede ser negativo", Detalle: i + 1}
		}
		var suma int64
		for _, l := range d.Lotes {
			if l.Cantidad <= 0 {
				return nil, &domain.ValidacionError{Motivo: "la cantidad del lote debe ser mayor que cero", Detalle: i + 1}
			}
			suma += l.Cantidad
		}
		if suma != d.CantidadTotal {
			return nil, &domain.ValidacionError{
				Motivo:  fmt.Sprintf("la suma de lotes (%d) no coincide con la cantidad total (%d)", suma, d.CantidadTotal),
				Detalle: i + 1,
			}
		}
		cat, err := uc.catalogoRepo.GetByID(ctx, d.IDCatalogoInsumos)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, &domain.ValidacionError{Motivo: fmt.Sprintf("insumo %d no existe en el catálogo", d.IDCatalogoInsumos), Detalle: i + 1}
		}
		if !domain.RenglonPermitido(permitidos, cat.Renglon) {
			return nil, fmt.Errorf("renglón %d no autorizado para el usuario: %w", cat.Renglon, domain.ErrNoAutorizado)
		}
		catalogos[i] = cat
	}

	now := time.Now()
	var resp dto.CrearCompraResponse

	err = uc.txRunner.RunCompra(ctx, func(
		compraRepo repository.CompraRepository,
		invRepo repository.InventarioRepository,
		histRepo repository.HistorialRepository,
		_ repository.DespachoRepository,
		_ repository.ReajusteRepository,
	) error {
		cabecera := &entity.IngresoCompras{
			NumeroFactura: in.NumeroFactura,
			SerieFactura:  in.SerieFactura,
			TipoCompra:    in.TipoCompra,
			FechaIngreso:  in.FechaIngreso,
			Proveedor:     in.Proveedor,
			OrdenCompra:   in.OrdenCompra,
			Programa:      in.Programa,
			Numero1H:      in.Numero1H,
			NoKardex:      in.NoKardex,
		}
		if err := compraRepo.CreateIngreso(ctx, cabecera); err != nil {
			return err
		}

		total := decimal.Zero
		for i, d := range in.Detalles {
			cat := catalogos[i]
			detalle := &entity.IngresoComprasDetalle{
				IDIngresoCompras:   cabecera.IDIngresoCompras,
				IDCatalogoInsumos:  cat.IDCatalogoInsumos,
				Renglon:            cat.Renglon,
				CodigoInsumo:       cat.CodigoInsumo,
				NombreInsumo:       cat.NombreInsumo,
				Caracteristicas:    cat.Caracteristicas,
				CodigoPresentacion: cat.CodigoPresentacion,
				Presentacion:       cat.NombrePresentacion,
				CantidadTotal:      d.CantidadTotal,
				PrecioUnitario:     d.PrecioUnitario,
				PrecioTotalFactura: d.PrecioUnitario.Mul(decimal.NewFromInt(d.CantidadTotal)),
				Observaciones:      d.Observaciones,
			}
			if err := compraRepo.CreateDetalle(ctx, detalle); err != nil {
				return err
			}
			total = total.Add(detalle.PrecioTotalFactura)

			for _, l := range d.Lotes {
				lote := &entity.IngresoComprasLote{
					IDIngresoComprasDetalle: detalle.IDIngresoComprasDetalle,
					Cantidad:                l.Cantidad,
					Lote:                    l.Lote,
					FechaVencimiento:        l.FechaVencimiento,
					CartaCompromiso:         l.CartaCompromiso,
					MesesDevolucion:         l.MesesDevolucion,
					ObservacionesDevolucion: l.ObservacionesDevolucion,
				}
				if err := compraRepo.CreateLote(ctx, lote); err != nil {
					return err
				}

				inv := &entity.Inventario{
					IDIngresoCompras:        &cabecera.IDIngresoCompras,
					IDIngresoComprasLotes:   &lote.IDIngresoComprasLotes,
					IDCatalogoInsumos:       &cat.IDCatalogoInsumos,
					Renglon:                 cat.Renglon,
					CodigoInsumo:            cat.CodigoInsumo,
					NombreInsumo:            cat.NombreInsumo,
					Caracteristicas:         cat.Caracteristicas,
					CodigoPresentacion:      cat.CodigoPresentacion,
					Presentacion:            cat.NombrePresentacion,
					UnidadMedida:            cat.UnidadMedida,
					Lote:                    l.Lote,
					FechaVencimiento:        l.FechaVencimiento,
					CartaCompromiso:         l.CartaCompromiso,
					MesesDevolucion:         l.MesesDevolucion,
					ObservacionesDevolucion: l.ObservacionesDevolucion,
					CantidadDisponible:      l.Cantidad,
					PrecioUnitario:          d.PrecioUnitario,
					NoKardex:                in.NoKardex,
					CreadoEn:                now,
				}
				inv.RecalcularPrecioTotal()
				if err := invRepo.Create(ctx, inv); err != nil {
					return err
				}

				mov := &entity.HistorialInventario{
					IDInventario:      inv.IDInventario,
					IDCatalogoInsumos: &cat.IDCatalogoInsumos,
					IDIngresoCompras:  &cabecera.IDIngresoCompras,
					Cantidad:          l.Cantidad,
					TipoMovimiento:    entity.MovimientoEntrada,
					Modulo:            entity.ModuloCompras,
					IDUsuario:         idUsuario,
					Lote:              l.Lote,
					FechaVencimiento:  l.FechaVencimiento,
					FechaMovimiento:   now,
				}
				if err := histRepo.Create(ctx, mov); err != nil {
					return err
				}
			}
		}

		resp = dto.CrearCompraResponse{IDIngresoCompras: cabecera.IDIngresoCompras, TotalFactura: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Anular elimina un ingreso completo si ninguno de sus lotes ha sido tocado
// por despachos ni reajustes. Si algún lote aparece referenciado, la anulación
// se rechaza entera.
func (uc *UseCase) Anular(ctx context.Context, id int64) error {
	return uc.txRunner.RunCompra(ctx, func(
		compraRepo repository.CompraRepository,
		invRepo repository.InventarioRepository,
		histRepo repository.HistorialRepository,
		despachoRepo repository.DespachoRepository,
		reajusteRepo repository.ReajusteRepository,
	) error {
		compra, err := compraRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if compra == nil {
			return domain.ErrNoEncontrado
		}

		lotes, err := invRepo.ListByCompra(ctx, id)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(lotes))
		for _, l := range lotes {
			ids = append(ids, l.IDInventario)
		}

		if len(ids) > 0 {
			n, err := despachoRepo.CountDetallesByInventarios(ctx, ids)
			if err != nil {
				return err
			}
			if n > 0 {
				return &domain.ConflictoError{Motivo: fmt.Sprintf("la compra %d tiene lotes consumidos por %d despachos", id, n)}
			}
			n, err = reajusteRepo.CountDetallesByInventarios(ctx, ids)
			if err != nil {
				return err
			}
			if n > 0 {
				return &domain.ConflictoError{Motivo: fmt.Sprintf("la compra %d tiene lotes afectados por %d reajustes", id, n)}
			}
		}

		// Orden de borrado: historial, inventario, lotes, detalles, cabecera.
		if err := histRepo.DeleteByCompra(ctx, id); err != nil {
			return err
		}
		if err := invRepo.DeleteByCompra(ctx, id); err != nil {
			return err
		}
		if err := compraRepo.DeleteLotesByCompra(ctx, id); err != nil {
			return err
		}
		if err := compraRepo.DeleteDetallesByCompra(ctx, id); err != nil {
			return err
		}
		return compraRepo.DeleteIngreso(ctx, id)
	})
}

// FindOne devuelve el ingreso con detalles y lotes.
func (uc *UseCase) FindOne(ctx context.Context, id int64) (*dto.CompraResponse, error) {
	compra, err := uc.compraRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if compra == nil {
		return nil, domain.ErrNoEncontrado
	}
	resp := dto.NewCompraResponse(compra)
	return &resp, nil
}

// FindAll lista ingresos según filtros y paginación.
func (uc *UseCase) FindAll(ctx context.Context, in dto.ListarComprasRequest) ([]dto.CompraResponse, int64, error) {
	in.DefaultPage()
	compras, total, err := uc.compraRepo.List(ctx, repository.FiltroCompras{
		Proveedor: in.Proveedor,
		Desde:     in.FechaInicio,
		Hasta:     in.FechaFin,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.CompraResponse, 0, len(compras))
	for _, c := range compras {
		out = append(out, dto.NewCompraResponse(c))
	}
	return out, total, nil
}

// Actualizar modifica los metadatos de la cabecera. Las cantidades y lotes de
// un ingreso nunca se editan; para eso está la anulación o un reajuste.
func (uc *UseCase) Actualizar(ctx context.Context, id int64, in dto.ActualizarCompraRequest) (*dto.CompraResponse, error) {
	compra, err := uc.compraRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if compra == nil {
		return nil, domain.ErrNoEncontrado
	}

	compra.NumeroFactura = in.NumeroFactura
	compra.SerieFactura = in.SerieFactura
	compra.TipoCompra = in.TipoCompra
	compra.FechaIngreso = in.FechaIngreso
	compra.Proveedor = in.Proveedor
	compra.OrdenCompra = in.OrdenCompra
	compra.Programa = in.Programa
	compra.Numero1H = in.Numero1H
	compra.NoKardex = in.NoKardex

	if err := uc.compraRepo.UpdateCabecera(ctx, compra); err != nil {
		return nil, err
	}
	resp := dto.NewCompraResponse(compra)
	return &resp, nil
}
