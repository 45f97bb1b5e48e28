package reajustes

import (
	"context"
	"fmt"
	"time"

	"github.com/jcastellanos/bodega-api/internal/application/dto"
	"github.com/jcastellanos/bodega-api/internal/domain"
	"github.com/jcastellanos/bodega-api/internal/domain/entity"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

// UseCase aplica correcciones manuales de existencias. Una entrada suma sobre
// un lote existente o crea uno nuevo sin origen de compra; una salida resta de
// un lote existente. La reversión deshace un reajuste completo solo si ningún
// lote afectado registró movimientos posteriores.
type UseCase struct {
	txRunner     TxRunner
	reajusteRepo repository.ReajusteRepository
	catalogoRepo repository.CatalogoRepository
	usuarioRepo  repository.UsuarioRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	reajusteRepo repository.ReajusteRepository,
	catalogoRepo repository.CatalogoRepository,
	usuarioRepo repository.UsuarioRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		reajusteRepo: reajusteRepo,
		catalogoRepo: catalogoRepo,
		usuarioRepo:  usuarioRepo,
	}
}

// Crear aplica el reajuste línea por línea dentro de una transacción,
// bloqueando cada lote afectado. El tipo de movimiento del historial refleja
// el sentido del reajuste.
func (uc *UseCase) Crear(ctx context.Context, idUsuario int64, in dto.CrearReajusteRequest) (*dto.ReajusteResponse, error) {
	if in.TipoReajuste != entity.ReajusteEntrada && in.TipoReajuste != entity.ReajusteSalida {
		return nil, &domain.ValidacionError{Motivo: fmt.Sprintf("tipo de reajuste desconocido: %d", in.TipoReajuste)}
	}
	if len(in.Detalles) == 0 {
		return nil, &domain.ValidacionError{Motivo: "el reajuste requiere al menos un detalle"}
	}
	for i, d := range in.Detalles {
		if d.Cantidad <= 0 {
			return nil, &domain.ValidacionError{Motivo: "la cantidad debe ser mayor que cero", Detalle: i + 1}
		}
	}

	permitidos, err := uc.usuarioRepo.RenglonesPermitidos(ctx, idUsuario)
	if err != nil {
		return nil, err
	}

	// El catálogo valida el producto y aporta los campos descriptivos de los
	// lotes nuevos; también decide el renglón contra el que se autoriza.
	catalogos := make([]*entity.CatalogoInsumos, len(in.Detalles))
	for i, d := range in.Detalles {
		cat, err := uc.catalogoRepo.FindByCodigo(ctx, d.CodigoInsumo)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, &domain.ValidacionError{Motivo: fmt.Sprintf("producto %d no existe en el catálogo", d.CodigoInsumo), Detalle: i + 1}
		}
		if !domain.RenglonPermitido(permitidos, cat.Renglon) {
			return nil, fmt.Errorf("renglón %d no autorizado para el usuario: %w", cat.Renglon, domain.ErrNoAutorizado)
		}
		catalogos[i] = cat
	}

	now := time.Now()
	var creado *entity.Reajuste

	err = uc.txRunner.RunReajuste(ctx, func(
		reajusteRepo repository.ReajusteRepository,
		invRepo repository.InventarioRepository,
		histRepo repository.HistorialRepository,
		_ repository.DespachoRepository,
	) error {
		reajuste := &entity.Reajuste{
			FechaReajuste:       in.FechaReajuste,
			TipoReajuste:        in.TipoReajuste,
			ReferenciaDocumento: in.ReferenciaDocumento,
			Observaciones:       in.Observaciones,
			IDUsuario:           idUsuario,
		}
		if err := reajusteRepo.Create(ctx, reajuste); err != nil {
			return err
		}

		for i, d := range in.Detalles {
			cat := catalogos[i]
			lote, err := invRepo.FindLote(ctx, repository.FiltroLoteExistente{
				CodigoInsumo:       d.CodigoInsumo,
				CodigoPresentacion: d.CodigoPresentacion,
				Lote:               d.Lote,
			})
			if err != nil {
				return err
			}

			var tipoMovimiento string
			switch in.TipoReajuste {
			case entity.ReajusteEntrada:
				tipoMovimiento = entity.MovimientoReajusteEntrada
				if lote != nil {
					lote.CantidadDisponible += d.Cantidad
					// El precio del reajuste manda sobre el del lote.
					if d.PrecioUnitario.IsPositive() {
						lote.PrecioUnitario = d.PrecioUnitario
					}
					lote.RecalcularPrecioTotal()
					if err := invRepo.Update(ctx, lote); err != nil {
						return err
					}
				} else {
					lote, err = uc.crearLoteNuevo(ctx, invRepo, cat, d, i+1, now)
					if err != nil {
						return err
					}
				}
			case entity.ReajusteSalida:
				if lote == nil {
					return &domain.StockInsuficienteError{CodigoInsumo: d.CodigoInsumo, Detalle: i + 1}
				}
				if lote.CantidadDisponible < d.Cantidad {
					return &domain.StockInsuficienteError{
						CodigoInsumo: d.CodigoInsumo,
						Faltante:     d.Cantidad - lote.CantidadDisponible,
						Detalle:      i + 1,
					}
				}
				tipoMovimiento = entity.MovimientoReajusteSalida
				lote.CantidadDisponible -= d.Cantidad
				lote.RecalcularPrecioTotal()
				if err := invRepo.Update(ctx, lote); err != nil {
					return err
				}
			}

			detalle := &entity.ReajusteDetalle{
				IDReajuste:         reajuste.IDReajuste,
				IDInventario:       lote.IDInventario,
				IDCatalogoInsumos:  &cat.IDCatalogoInsumos,
				CodigoInsumo:       lote.CodigoInsumo,
				NombreInsumo:       lote.NombreInsumo,
				Caracteristicas:    lote.Caracteristicas,
				CodigoPresentacion: &lote.CodigoPresentacion,
				Presentacion:       &lote.Presentacion,
				UnidadMedida:       &lote.UnidadMedida,
				Lote:               &lote.Lote,
				FechaVencimiento:   lote.FechaVencimiento,
				Cantidad:           d.Cantidad,
				PrecioUnitario:     lote.PrecioUnitario,
				Observaciones:      d.Observaciones,
			}
			if err := reajusteRepo.CreateDetalle(ctx, detalle); err != nil {
				return err
			}
			reajuste.Detalles = append(reajuste.Detalles, detalle)

			mov := &entity.HistorialInventario{
				IDInventario:      lote.IDInventario,
				IDCatalogoInsumos: &cat.IDCatalogoInsumos,
				IDReajuste:        &reajuste.IDReajuste,
				Cantidad:          d.Cantidad,
				TipoMovimiento:    tipoMovimiento,
				Modulo:            entity.ModuloReajustes,
				IDUsuario:         idUsuario,
				Lote:              lote.Lote,
				FechaVencimiento:  lote.FechaVencimiento,
				FechaMovimiento:   now,
			}
			if err := histRepo.Create(ctx, mov); err != nil {
				return err
			}
		}

		creado = reajuste
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := dto.NewReajusteResponse(creado)
	return &resp, nil
}

// crearLoteNuevo crea la fila de inventario para una entrada sin lote previo.
// Exige no. de kardex y precio unitario positivo; el lote nace sin origen de
// compra.
func (uc *UseCase) crearLoteNuevo(
	ctx context.Context,
	invRepo repository.InventarioRepository,
	cat *entity.CatalogoInsumos,
	d dto.ReajusteDetalleRequest,
	detalle int,
	now time.Time,
) (*entity.Inventario, error) {
	if d.NoKardex == nil {
		return nil, &domain.ValidacionError{Motivo: "el no. de kardex es obligatorio al crear una existencia nueva", Detalle: detalle}
	}
	if !d.PrecioUnitario.IsPositive() {
		return nil, &domain.ValidacionError{Motivo: "el precio unitario es obligatorio al crear una existencia nueva", Detalle: detalle}
	}
	nombreLote := ""
	if d.Lote != nil {
		nombreLote = *d.Lote
	}

	inv := &entity.Inventario{
		IDCatalogoInsumos:  &cat.IDCatalogoInsumos,
		Renglon:            cat.Renglon,
		CodigoInsumo:       cat.CodigoInsumo,
		NombreInsumo:       cat.NombreInsumo,
		Caracteristicas:    cat.Caracteristicas,
		CodigoPresentacion: cat.CodigoPresentacion,
		Presentacion:       cat.NombrePresentacion,
		UnidadMedida:       cat.UnidadMedida,
		Lote:               nombreLote,
		FechaVencimiento:   d.FechaVencimiento,
		CantidadDisponible: d.Cantidad,
		PrecioUnitario:     d.PrecioUnitario,
		NoKardex:           d.NoKardex,
		CreadoEn:           now,
	}
	inv.RecalcularPrecioTotal()
	if err := invRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Revertir deshace un reajuste completo: invierte cada movimiento sobre su
// lote, borra el historial del reajuste, sus detalles y la cabecera. Si algún
// lote afectado tiene movimientos estrictamente posteriores a los del
// reajuste, la reversión se rechaza. Los lotes que quedan en cero, nacieron
// de un reajuste y ya no son referenciados por nada se dan de baja.
func (uc *UseCase) Revertir(ctx context.Context, id int64) error {
	return uc.txRunner.RunReajuste(ctx, func(
		reajusteRepo repository.ReajusteRepository,
		invRepo repository.InventarioRepository,
		histRepo repository.HistorialRepository,
		despachoRepo repository.DespachoRepository,
	) error {
		reajuste, err := reajusteRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if reajuste == nil {
			return domain.ErrNoEncontrado
		}

		movimientos, err := histRepo.ListByReajuste(ctx, id)
		if err != nil {
			return err
		}
		if len(movimientos) == 0 {
			return &domain.ConflictoError{Motivo: fmt.Sprintf("el reajuste %d no tiene movimientos que revertir", id)}
		}

		excluir := make([]int64, 0, len(movimientos))
		ultimoPorLote := make(map[int64]time.Time)
		for _, m := range movimientos {
			excluir = append(excluir, m.IDHistorial)
			if m.FechaMovimiento.After(ultimoPorLote[m.IDInventario]) {
				ultimoPorLote[m.IDInventario] = m.FechaMovimiento
			}
		}

		// La reversión solo es segura si cada lote afectado no se movió después
		// de su último movimiento dentro del reajuste.
		for idInventario, ultimo := range ultimoPorLote {
			n, err := histRepo.CountPosteriores(ctx, idInventario, excluir, ultimo)
			if err != nil {
				return err
			}
			if n > 0 {
				return &domain.ConflictoError{
					Motivo: fmt.Sprintf("el lote %d registra %d movimientos posteriores al reajuste", idInventario, n),
				}
			}
		}

		candidatos := make([]*entity.Inventario, 0, len(movimientos))
		for _, m := range movimientos {
			lote, err := invRepo.GetForUpdate(ctx, m.IDInventario)
			if err != nil {
				return err
			}
			if lote == nil {
				return &domain.ConflictoError{Motivo: fmt.Sprintf("el lote %d del reajuste ya no existe", m.IDInventario)}
			}

			if m.EsEntrada() {
				if lote.CantidadDisponible < m.Cantidad {
					return &domain.ConflictoError{
						Motivo: fmt.Sprintf("el lote %d no tiene existencia suficiente para revertir la entrada", lote.IDInventario),
					}
				}
				lote.CantidadDisponible -= m.Cantidad
			} else {
				lote.CantidadDisponible += m.Cantidad
			}
			lote.RecalcularPrecioTotal()
			if err := invRepo.Update(ctx, lote); err != nil {
				return err
			}
			if lote.CantidadDisponible == 0 && !lote.TieneOrigenCompra() {
				candidatos = append(candidatos, lote)
			}
		}

		if err := histRepo.DeleteByReajuste(ctx, id); err != nil {
			return err
		}
		if err := reajusteRepo.DeleteDetallesByReajuste(ctx, id); err != nil {
			return err
		}
		if err := reajusteRepo.Delete(ctx, id); err != nil {
			return err
		}

		// Baja de lotes huérfanos: en cero, sin origen de compra y sin ninguna
		// referencia restante en historial, reajustes o despachos.
		for _, lote := range candidatos {
			n, err := histRepo.CountByInventario(ctx, lote.IDInventario)
			if err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			n, err = reajusteRepo.CountDetallesByInventario(ctx, lote.IDInventario)
			if err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			n, err = despachoRepo.CountDetallesByInventarios(ctx, []int64{lote.IDInventario})
			if err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			if err := invRepo.Delete(ctx, lote.IDInventario); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindOne devuelve el reajuste con sus líneas.
func (uc *UseCase) FindOne(ctx context.Context, id int64) (*dto.ReajusteResponse, error) {
	reajuste, err := uc.reajusteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reajuste == nil {
		return nil, domain.ErrNoEncontrado
	}
	resp := dto.NewReajusteResponse(reajuste)
	return &resp, nil
}

// FindAll lista reajustes según filtros y paginación.
func (uc *UseCase) FindAll(ctx context.Context, in dto.ListarReajustesRequest) ([]dto.ReajusteResponse, int64, error) {
	in.DefaultPage()
	reajustes, total, err := uc.reajusteRepo.List(ctx, repository.FiltroReajustes{
		TipoReajuste: in.TipoReajuste,
		Referencia:   in.Referencia,
		Desde:        in.FechaInicio,
		Hasta:        in.FechaFin,
		Limit:        in.Limit,
		Offset:       in.Offset,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ReajusteResponse, 0, len(reajustes))
	for _, r := range reajustes {
		out = append(out, dto.NewReajusteResponse(r))
	}
	return out, total, nil
}

// BuscarCatalogo busca insumos restringiendo el resultado a los renglones
// autorizados del usuario.
func (uc *UseCase) BuscarCatalogo(ctx context.Context, idUsuario int64, in dto.BuscarCatalogoRequest) ([]dto.CatalogoItemResponse, error) {
	permitidos, err := uc.usuarioRepo.RenglonesPermitidos(ctx, idUsuario)
	if err != nil {
		return nil, err
	}
	if len(permitidos) == 0 {
		return []dto.CatalogoItemResponse{}, nil
	}
	limit := in.Limit
	if limit <= 0 {
		limit = 20
	}
	items, err := uc.catalogoRepo.Buscar(ctx, repository.FiltroCatalogo{
		Termino:   in.Termino,
		Renglones: permitidos,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogoItemResponse, 0, len(items))
	for _, c := range items {
		out = append(out, dto.NewCatalogoItemResponse(c))
	}
	return out, nil
}
