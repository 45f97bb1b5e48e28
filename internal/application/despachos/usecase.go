package despachos

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

// UseCase despacha insumos consumiendo lotes por fecha de vencimiento: el
// lote que vence primero se consume primero, y los lotes sin vencimiento al
// final. Una línea puede fragmentarse en varios lotes; si alguna línea no se
// cubre completa, el despacho entero se revierte.
type UseCase struct {
	txRunner     TxRunner
	despachoRepo repository.DespachoRepository
	invRepo      repository.InventarioRepository
	servicioRepo repository.ServicioRepository
	usuarioRepo  repository.UsuarioRepository
	constancias  ConstanciaGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	despachoRepo repository.DespachoRepository,
	invRepo repository.InventarioRepository,
	servicioRepo repository.ServicioRepository,
	usuarioRepo repository.UsuarioRepository,
	constancias ConstanciaGenerator,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		despachoRepo: despachoRepo,
		invRepo:      invRepo,
		servicioRepo: servicioRepo,
		usuarioRepo:  usuarioRepo,
		constancias:  constancias,
	}
}

// Crear registra el despacho. Dentro de la transacción bloquea los lotes del
// producto, verifica renglón autorizado y existencia suficiente, consume en
// orden de vencimiento y escribe un fragmento y un movimiento SALIDA por lote
// tocado.
func (uc *UseCase) Crear(ctx context.Context, idUsuario int64, in dto.CrearDespachoRequest) (*dto.DespachoResponse, error) {
	if len(in.Detalles) == 0 {
		return nil, &domain.ValidacionError{Motivo: "el despacho requiere al menos un detalle"}
	}
	for i, d := range in.Detalles {
		if d.Cantidad <= 0 {
			return nil, &domain.ValidacionError{Motivo: "la cantidad solicitada debe ser mayor que cero", Detalle: i + 1}
		}
	}

	if in.IDServicio != nil {
		srv, err := uc.servicioRepo.GetByID(ctx, *in.IDServicio)
		if err != nil {
			return nil, err
		}
		if srv == nil {
			return nil, &domain.ValidacionError{Motivo: fmt.Sprintf("el servicio %d no existe", *in.IDServicio)}
		}
	}

	permitidos, err := uc.usuarioRepo.RenglonesPermitidos(ctx, idUsuario)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var creado *entity.Despacho

	err = uc.txRunner.RunDespacho(ctx, func(
		despachoRepo repository.DespachoRepository,
		invRepo repository.InventarioRepository,
		histRepo repository.HistorialRepository,
	) error {
		despacho := &entity.Despacho{
			IDServicio:    in.IDServicio,
			IDUsuario:     idUsuario,
			FechaDespacho: now,
			Observaciones: in.Observaciones,
			TotalGeneral:  decimal.Zero,
		}
		if err := despachoRepo.Create(ctx, despacho); err != nil {
			return err
		}

		var totalCantidad int64
		totalGeneral := decimal.Zero

		for i, d := range in.Detalles {
			lotes, err := invRepo.FindDisponiblesFEFO(ctx, d.CodigoInsumo, d.CodigoPresentacion)
			if err != nil {
				return err
			}
			if len(lotes) == 0 {
				return &domain.StockInsuficienteError{CodigoInsumo: d.CodigoInsumo, Detalle: i + 1}
			}
			if !domain.RenglonPermitido(permitidos, lotes[0].Renglon) {
				return fmt.Errorf("renglón %d no autorizado para el usuario: %w", lotes[0].Renglon, domain.ErrNoAutorizado)
			}

			var disponible int64
			for _, l := range lotes {
				disponible += l.CantidadDisponible
			}
			if disponible < d.Cantidad {
				return &domain.StockInsuficienteError{
					CodigoInsumo: d.CodigoInsumo,
					Faltante:     d.Cantidad - disponible,
					Detalle:      i + 1,
				}
			}

			pendiente := d.Cantidad
			for _, lote := range lotes {
				if pendiente == 0 {
					break
				}
				consumir := lote.CantidadDisponible
				if consumir > pendiente {
					consumir = pendiente
				}
				if consumir == 0 {
					continue
				}

				lote.CantidadDisponible -= consumir
				lote.RecalcularPrecioTotal()
				if err := invRepo.Update(ctx, lote); err != nil {
					return err
				}

				precioFragmento := lote.PrecioUnitario.Mul(decimal.NewFromInt(consumir))
				detalle := &entity.DespachoDetalle{
					IDDespacho:         despacho.IDDespacho,
					IDInventario:       lote.IDInventario,
					IDCatalogoInsumos:  lote.IDCatalogoInsumos,
					IDIngresoCompras:   lote.IDIngresoCompras,
					CodigoInsumo:       lote.CodigoInsumo,
					NombreInsumo:       lote.NombreInsumo,
					Caracteristicas:    lote.Caracteristicas,
					CodigoPresentacion: lote.CodigoPresentacion,
					Presentacion:       lote.Presentacion,
					UnidadMedida:       lote.UnidadMedida,
					Lote:               lote.Lote,
					FechaVencimiento:   lote.FechaVencimiento,
					Cantidad:           consumir,
					PrecioUnitario:     lote.PrecioUnitario,
					PrecioTotal:        precioFragmento,
				}
				if err := despachoRepo.CreateDetalle(ctx, detalle); err != nil {
					return err
				}
				despacho.Detalles = append(despacho.Detalles, detalle)

				mov := &entity.HistorialInventario{
					IDInventario:      lote.IDInventario,
					IDCatalogoInsumos: lote.IDCatalogoInsumos,
					IDDespacho:        &despacho.IDDespacho,
					Cantidad:          consumir,
					TipoMovimiento:    entity.MovimientoSalida,
					Modulo:            entity.ModuloDespachos,
					IDUsuario:         idUsuario,
					Lote:              lote.Lote,
					FechaVencimiento:  lote.FechaVencimiento,
					FechaMovimiento:   now,
				}
				if err := histRepo.Create(ctx, mov); err != nil {
					return err
				}

				totalCantidad += consumir
				totalGeneral = totalGeneral.Add(precioFragmento)
				pendiente -= consumir
			}
		}

		despacho.CodigoDespacho = entity.CodigoGenerado(despacho.IDDespacho)
		despacho.TotalCantidad = totalCantidad
		despacho.TotalGeneral = totalGeneral
		if err := despachoRepo.UpdateTotales(ctx, despacho.IDDespacho, despacho.CodigoDespacho, totalCantidad, totalGeneral); err != nil {
			return err
		}
		creado = despacho
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := dto.NewDespachoResponse(creado)
	return &resp, nil
}

// Disponibilidad lista los lotes con existencia que cumplen el filtro, en el
// mismo orden de consumo del despacho.
func (uc *UseCase) Disponibilidad(ctx context.Context, in dto.DisponibilidadRequest) ([]dto.InventarioResponse, error) {
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

// FindOne devuelve el despacho con sus fragmentos.
func (uc *UseCase) FindOne(ctx context.Context, id int64) (*dto.DespachoResponse, error) {
	despacho, err := uc.despachoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if despacho == nil {
		return nil, domain.ErrNoEncontrado
	}
	resp := dto.NewDespachoResponse(despacho)
	return &resp, nil
}

// FindAll lista despachos según filtros y paginación.
func (uc *UseCase) FindAll(ctx context.Context, in dto.ListarDespachosRequest) ([]dto.DespachoResponse, int64, error) {
	in.DefaultPage()
	despachos, total, err := uc.despachoRepo.List(ctx, repository.FiltroDespachos{
		Codigo:     in.Codigo,
		IDServicio: in.IDServicio,
		Desde:      in.FechaInicio,
		Hasta:      in.FechaFin,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.DespachoResponse, 0, len(despachos))
	for _, d := range despachos {
		out = append(out, dto.NewDespachoResponse(d))
	}
	return out, total, nil
}

// Servicios lista los servicios destino disponibles.
func (uc *UseCase) Servicios(ctx context.Context) ([]dto.ServicioResponse, error) {
	servicios, err := uc.servicioRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServicioResponse, 0, len(servicios))
	for _, s := range servicios {
		out = append(out, dto.ServicioResponse{IDServicio: s.IDServicio, Nombre: s.Nombre, Activo: s.Activo})
	}
	return out, nil
}

// Constancia genera el PDF de constancia del despacho.
func (uc *UseCase) Constancia(ctx context.Context, id int64) ([]byte, error) {
	despacho, err := uc.despachoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if despacho == nil {
		return nil, domain.ErrNoEncontrado
	}
	var servicio *entity.Servicio
	if despacho.IDServicio != nil {
		servicio, err = uc.servicioRepo.GetByID(ctx, *despacho.IDServicio)
		if err != nil {
			return nil, err
		}
	}
	return uc.constancias.Generar(despacho, servicio)
}
