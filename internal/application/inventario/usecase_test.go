package inventario_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastellanos/bodega-api/internal/application/dto"
	"github.com/jcastellanos/bodega-api/internal/application/inventario"
	"github.com/jcastellanos/bodega-api/internal/domain"
	"github.com/jcastellanos/bodega-api/internal/domain/entity"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeInventarioRepo struct {
	seq     int64
	lotes   map[int64]*entity.Inventario
	resumen repository.ResumenInventario
}

func newFakeInventarioRepo() *fakeInventarioRepo {
	return &fakeInventarioRepo{lotes: make(map[int64]*entity.Inventario)}
}

func (f *fakeInventarioRepo) GetByID(_ context.Context, id int64) (*entity.Inventario, error) {
	l, ok := f.lotes[id]
	if !ok {
		return nil, nil
	}
	c := *l
	return &c, nil
}

func (f *fakeInventarioRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Inventario, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeInventarioRepo) Create(_ context.Context, inv *entity.Inventario) error {
	f.seq++
	inv.IDInventario = f.seq
	c := *inv
	f.lotes[inv.IDInventario] = &c
	return nil
}

func (f *fakeInventarioRepo) Update(_ context.Context, inv *entity.Inventario) error {
	c := *inv
	f.lotes[inv.IDInventario] = &c
	return nil
}

func (f *fakeInventarioRepo) Delete(_ context.Context, id int64) error {
	delete(f.lotes, id)
	return nil
}

func (f *fakeInventarioRepo) List(_ context.Context, filtro repository.FiltroInventario) ([]*entity.Inventario, error) {
	var out []*entity.Inventario
	for _, l := range f.lotes {
		if filtro.FechaVencimientoHasta != nil {
			if l.FechaVencimiento == nil || l.FechaVencimiento.After(*filtro.FechaVencimientoHasta) {
				continue
			}
		}
		if filtro.CodigoInsumo != nil && l.CodigoInsumo != *filtro.CodigoInsumo {
			continue
		}
		c := *l
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeInventarioRepo) ListByCompra(context.Context, int64) ([]*entity.Inventario, error) {
	return nil, nil
}

func (f *fakeInventarioRepo) DeleteByCompra(context.Context, int64) error { return nil }

func (f *fakeInventarioRepo) FindDisponiblesFEFO(context.Context, int64, *int64) ([]*entity.Inventario, error) {
	return nil, nil
}

func (f *fakeInventarioRepo) FindLote(context.Context, repository.FiltroLoteExistente) (*entity.Inventario, error) {
	return nil, nil
}

func (f *fakeInventarioRepo) Disponibilidad(context.Context, repository.FiltroDisponibilidad) ([]*entity.Inventario, error) {
	var out []*entity.Inventario
	for _, l := range f.lotes {
		if l.CantidadDisponible > 0 {
			c := *l
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeInventarioRepo) Resumen(context.Context) (*repository.ResumenInventario, error) {
	r := f.resumen
	return &r, nil
}

type fakeHistorialRepo struct {
	movimientos []*entity.HistorialInventario
	ultimoLimit int
}

func (f *fakeHistorialRepo) Create(_ context.Context, h *entity.HistorialInventario) error {
	c := *h
	f.movimientos = append(f.movimientos, &c)
	return nil
}

func (f *fakeHistorialRepo) List(context.Context, repository.FiltroHistorial) ([]*entity.HistorialInventario, int64, error) {
	return f.movimientos, int64(len(f.movimientos)), nil
}

func (f *fakeHistorialRepo) Recientes(_ context.Context, limit int) ([]*entity.HistorialInventario, error) {
	f.ultimoLimit = limit
	if limit > len(f.movimientos) {
		limit = len(f.movimientos)
	}
	return f.movimientos[:limit], nil
}

func (f *fakeHistorialRepo) ListByReajuste(context.Context, int64) ([]*entity.HistorialInventario, error) {
	return nil, nil
}

func (f *fakeHistorialRepo) CountPosteriores(context.Context, int64, []int64, time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeHistorialRepo) CountByInventario(context.Context, int64) (int64, error) {
	return 0, nil
}

func (f *fakeHistorialRepo) DeleteByReajuste(context.Context, int64) error { return nil }
func (f *fakeHistorialRepo) DeleteByCompra(context.Context, int64) error   { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func fechaEn(dias int) *time.Time {
	t := time.Now().AddDate(0, 0, dias)
	return &t
}

func sembrarLote(t *testing.T, inv *fakeInventarioRepo, nombre string, vence *time.Time, cantidad int64) *entity.Inventario {
	t.Helper()
	l := &entity.Inventario{
		Renglon:            261,
		CodigoInsumo:       100,
		NombreInsumo:       "SOLUCION SALINA",
		CodigoPresentacion: 1,
		Lote:               nombre,
		FechaVencimiento:   vence,
		CantidadDisponible: cantidad,
		PrecioUnitario:     decimal.RequireFromString("3.00"),
	}
	l.RecalcularPrecioTotal()
	require.NoError(t, inv.Create(context.Background(), l))
	return l
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAlertasVencimiento_VentanaDe30Dias(t *testing.T) {
	inv := newFakeInventarioRepo()
	hist := &fakeHistorialRepo{}
	uc := inventario.NewUseCase(inv, hist)

	sembrarLote(t, inv, "PRONTO", fechaEn(20), 5)
	sembrarLote(t, inv, "VENCIDO", fechaEn(-10), 3)
	sembrarLote(t, inv, "LEJANO", fechaEn(60), 8)  // fuera de la ventana
	sembrarLote(t, inv, "AGOTADO", fechaEn(15), 0) // sin existencia
	sembrarLote(t, inv, "SIN-FECHA", nil, 4)       // sin vencimiento

	alertas, err := uc.AlertasVencimiento(context.Background())
	require.NoError(t, err)
	require.Len(t, alertas, 2)

	porLote := make(map[string]dto.AlertaVencimientoResponse, len(alertas))
	for _, a := range alertas {
		porLote[a.Lote] = a
	}

	pronto, ok := porLote["PRONTO"]
	require.True(t, ok)
	assert.False(t, pronto.Vencido)
	assert.InDelta(t, 20, pronto.DiasParaVencer, 1)

	vencido, ok := porLote["VENCIDO"]
	require.True(t, ok)
	assert.True(t, vencido.Vencido)
	assert.Negative(t, vencido.DiasParaVencer)
}

func TestMovimientosRecientes_LimiteAcotado(t *testing.T) {
	inv := newFakeInventarioRepo()
	hist := &fakeHistorialRepo{}
	uc := inventario.NewUseCase(inv, hist)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, hist.Create(ctx, &entity.HistorialInventario{
			IDInventario:   int64(i + 1),
			Cantidad:       1,
			TipoMovimiento: entity.MovimientoEntrada,
			Modulo:         entity.ModuloCompras,
			IDUsuario:      1,
		}))
	}

	// Límite fuera de rango cae al valor por defecto.
	_, err := uc.MovimientosRecientes(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, hist.ultimoLimit)

	_, err = uc.MovimientosRecientes(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, 10, hist.ultimoLimit)

	movimientos, err := uc.MovimientosRecientes(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, hist.ultimoLimit)
	assert.Len(t, movimientos, 2)
}

func TestResumen_MapeaAgregados(t *testing.T) {
	inv := newFakeInventarioRepo()
	inv.resumen = repository.ResumenInventario{
		TotalItems:          12,
		ValorTotal:          decimal.RequireFromString("1540.50"),
		ItemsProximosVencer: 3,
		ItemsStockBajo:      2,
		TotalLotes:          40,
	}
	uc := inventario.NewUseCase(inv, &fakeHistorialRepo{})

	r, err := uc.Resumen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), r.TotalItems)
	assert.True(t, r.ValorTotal.Equal(decimal.RequireFromString("1540.50")))
	assert.Equal(t, int64(3), r.ItemsProximosVencer)
	assert.Equal(t, int64(2), r.ItemsStockBajo)
	assert.Equal(t, int64(40), r.TotalLotes)
}

func TestExistencias_ExcluyeAgotados(t *testing.T) {
	inv := newFakeInventarioRepo()
	uc := inventario.NewUseCase(inv, &fakeHistorialRepo{})

	sembrarLote(t, inv, "CON-STOCK", fechaEn(60), 5)
	sembrarLote(t, inv, "AGOTADO", fechaEn(60), 0)

	lotes, err := uc.Existencias(context.Background(), dto.DisponibilidadRequest{})
	require.NoError(t, err)
	require.Len(t, lotes, 1)
	assert.Equal(t, "CON-STOCK", lotes[0].Lote)
}

func TestFindOne_NoEncontrado(t *testing.T) {
	uc := inventario.NewUseCase(newFakeInventarioRepo(), &fakeHistorialRepo{})

	_, err := uc.FindOne(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNoEncontrado)
}
