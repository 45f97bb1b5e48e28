package despachos_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastellanos/bodega-api/internal/application/despachos"
	"github.com/jcastellanos/bodega-api/internal/application/dto"
	"github.com/jcastellanos/bodega-api/internal/domain"
	"github.com/jcastellanos/bodega-api/internal/domain/entity"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El TxRunner toma una instantánea antes de ejecutar y la
// restaura si la función falla, igual que un ROLLBACK real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeInventarioRepo struct {
	seq   int64
	lotes map[int64]*entity.Inventario
}

func newFakeInventarioRepo() *fakeInventarioRepo {
	return &fakeInventarioRepo{lotes: make(map[int64]*entity.Inventario)}
}

func copiaInv(i *entity.Inventario) *entity.Inventario {
	c := *i
	return &c
}

func (f *fakeInventarioRepo) snapshot() map[int64]*entity.Inventario {
	s := make(map[int64]*entity.Inventario, len(f.lotes))
	for id, l := range f.lotes {
		s[id] = copiaInv(l)
	}
	return s
}

func (f *fakeInventarioRepo) restore(s map[int64]*entity.Inventario) { f.lotes = s }

func (f *fakeInventarioRepo) ordenadosFEFO(filtro func(*entity.Inventario) bool) []*entity.Inventario {
	var out []*entity.Inventario
	for _, l := range f.lotes {
		if filtro(l) {
			out = append(out, copiaInv(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.FechaVencimiento == nil && b.FechaVencimiento == nil:
			return a.IDInventario < b.IDInventario
		case a.FechaVencimiento == nil:
			return false
		case b.FechaVencimiento == nil:
			return true
		case a.FechaVencimiento.Equal(*b.FechaVencimiento):
			return a.IDInventario < b.IDInventario
		default:
			return a.FechaVencimiento.Before(*b.FechaVencimiento)
		}
	})
	return out
}

func (f *fakeInventarioRepo) GetByID(_ context.Context, id int64) (*entity.Inventario, error) {
	if l, ok := f.lotes[id]; ok {
		return copiaInv(l), nil
	}
	return nil, nil
}

func (f *fakeInventarioRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Inventario, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeInventarioRepo) Create(_ context.Context, inv *entity.Inventario) error {
	f.seq++
	inv.IDInventario = f.seq
	f.lotes[inv.IDInventario] = copiaInv(inv)
	return nil
}

func (f *fakeInventarioRepo) Update(_ context.Context, inv *entity.Inventario) error {
	f.lotes[inv.IDInventario] = copiaInv(inv)
	return nil
}

func (f *fakeInventarioRepo) Delete(_ context.Context, id int64) error {
	delete(f.lotes, id)
	return nil
}

func (f *fakeInventarioRepo) List(_ context.Context, _ repository.FiltroInventario) ([]*entity.Inventario, error) {
	return f.ordenadosFEFO(func(*entity.Inventario) bool { return true }), nil
}

func (f *fakeInventarioRepo) ListByCompra(_ context.Context, id int64) ([]*entity.Inventario, error) {
	return f.ordenadosFEFO(func(l *entity.Inventario) bool {
		return l.IDIngresoCompras != nil && *l.IDIngresoCompras == id
	}), nil
}

func (f *fakeInventarioRepo) DeleteByCompra(_ context.Context, id int64) error {
	for k, l := range f.lotes {
		if l.IDIngresoCompras != nil && *l.IDIngresoCompras == id {
			delete(f.lotes, k)
		}
	}
	return nil
}

func (f *fakeInventarioRepo) FindDisponiblesFEFO(_ context.Context, codigoInsumo int64, codigoPresentacion *int64) ([]*entity.Inventario, error) {
	return f.ordenadosFEFO(func(l *entity.Inventario) bool {
		if l.CodigoInsumo != codigoInsumo || l.CantidadDisponible <= 0 {
			return false
		}
		return codigoPresentacion == nil || l.CodigoPresentacion == *codigoPresentacion
	}), nil
}

func (f *fakeInventarioRepo) FindLote(_ context.Context, fl repository.FiltroLoteExistente) (*entity.Inventario, error) {
	lotes := f.ordenadosFEFO(func(l *entity.Inventario) bool {
		if l.CodigoInsumo != fl.CodigoInsumo {
			return false
		}
		if fl.CodigoPresentacion != nil && l.CodigoPresentacion != *fl.CodigoPresentacion {
			return false
		}
		return fl.Lote == nil || l.Lote == *fl.Lote
	})
	if len(lotes) == 0 {
		return nil, nil
	}
	return lotes[0], nil
}

func (f *fakeInventarioRepo) Disponibilidad(_ context.Context, fd repository.FiltroDisponibilidad) ([]*entity.Inventario, error) {
	return f.ordenadosFEFO(func(l *entity.Inventario) bool {
		if l.CantidadDisponible <= 0 {
			return false
		}
		if fd.CodigoInsumo != nil && l.CodigoInsumo != *fd.CodigoInsumo {
			return false
		}
		return fd.CodigoPresentacion == nil || l.CodigoPresentacion == *fd.CodigoPresentacion
	}), nil
}

func (f *fakeInventarioRepo) Resumen(_ context.Context) (*repository.ResumenInventario, error) {
	return &repository.ResumenInventario{}, nil
}

type fakeDespachoRepo struct {
	seq       int64
	seqDet    int64
	despachos map[int64]*entity.Despacho
	detalles  []*entity.DespachoDetalle
}

func newFakeDespachoRepo() *fakeDespachoRepo {
	return &fakeDespachoRepo{despachos: make(map[int64]*entity.Despacho)}
}

func (f *fakeDespachoRepo) Create(_ context.Context, d *entity.Despacho) error {
	f.seq++
	d.IDDespacho = f.seq
	c := *d
	c.Detalles = nil
	f.despachos[d.IDDespacho] = &c
	return nil
}

func (f *fakeDespachoRepo) CreateDetalle(_ context.Context, d *entity.DespachoDetalle) error {
	f.seqDet++
	d.IDDespachoDetalle = f.seqDet
	c := *d
	f.detalles = append(f.detalles, &c)
	return nil
}

func (f *fakeDespachoRepo) UpdateTotales(_ context.Context, id int64, codigo string, totalCantidad int64, totalGeneral decimal.Decimal) error {
	d := f.despachos[id]
	d.CodigoDespacho = codigo
	d.TotalCantidad = totalCantidad
	d.TotalGeneral = totalGeneral
	return nil
}

func (f *fakeDespachoRepo) GetByID(_ context.Context, id int64) (*entity.Despacho, error) {
	d, ok := f.despachos[id]
	if !ok {
		return nil, nil
	}
	c := *d
	for _, det := range f.detalles {
		if det.IDDespacho == id {
			dc := *det
			c.Detalles = append(c.Detalles, &dc)
		}
	}
	return &c, nil
}

func (f *fakeDespachoRepo) List(_ context.Context, _ repository.FiltroDespachos) ([]*entity.Despacho, int64, error) {
	var out []*entity.Despacho
	for _, d := range f.despachos {
		c := *d
		out = append(out, &c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDespachoRepo) CountDetallesByInventarios(_ context.Context, ids []int64) (int64, error) {
	var n int64
	for _, det := range f.detalles {
		for _, id := range ids {
			if det.IDInventario == id {
				n++
			}
		}
	}
	return n, nil
}

type fakeHistorialRepo struct {
	seq         int64
	movimientos []*entity.HistorialInventario
}

func (f *fakeHistorialRepo) Create(_ context.Context, h *entity.HistorialInventario) error {
	f.seq++
	h.IDHistorial = f.seq
	c := *h
	f.movimientos = append(f.movimientos, &c)
	return nil
}

func (f *fakeHistorialRepo) List(_ context.Context, _ repository.FiltroHistorial) ([]*entity.HistorialInventario, int64, error) {
	return f.movimientos, int64(len(f.movimientos)), nil
}

func (f *fakeHistorialRepo) Recientes(_ context.Context, limit int) ([]*entity.HistorialInventario, error) {
	if limit > len(f.movimientos) {
		limit = len(f.movimientos)
	}
	return f.movimientos[len(f.movimientos)-limit:], nil
}

func (f *fakeHistorialRepo) ListByReajuste(_ context.Context, id int64) ([]*entity.HistorialInventario, error) {
	var out []*entity.HistorialInventario
	for _, m := range f.movimientos {
		if m.IDReajuste != nil && *m.IDReajuste == id {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeHistorialRepo) CountPosteriores(_ context.Context, idInventario int64, excluir []int64, despuesDe time.Time) (int64, error) {
	var n int64
	for _, m := range f.movimientos {
		if m.IDInventario != idInventario || !m.FechaMovimiento.After(despuesDe) {
			continue
		}
		excluido := false
		for _, id := range excluir {
			if m.IDHistorial == id {
				excluido = true
				break
			}
		}
		if !excluido {
			n++
		}
	}
	return n, nil
}

func (f *fakeHistorialRepo) CountByInventario(_ context.Context, idInventario int64) (int64, error) {
	var n int64
	for _, m := range f.movimientos {
		if m.IDInventario == idInventario {
			n++
		}
	}
	return n, nil
}

func (f *fakeHistorialRepo) DeleteByReajuste(_ context.Context, id int64) error {
	out := f.movimientos[:0]
	for _, m := range f.movimientos {
		if m.IDReajuste == nil || *m.IDReajuste != id {
			out = append(out, m)
		}
	}
	f.movimientos = out
	return nil
}

func (f *fakeHistorialRepo) DeleteByCompra(_ context.Context, id int64) error {
	out := f.movimientos[:0]
	for _, m := range f.movimientos {
		if m.IDIngresoCompras == nil || *m.IDIngresoCompras != id {
			out = append(out, m)
		}
	}
	f.movimientos = out
	return nil
}

type fakeServicioRepo struct {
	servicios map[int64]*entity.Servicio
}

func (f *fakeServicioRepo) GetByID(_ context.Context, id int64) (*entity.Servicio, error) {
	return f.servicios[id], nil
}

func (f *fakeServicioRepo) List(_ context.Context) ([]*entity.Servicio, error) {
	var out []*entity.Servicio
	for _, s := range f.servicios {
		out = append(out, s)
	}
	return out, nil
}

type fakeUsuarioRepo struct {
	usuarios  map[int64]*entity.Usuario
	renglones map[int64][]int
}

func (f *fakeUsuarioRepo) GetByID(_ context.Context, id int64) (*entity.Usuario, error) {
	return f.usuarios[id], nil
}

func (f *fakeUsuarioRepo) FindByEmail(_ context.Context, email string) (*entity.Usuario, error) {
	for _, u := range f.usuarios {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsuarioRepo) RenglonesPermitidos(_ context.Context, id int64) ([]int, error) {
	return f.renglones[id], nil
}

type fakeTxRunner struct {
	despachoRepo *fakeDespachoRepo
	invRepo      *fakeInventarioRepo
	histRepo     *fakeHistorialRepo
}

func (r *fakeTxRunner) RunDespacho(_ context.Context, fn func(
	repository.DespachoRepository,
	repository.InventarioRepository,
	repository.HistorialRepository,
) error) error {
	invSnap := r.invRepo.snapshot()
	despachosSnap := make(map[int64]*entity.Despacho, len(r.despachoRepo.despachos))
	for id, d := range r.despachoRepo.despachos {
		c := *d
		despachosSnap[id] = &c
	}
	detallesSnap := append([]*entity.DespachoDetalle(nil), r.despachoRepo.detalles...)
	histSnap := append([]*entity.HistorialInventario(nil), r.histRepo.movimientos...)
	if err := fn(r.despachoRepo, r.invRepo, r.histRepo); err != nil {
		r.invRepo.restore(invSnap)
		r.despachoRepo.despachos = despachosSnap
		r.despachoRepo.detalles = detallesSnap
		r.histRepo.movimientos = histSnap
		return err
	}
	return nil
}

type fakeConstancias struct{}

func (fakeConstancias) Generar(*entity.Despacho, *entity.Servicio) ([]byte, error) {
	return []byte("%PDF"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const usuarioBodega = int64(7)

func fecha(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func lotePrueba(codigo int64, lote string, vence *time.Time, cantidad int64, precio string) *entity.Inventario {
	idCatalogo := int64(10)
	inv := &entity.Inventario{
		IDCatalogoInsumos:  &idCatalogo,
		Renglon:            261,
		CodigoInsumo:       codigo,
		NombreInsumo:       "SOLUCION SALINA",
		CodigoPresentacion: 1,
		Presentacion:       "BOLSA 500 ML",
		UnidadMedida:       "UNIDAD",
		Lote:               lote,
		FechaVencimiento:   vence,
		CantidadDisponible: cantidad,
		PrecioUnitario:     decimal.RequireFromString(precio),
	}
	inv.RecalcularPrecioTotal()
	return inv
}

type entorno struct {
	uc       *despachos.UseCase
	inv      *fakeInventarioRepo
	despacho *fakeDespachoRepo
	hist     *fakeHistorialRepo
	servicio *fakeServicioRepo
}

func nuevoEntorno(t *testing.T, renglones []int) *entorno {
	t.Helper()
	inv := newFakeInventarioRepo()
	despacho := newFakeDespachoRepo()
	hist := &fakeHistorialRepo{}
	servicio := &fakeServicioRepo{servicios: map[int64]*entity.Servicio{
		1: {IDServicio: 1, Nombre: "EMERGENCIA", Activo: true},
	}}
	usuario := &fakeUsuarioRepo{renglones: map[int64][]int{usuarioBodega: renglones}}
	tx := &fakeTxRunner{despachoRepo: despacho, invRepo: inv, histRepo: hist}
	uc := despachos.NewUseCase(tx, despacho, inv, servicio, usuario, fakeConstancias{})
	return &entorno{uc: uc, inv: inv, despacho: despacho, hist: hist, servicio: servicio}
}

// ──────────────────────────────────────────────────────────────────────────────
// Crear: consumo por orden de vencimiento
// ──────────────────────────────────────────────────────────────────────────────

// El lote que vence primero se consume primero; la línea se fragmenta entre
// lotes y los lotes sin vencimiento quedan al final.
func TestCrear_ConsumePorVencimiento(t *testing.T) {
	e := nuevoEntorno(t, []int{261})
	ctx := context.Background()

	// Tres lotes del mismo producto: vence tarde, vence pronto, sin vencimiento.
	require.NoError(t, e.inv.Create(ctx, lotePrueba(100, "L-TARDE", fecha("2027-01-15"), 5, "10.00")))
	require.NoError(t, e.inv.Create(ctx, lotePrueba(100, "L-PRONTO", fecha("2026-06-01"), 10, "10.00")))
	require.NoError(t, e.inv.Create(ctx, lotePrueba(100, "L-SIN-FECHA", nil, 7, "10.00")))

	idServicio := int64(1)
	resp, err := e.uc.Crear(ctx, usuarioBodega, dto.CrearDespachoRequest{
		IDServicio: &idServicio,
		Detalles:   []dto.DespachoItemRequest{{CodigoInsumo: 100, Cantidad: 12}},
	})
	require.NoError(t, err)

	// 12 = 10 del lote que vence pronto + 2 del que vence tarde.
	require.Len(t, resp.Detalles, 2, "la línea debe fragmentarse en dos lotes")
	assert.Equal(t, "L-PRONTO", resp.Detalles[0].Lote)
	assert.Equal(t, int64(10), resp.Detalles[0].Cantidad)
	assert.Equal(t, "L-TARDE", resp.Detalles[1].Lote)
	assert.Equal(t, int64(2), resp.Detalles[1].Cantidad)

	// Existencias restantes: pronto 0, tarde 3, sin fecha intacto.
	pronto, _ := e.inv.GetByID(ctx, 2)
	tarde, _ := e.inv.GetByID(ctx, 1)
	sinFecha, _ := e.inv.GetByID(ctx, 3)
	assert.Equal(t, int64(0), pronto.CantidadDisponible)
	assert.Equal(t, int64(3), tarde.CantidadDisponible)
	assert.Equal(t, int64(7), sinFecha.CantidadDisponible)

	// precio_total = precio_unitario × cantidad tras el consumo.
	assert.True(t, tarde.PrecioTotal.Equal(decimal.RequireFromString("30.00")),
		"el precio total del lote debe recalcularse: %s", tarde.PrecioTotal)

	// Un movimiento SALIDA por fragmento.
	require.Len(t, e.hist.movimientos, 2)
	for _, m := range e.hist.movimientos {
		assert.Equal(t, entity.MovimientoSalida, m.TipoMovimiento)
		assert.Equal(t, entity.ModuloDespachos, m.Modulo)
		assert.Equal(t, usuarioBodega, m.IDUsuario)
		require.NotNil(t, m.IDDespacho)
		assert.Equal(t, resp.IDDespacho, *m.IDDespacho)
		// El movimiento conserva la referencia al catálogo del lote consumido.
		require.NotNil(t, m.IDCatalogoInsumos)
		assert.Equal(t, int64(10), *m.IDCatalogoInsumos)
	}

	assert.Equal(t, "DESP-000001", resp.CodigoDespacho)
	assert.Equal(t, int64(12), resp.TotalCantidad)
	assert.True(t, resp.TotalGeneral.Equal(decimal.RequireFromString("120.00")))
}

// Todo o nada: si una línea no se cubre, ninguna línea debe tocar existencias.
func TestCrear_StockInsuficienteNoConsumeNada(t *testing.T) {
	e := nuevoEntorno(t, []int{261})
	ctx := context.Background()

	require.NoError(t, e.inv.Create(ctx, lotePrueba(100, "L1", fecha("2026-06-01"), 8, "5.00")))
	require.NoError(t, e.inv.Create(ctx, lotePrueba(200, "L2", fecha("2026-06-01"), 3, "5.00")))

	_, err := e.uc.Crear(ctx, usuarioBodega, dto.CrearDespachoRequest{
		Detalles: []dto.DespachoItemRequest{
			{CodigoInsumo: 100, Cantidad: 5}, // cubrible
			{CodigoInsumo: 200, Cantidad: 9}, // faltan 6
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStockInsuficiente)

	var stockErr *domain.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(200), stockErr.CodigoInsumo)
	assert.Equal(t, int64(6), stockErr.Faltante)
	assert.Equal(t, 2, stockErr.Detalle)

	// Rollback: la primera línea tampoco debe haberse aplicado.
	l1, _ := e.inv.GetByID(ctx, 1)
	assert.Equal(t, int64(8), l1.CantidadDisponible, "la línea cubrible no debe consumirse si otra falla")
	assert.Empty(t, e.hist.movimientos)
}

func TestCrear_ProductoSinLotes(t *testing.T) {
	e := nuevoEntorno(t, []int{261})

	_, err := e.uc.Crear(context.Background(), usuarioBodega, dto.CrearDespachoRequest{
		Detalles: []dto.DespachoItemRequest{{CodigoInsumo: 999, Cantidad: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrStockInsuficiente)
}

func TestCrear_RenglonNoAutorizado(t *testing.T) {
	e := nuevoEntorno(t, []int{300}) // el usuario no tiene el renglón 261
	ctx := context.Background()
	require.NoError(t, e.inv.Create(ctx, lotePrueba(100, "L1", fecha("2026-06-01"), 10, "5.00")))

	_, err := e.uc.Crear(ctx, usuarioBodega, dto.CrearDespachoRequest{
		Detalles: []dto.DespachoItemRequest{{CodigoInsumo: 100, Cantidad: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNoAutorizado)
}

// El servicio destino es opcional: un despacho interno sin servicio es válido.
func TestCrear_SinServicio(t *testing.T) {
	e := nuevoEntorno(t, []int{261})
	ctx := context.Background()

	require.NoError(t, e.inv.Create(ctx, lotePrueba(100, "L1", fecha("2026-06-01"), 8, "5.00")))

	resp, err := e.uc.Crear(ctx, usuarioBodega, dto.CrearDespachoRequest{
		Detalles: []dto.DespachoItemRequest{{CodigoInsumo: 100, Cantidad: 3}},
	})
	require.NoError(t, err)
	assert.Nil(t, resp.IDServicio)
	assert.Equal(t, int64(3), resp.TotalCantidad)

	guardado, ok := e.despacho.despachos[resp.IDDespacho]
	require.True(t, ok)
	assert.Nil(t, guardado.IDServicio)
}

func TestCrear_ServicioInexistente(t *testing.T) {
	e := nuevoEntorno(t, []int{261})
	idServicio := int64(99)

	_, err := e.uc.Crear(context.Background(), usuarioBodega, dto.CrearDespachoRequest{
		IDServicio: &idServicio,
		Detalles:   []dto.DespachoItemRequest{{CodigoInsumo: 100, Cantidad: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrValidacion)
}

func TestCrear_SinDetalles(t *testing.T) {
	e := nuevoEntorno(t, []int{261})
	_, err := e.uc.Crear(context.Background(), usuarioBodega, dto.CrearDespachoRequest{})
	assert.ErrorIs(t, err, domain.ErrValidacion)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestDisponibilidad_OrdenYFiltro(t *testing.T) {
	e := nuevoEntorno(t, []int{261})
	ctx := context.Background()

	require.NoError(t, e.inv.Create(ctx, lotePrueba(100, "L-TARDE", fecha("2027-01-15"), 5, "10.00")))
	require.NoError(t, e.inv.Create(ctx, lotePrueba(100, "L-PRONTO", fecha("2026-06-01"), 10, "10.00")))
	require.NoError(t, e.inv.Create(ctx, lotePrueba(100, "L-AGOTADO", fecha("2026-01-01"), 0, "10.00")))

	codigo := int64(100)
	items, err := e.uc.Disponibilidad(ctx, dto.DisponibilidadRequest{CodigoInsumo: &codigo})
	require.NoError(t, err)

	require.Len(t, items, 2, "los lotes en cero no son despachables")
	assert.Equal(t, "L-PRONTO", items[0].Lote)
	assert.Equal(t, "L-TARDE", items[1].Lote)
}

func TestFindOne_NoEncontrado(t *testing.T) {
	e := nuevoEntorno(t, []int{261})
	_, err := e.uc.FindOne(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNoEncontrado)
}

func TestConstancia_NoEncontrado(t *testing.T) {
	e := nuevoEntorno(t, []int{261})
	_, err := e.uc.Constancia(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNoEncontrado)
}

func TestConstancia_GeneraPDF(t *testing.T) {
	e := nuevoEntorno(t, []int{261})
	ctx := context.Background()
	require.NoError(t, e.inv.Create(ctx, lotePrueba(100, "L1", fecha("2026-06-01"), 10, "5.00")))

	idServicio := int64(1)
	resp, err := e.uc.Crear(ctx, usuarioBodega, dto.CrearDespachoRequest{
		IDServicio: &idServicio,
		Detalles:   []dto.DespachoItemRequest{{CodigoInsumo: 100, Cantidad: 4}},
	})
	require.NoError(t, err)

	pdf, err := e.uc.Constancia(ctx, resp.IDDespacho)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
