package catalogo_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastellanos/bodega-api/internal/application/catalogo"
	"github.com/jcastellanos/bodega-api/internal/application/dto"
	"github.com/jcastellanos/bodega-api/internal/domain"
	"github.com/jcastellanos/bodega-api/internal/domain/entity"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

type fakeCatalogoRepo struct {
	items map[string]*entity.CatalogoInsumos // clave: codigo_insumo|codigo_presentacion
}

func newFakeCatalogoRepo() *fakeCatalogoRepo {
	return &fakeCatalogoRepo{items: make(map[string]*entity.CatalogoInsumos)}
}

func clave(c *entity.CatalogoInsumos) string {
	return fmt.Sprintf("%d|%d", c.CodigoInsumo, c.CodigoPresentacion)
}

func (f *fakeCatalogoRepo) GetByID(context.Context, int64) (*entity.CatalogoInsumos, error) {
	return nil, nil
}

func (f *fakeCatalogoRepo) FindByCodigo(context.Context, int64) (*entity.CatalogoInsumos, error) {
	return nil, nil
}

func (f *fakeCatalogoRepo) Buscar(_ context.Context, filtro repository.FiltroCatalogo) ([]*entity.CatalogoInsumos, error) {
	var out []*entity.CatalogoInsumos
	for _, c := range f.items {
		if strings.Contains(c.NombreInsumo, filtro.Termino) {
			copia := *c
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (f *fakeCatalogoRepo) Upsert(_ context.Context, c *entity.CatalogoInsumos) error {
	copia := *c
	f.items[clave(c)] = &copia
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalizar
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizar(t *testing.T) {
	casos := []struct {
		entrada  string
		esperado string
	}{
		{"Solución  salina", "SOLUCION SALINA"},
		{"  ácido   acetilsalicílico ", "ACIDO ACETILSALICILICO"},
		{"BOLSA 500 ML", "BOLSA 500 ML"},
		{"", ""},
	}
	for _, c := range casos {
		assert.Equal(t, c.esperado, catalogo.Normalizar(c.entrada), "entrada: %q", c.entrada)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Importar
// ──────────────────────────────────────────────────────────────────────────────

const cabeceraCSV = "renglon,codigo_insumo,nombre_insumo,caracteristicas,codigo_presentacion,nombre_presentacion,unidad_medida\n"

func TestImportar_UpsertPorInsumoYPresentacion(t *testing.T) {
	repo := newFakeCatalogoRepo()
	uc := catalogo.NewUseCase(repo)

	csv := cabeceraCSV +
		"261,100,Solución  salina,al 0.9%,1,Bolsa 500 ml,unidad\n" +
		"261,100,Solución salina,al 0.9%,2,Bolsa 1000 ml,unidad\n" +
		"262,200,Jeringa,3 ml,1,caja x 100,caja\n"

	resp, err := uc.Importar(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Procesados)
	assert.Equal(t, 3, resp.Importados)
	assert.Empty(t, resp.Errores)
	assert.Len(t, repo.items, 3)

	// Reimportar la misma fila no duplica: el upsert la reemplaza.
	resp, err = uc.Importar(context.Background(), strings.NewReader(
		cabeceraCSV+"261,100,Solución salina renovada,al 0.9%,1,Bolsa 500 ml,unidad\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Importados)
	assert.Len(t, repo.items, 3)
}

func TestImportar_NormalizaCampos(t *testing.T) {
	repo := newFakeCatalogoRepo()
	uc := catalogo.NewUseCase(repo)

	_, err := uc.Importar(context.Background(), strings.NewReader(
		cabeceraCSV+"261,100,Solución  salina,al 0.9%,1,Bolsa 500 ml,unidad\n"))
	require.NoError(t, err)

	require.Len(t, repo.items, 1)
	for _, item := range repo.items {
		assert.Equal(t, "SOLUCION SALINA", item.NombreInsumo)
		assert.Equal(t, "BOLSA 500 ML", item.NombrePresentacion)
		assert.Equal(t, "UNIDAD", item.UnidadMedida)
	}
}

func TestImportar_CabeceraInvalida(t *testing.T) {
	uc := catalogo.NewUseCase(newFakeCatalogoRepo())

	_, err := uc.Importar(context.Background(), strings.NewReader(
		"codigo,nombre\n261,100\n"))
	assert.ErrorIs(t, err, domain.ErrValidacion)
}

func TestImportar_ArchivoVacio(t *testing.T) {
	uc := catalogo.NewUseCase(newFakeCatalogoRepo())

	_, err := uc.Importar(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrValidacion)
}

func TestImportar_FilasInvalidasNoDetienenLaCarga(t *testing.T) {
	repo := newFakeCatalogoRepo()
	uc := catalogo.NewUseCase(repo)

	csv := cabeceraCSV +
		"0,100,Solución salina,,1,Bolsa,unidad\n" + // renglón inválido
		"261,abc,Solución salina,,1,Bolsa,unidad\n" + // código no numérico
		"261,100,,,1,Bolsa,unidad\n" + // sin nombre
		"261,100,Solución salina,,1,Bolsa,unidad\n" // válida

	resp, err := uc.Importar(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Procesados)
	assert.Equal(t, 1, resp.Importados)
	assert.Len(t, resp.Errores, 3)
	assert.Len(t, repo.items, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Buscar
// ──────────────────────────────────────────────────────────────────────────────

func TestBuscar_NormalizaElTermino(t *testing.T) {
	repo := newFakeCatalogoRepo()
	require.NoError(t, repo.Upsert(context.Background(), &entity.CatalogoInsumos{
		Renglon:            261,
		CodigoInsumo:       100,
		NombreInsumo:       "SOLUCION SALINA",
		CodigoPresentacion: 1,
	}))
	uc := catalogo.NewUseCase(repo)

	items, err := uc.Buscar(context.Background(), dto.BuscarCatalogoRequest{Termino: "solución"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(100), items[0].CodigoInsumo)
}
