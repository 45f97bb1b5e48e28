package catalogo

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jcastellanos/bodega-api/internal/application/dto"
	"github.com/jcastellanos/bodega-api/internal/domain"
	"github.com/jcastellanos/bodega-api/internal/domain/entity"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

// columnasCSV orden esperado del archivo de importación.
var columnasCSV = []string{
	"renglon", "codigo_insumo", "nombre_insumo", "caracteristicas",
	"codigo_presentacion", "nombre_presentacion", "unidad_medida",
}

// UseCase administra el catálogo de insumos: búsqueda e importación masiva
// desde CSV. El catálogo es la única fuente de los campos descriptivos que
// compras y reajustes copian a los lotes.
type UseCase struct {
	catalogoRepo repository.CatalogoRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(catalogoRepo repository.CatalogoRepository) *UseCase {
	return &UseCase{catalogoRepo: catalogoRepo}
}

// quitarAcentos transforma "Solución" en "Solucion".
var quitarAcentos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalizar devuelve el texto sin acentos, en mayúsculas y con espacios
// colapsados; es la forma canónica con la que se almacena y se busca.
func Normalizar(s string) string {
	plano, _, err := transform.String(quitarAcentos, s)
	if err != nil {
		plano = s
	}
	return strings.ToUpper(strings.Join(strings.Fields(plano), " "))
}

// Buscar busca insumos por término normalizado.
func (uc *UseCase) Buscar(ctx context.Context, in dto.BuscarCatalogoRequest) ([]dto.CatalogoItemResponse, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = 20
	}
	items, err := uc.catalogoRepo.Buscar(ctx, repository.FiltroCatalogo{
		Termino: Normalizar(in.Termino),
		Limit:   limit,
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

// Importar procesa un CSV con cabecera y hace upsert por
// (codigo_insumo, codigo_presentacion). Las filas inválidas se reportan y no
// detienen la importación.
func (uc *UseCase) Importar(ctx context.Context, r io.Reader) (*dto.ImportarCatalogoResponse, error) {
	lector := csv.NewReader(r)
	lector.FieldsPerRecord = len(columnasCSV)
	lector.TrimLeadingSpace = true

	cabecera, err := lector.Read()
	if err != nil {
		return nil, &domain.ValidacionError{Motivo: "el archivo CSV está vacío o es ilegible"}
	}
	for i, col := range columnasCSV {
		if Normalizar(cabecera[i]) != Normalizar(col) {
			return nil, &domain.ValidacionError{
				Motivo: fmt.Sprintf("cabecera inválida: se esperaba %q en la columna %d", col, i+1),
			}
		}
	}

	resp := &dto.ImportarCatalogoResponse{}
	fila := 1
	for {
		registro, err := lector.Read()
		if err == io.EOF {
			break
		}
		fila++
		if err != nil {
			resp.Errores = append(resp.Errores, fmt.Sprintf("fila %d: %v", fila, err))
			continue
		}
		resp.Procesados++

		item, err := parseFila(registro)
		if err != nil {
			resp.Errores = append(resp.Errores, fmt.Sprintf("fila %d: %v", fila, err))
			continue
		}
		if err := uc.catalogoRepo.Upsert(ctx, item); err != nil {
			resp.Errores = append(resp.Errores, fmt.Sprintf("fila %d: %v", fila, err))
			continue
		}
		resp.Importados++
	}
	return resp, nil
}

func parseFila(registro []string) (*entity.CatalogoInsumos, error) {
	renglon, err := strconv.Atoi(strings.TrimSpace(registro[0]))
	if err != nil || renglon <= 0 {
		return nil, fmt.Errorf("renglón inválido: %q", registro[0])
	}
	codigoInsumo, err := strconv.ParseInt(strings.TrimSpace(registro[1]), 10, 64)
	if err != nil || codigoInsumo <= 0 {
		return nil, fmt.Errorf("código de insumo inválido: %q", registro[1])
	}
	nombre := Normalizar(registro[2])
	if nombre == "" {
		return nil, fmt.Errorf("el nombre del insumo es obligatorio")
	}
	codigoPresentacion, err := strconv.ParseInt(strings.TrimSpace(registro[4]), 10, 64)
	if err != nil || codigoPresentacion <= 0 {
		return nil, fmt.Errorf("código de presentación inválido: %q", registro[4])
	}
	return &entity.CatalogoInsumos{
		Renglon:            renglon,
		CodigoInsumo:       codigoInsumo,
		NombreInsumo:       nombre,
		Caracteristicas:    Normalizar(registro[3]),
		CodigoPresentacion: codigoPresentacion,
		NombrePresentacion: Normalizar(registro[5]),
		UnidadMedida:       Normalizar(registro[6]),
	}, nil
}
