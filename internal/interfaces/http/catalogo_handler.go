package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastellanos/bodega-api/internal/application/catalogo"
	"github.com/jcastellanos/bodega-api/internal/application/dto"
)

// CatalogoHandler maneja las peticiones HTTP del catálogo de insumos.
type CatalogoHandler struct {
	uc *catalogo.UseCase
}

// NewCatalogoHandler construye el handler.
func NewCatalogoHandler(uc *catalogo.UseCase) *CatalogoHandler {
	return &CatalogoHandler{uc: uc}
}

// Buscar godoc
// @Summary      Buscar insumos en el catálogo
// @Tags         catalogo
// @Security     Bearer
// @Produce      json
// @Param        q      query  string  true   "término de búsqueda"
// @Param        limit  query  int     false  "máximo de resultados"
// @Success      200  {array}   dto.CatalogoItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/catalogo [get]
func (h *CatalogoHandler) Buscar(c *fiber.Ctx) error {
	var in dto.BuscarCatalogoRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	items, err := h.uc.Buscar(c.Context(), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(items)
}

// Importar godoc
// @Summary      Importar catálogo desde CSV
// @Description  Archivo multipart en el campo "archivo". Hace upsert por (codigo_insumo, codigo_presentacion); las filas inválidas se reportan sin detener la importación.
// @Tags         catalogo
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        archivo  formData  file  true  "CSV con cabecera"
// @Success      200  {object}  dto.ImportarCatalogoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/catalogo/importar [post]
func (h *CatalogoHandler) Importar(c *fiber.Ctx) error {
	fh, err := c.FormFile("archivo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "falta el archivo CSV en el campo \"archivo\""})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo abrir el archivo"})
	}
	defer f.Close()

	resp, err := h.uc.Importar(c.Context(), f)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(resp)
}
