package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastellanos/bodega-api/internal/application/dto"
	"github.com/jcastellanos/bodega-api/internal/application/reajustes"
)

// ReajusteHandler maneja las peticiones HTTP de reajustes (protegido).
type ReajusteHandler struct {
	uc *reajustes.UseCase
}

// NewReajusteHandler construye el handler.
func NewReajusteHandler(uc *reajustes.UseCase) *ReajusteHandler {
	return &ReajusteHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar reajuste
// @Description  Aplica una corrección de existencias (entrada o salida) sobre lotes concretos en una sola transacción.
// @Tags         reajustes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CrearReajusteRequest  true  "tipo, referencia y líneas"
// @Success      201   {object}  dto.ReajusteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reajustes [post]
func (h *ReajusteHandler) Create(c *fiber.Ctx) error {
	var in dto.CrearReajusteRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	resp, err := h.uc.Crear(c.Context(), GetUserID(c), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List godoc
// @Summary      Listar reajustes
// @Tags         reajustes
// @Security     Bearer
// @Produce      json
// @Param        tipo_reajuste  query  int     false  "1=entrada, 2=salida"
// @Param        referencia     query  string  false  "filtro por documento de referencia"
// @Param        fecha_inicio   query  string  false  "desde (RFC3339)"
// @Param        fecha_fin      query  string  false  "hasta (RFC3339)"
// @Param        limit          query  int     false  "tamaño de página"
// @Param        offset         query  int     false  "desplazamiento"
// @Success      200  {object}  map[string]any
// @Router       /api/reajustes [get]
func (h *ReajusteHandler) List(c *fiber.Ctx) error {
	var in dto.ListarReajustesRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	items, total, err := h.uc.FindAll(c.Context(), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"reajustes": items,
		"page":      dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	})
}

// GetByID godoc
// @Summary      Consultar un reajuste
// @Tags         reajustes
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "id del reajuste"
// @Success      200  {object}  dto.ReajusteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reajustes/{id} [get]
func (h *ReajusteHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	resp, err := h.uc.FindOne(c.Context(), int64(id))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(resp)
}

// Revertir godoc
// @Summary      Revertir un reajuste
// @Description  Invierte los movimientos del reajuste y lo elimina. Se rechaza si algún lote registró movimientos posteriores.
// @Tags         reajustes
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "id del reajuste"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reajustes/{id} [delete]
func (h *ReajusteHandler) Revertir(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	if err := h.uc.Revertir(c.Context(), int64(id)); err != nil {
		return responderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reajuste revertido"})
}

// BuscarCatalogo godoc
// @Summary      Buscar insumos para reajustar
// @Description  Busca en el catálogo restringiendo a los renglones autorizados del usuario.
// @Tags         reajustes
// @Security     Bearer
// @Produce      json
// @Param        q      query  string  true   "término de búsqueda"
// @Param        limit  query  int     false  "máximo de resultados"
// @Success      200  {array}  dto.CatalogoItemResponse
// @Router       /api/reajustes/catalogo [get]
func (h *ReajusteHandler) BuscarCatalogo(c *fiber.Ctx) error {
	var in dto.BuscarCatalogoRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	items, err := h.uc.BuscarCatalogo(c.Context(), GetUserID(c), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(items)
}
