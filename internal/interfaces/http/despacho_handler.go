package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jcastellanos/bodega-api/internal/application/despachos"
	"github.com/jcastellanos/bodega-api/internal/application/dto"
)

// DespachoHandler maneja las peticiones HTTP de despachos (protegido).
type DespachoHandler struct {
	uc *despachos.UseCase
}

// NewDespachoHandler construye el handler.
func NewDespachoHandler(uc *despachos.UseCase) *DespachoHandler {
	return &DespachoHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar despacho
// @Description  Consume lotes por fecha de vencimiento (el que vence primero sale primero). Todo o nada: si una línea no se cubre, no se despacha nada.
// @Tags         despachos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CrearDespachoRequest  true  "servicio destino y líneas solicitadas"
// @Success      201   {object}  dto.DespachoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/despachos [post]
func (h *DespachoHandler) Create(c *fiber.Ctx) error {
	var in dto.CrearDespachoRequest
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
// @Summary      Listar despachos
// @Tags         despachos
// @Security     Bearer
// @Produce      json
// @Param        codigo        query  string  false  "filtro por código"
// @Param        id_servicio   query  int     false  "filtro por servicio"
// @Param        fecha_inicio  query  string  false  "desde (RFC3339)"
// @Param        fecha_fin     query  string  false  "hasta (RFC3339)"
// @Param        limit         query  int     false  "tamaño de página"
// @Param        offset        query  int     false  "desplazamiento"
// @Success      200  {object}  map[string]any
// @Router       /api/despachos [get]
func (h *DespachoHandler) List(c *fiber.Ctx) error {
	var in dto.ListarDespachosRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	items, total, err := h.uc.FindAll(c.Context(), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"despachos": items,
		"page":      dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	})
}

// GetByID godoc
// @Summary      Consultar un despacho
// @Tags         despachos
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "id del despacho"
// @Success      200  {object}  dto.DespachoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/despachos/{id} [get]
func (h *DespachoHandler) GetByID(c *fiber.Ctx) error {
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

// Disponibilidad godoc
// @Summary      Consultar existencias despachables
// @Description  Lotes con existencia en el orden en que serían consumidos.
// @Tags         despachos
// @Security     Bearer
// @Produce      json
// @Param        codigo_insumo        query  int     false  "filtro por producto"
// @Param        lote                 query  string  false  "filtro por lote (parcial)"
// @Param        codigo_presentacion  query  int     false  "filtro por presentación"
// @Success      200  {array}  dto.InventarioResponse
// @Router       /api/despachos/disponibilidad [get]
func (h *DespachoHandler) Disponibilidad(c *fiber.Ctx) error {
	var in dto.DisponibilidadRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	items, err := h.uc.Disponibilidad(c.Context(), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(items)
}

// Servicios godoc
// @Summary      Listar servicios destino
// @Tags         despachos
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ServicioResponse
// @Router       /api/despachos/servicios [get]
func (h *DespachoHandler) Servicios(c *fiber.Ctx) error {
	items, err := h.uc.Servicios(c.Context())
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(items)
}

// Constancia godoc
// @Summary      Descargar constancia PDF del despacho
// @Tags         despachos
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "id del despacho"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/despachos/{id}/constancia [get]
func (h *DespachoHandler) Constancia(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	pdfBytes, err := h.uc.Constancia(c.Context(), int64(id))
	if err != nil {
		return responderError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="despacho-%d.pdf"`, id))
	return c.Send(pdfBytes)
}
