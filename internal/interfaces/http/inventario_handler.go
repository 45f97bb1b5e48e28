package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastellanos/bodega-api/internal/application/dto"
	"github.com/jcastellanos/bodega-api/internal/application/inventario"
)

// InventarioHandler maneja las consultas de solo lectura sobre inventario.
type InventarioHandler struct {
	uc *inventario.UseCase
}

// NewInventarioHandler construye el handler.
func NewInventarioHandler(uc *inventario.UseCase) *InventarioHandler {
	return &InventarioHandler{uc: uc}
}

// List godoc
// @Summary      Listar lotes de inventario
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        buscar               query  string  false  "búsqueda en nombre, características o lote"
// @Param        codigo_insumo        query  int     false  "filtro por producto"
// @Param        lote                 query  string  false  "filtro por lote (parcial)"
// @Param        codigo_presentacion  query  int     false  "filtro por presentación"
// @Param        vencimiento_desde    query  string  false  "vence desde (RFC3339)"
// @Param        vencimiento_hasta    query  string  false  "vence hasta (RFC3339)"
// @Param        proximos_vencer      query  bool    false  "solo lotes próximos a vencer"
// @Param        stock_bajo           query  bool    false  "solo lotes con existencia baja"
// @Success      200  {array}  dto.InventarioResponse
// @Router       /api/inventario [get]
func (h *InventarioHandler) List(c *fiber.Ctx) error {
	var in dto.ListarInventarioRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	items, err := h.uc.List(c.Context(), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(items)
}

// GetByID godoc
// @Summary      Consultar un lote
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "id del lote"
// @Success      200  {object}  dto.InventarioResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/{id} [get]
func (h *InventarioHandler) GetByID(c *fiber.Ctx) error {
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

// Existencias godoc
// @Summary      Consultar existencias
// @Description  Lotes con cantidad disponible mayor que cero, en orden de vencimiento.
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        codigo_insumo        query  int     false  "filtro por producto"
// @Param        lote                 query  string  false  "filtro por lote (parcial)"
// @Param        codigo_presentacion  query  int     false  "filtro por presentación"
// @Success      200  {array}  dto.InventarioResponse
// @Router       /api/inventario/existencias [get]
func (h *InventarioHandler) Existencias(c *fiber.Ctx) error {
	var in dto.DisponibilidadRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	items, err := h.uc.Existencias(c.Context(), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(items)
}

// Historial godoc
// @Summary      Consultar el libro de movimientos
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        id_inventario    query  int     false  "filtro por lote"
// @Param        codigo_insumo    query  int     false  "filtro por producto"
// @Param        lote             query  string  false  "filtro por lote (parcial)"
// @Param        tipo_movimiento  query  string  false  "ENTRADA o SALIDA"
// @Param        modulo           query  string  false  "módulo de origen"
// @Param        fecha_inicio     query  string  false  "desde (RFC3339)"
// @Param        fecha_fin        query  string  false  "hasta (RFC3339)"
// @Param        limit            query  int     false  "tamaño de página"
// @Param        offset           query  int     false  "desplazamiento"
// @Success      200  {object}  map[string]any
// @Router       /api/inventario/historial [get]
func (h *InventarioHandler) Historial(c *fiber.Ctx) error {
	var in dto.HistorialRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	items, total, err := h.uc.Historial(c.Context(), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"movimientos": items,
		"page":        dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	})
}

// Recientes godoc
// @Summary      Últimos movimientos registrados
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "máximo de movimientos (por defecto 10)"
// @Success      200  {array}  dto.MovimientoResponse
// @Router       /api/inventario/historial/recientes [get]
func (h *InventarioHandler) Recientes(c *fiber.Ctx) error {
	items, err := h.uc.MovimientosRecientes(c.Context(), c.QueryInt("limit"))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(items)
}

// Resumen godoc
// @Summary      Agregados del inventario para el tablero
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ResumenInventarioResponse
// @Router       /api/inventario/resumen [get]
func (h *InventarioHandler) Resumen(c *fiber.Ctx) error {
	resp, err := h.uc.Resumen(c.Context())
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(resp)
}

// Alertas godoc
// @Summary      Lotes próximos a vencer o vencidos
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AlertaVencimientoResponse
// @Router       /api/inventario/alertas [get]
func (h *InventarioHandler) Alertas(c *fiber.Ctx) error {
	items, err := h.uc.AlertasVencimiento(c.Context())
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(items)
}
