package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastellanos/bodega-api/internal/application/compras"
	"github.com/jcastellanos/bodega-api/internal/application/dto"
)

// CompraHandler maneja las peticiones HTTP de ingresos de compras (protegido).
type CompraHandler struct {
	uc *compras.UseCase
}

// NewCompraHandler construye el handler.
func NewCompraHandler(uc *compras.UseCase) *CompraHandler {
	return &CompraHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar ingreso de compras
// @Description  Crea cabecera, detalles, lotes, filas de inventario y movimientos ENTRADA en una sola transacción.
// @Tags         compras
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CrearCompraRequest  true  "factura con detalles y lotes"
// @Success      201   {object}  dto.CrearCompraResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/compras [post]
func (h *CompraHandler) Create(c *fiber.Ctx) error {
	var in dto.CrearCompraRequest
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
// @Summary      Listar ingresos de compras
// @Tags         compras
// @Security     Bearer
// @Produce      json
// @Param        proveedor     query  string  false  "filtro por proveedor"
// @Param        fecha_inicio  query  string  false  "desde (RFC3339)"
// @Param        fecha_fin     query  string  false  "hasta (RFC3339)"
// @Param        limit         query  int     false  "tamaño de página"
// @Param        offset        query  int     false  "desplazamiento"
// @Success      200  {object}  map[string]any
// @Router       /api/compras [get]
func (h *CompraHandler) List(c *fiber.Ctx) error {
	var in dto.ListarComprasRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	items, total, err := h.uc.FindAll(c.Context(), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(fiber.Map{
		"compras": items,
		"page":    dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	})
}

// GetByID godoc
// @Summary      Consultar un ingreso de compras
// @Tags         compras
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "id del ingreso"
// @Success      200  {object}  dto.CompraResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/compras/{id} [get]
func (h *CompraHandler) GetByID(c *fiber.Ctx) error {
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

// Update godoc
// @Summary      Actualizar metadatos de la cabecera
// @Description  Solo metadatos de factura; cantidades y lotes no se editan.
// @Tags         compras
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                         true  "id del ingreso"
// @Param        body  body      dto.ActualizarCompraRequest true  "metadatos"
// @Success      200   {object}  dto.CompraResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/compras/{id} [put]
func (h *CompraHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	var in dto.ActualizarCompraRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	resp, err := h.uc.Actualizar(c.Context(), int64(id), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(resp)
}

// Anular godoc
// @Summary      Anular un ingreso de compras
// @Description  Elimina el ingreso completo si ninguno de sus lotes fue tocado por despachos o reajustes.
// @Tags         compras
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "id del ingreso"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/compras/{id} [delete]
func (h *CompraHandler) Anular(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	if err := h.uc.Anular(c.Context(), int64(id)); err != nil {
		return responderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ingreso anulado"})
}
