package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastellanos/bodega-api/internal/application/auth"
	"github.com/jcastellanos/bodega-api/internal/application/catalogo"
	"github.com/jcastellanos/bodega-api/internal/application/compras"
	"github.com/jcastellanos/bodega-api/internal/application/despachos"
	"github.com/jcastellanos/bodega-api/internal/application/inventario"
	"github.com/jcastellanos/bodega-api/internal/application/reajustes"
	"github.com/jcastellanos/bodega-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	CompraUC     *compras.UseCase
	DespachoUC   *despachos.UseCase
	ReajusteUC   *reajustes.UseCase
	InventarioUC *inventario.UseCase
	CatalogoUC   *catalogo.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público, perfil protegido)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Perfil)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Los roles de consulta solo leen; las mutaciones exigen bodeguero o admin.
	muta := RequireRol(entity.RolAdmin, entity.RolBodeguero)

	// Compras (protegido)
	comprasGroup := protected.Group("/compras")
	compraHandler := NewCompraHandler(deps.CompraUC)
	comprasGroup.Post("/", muta, compraHandler.Create)
	comprasGroup.Get("/", compraHandler.List)
	comprasGroup.Get("/:id", compraHandler.GetByID)
	comprasGroup.Put("/:id", muta, compraHandler.Update)
	comprasGroup.Delete("/:id", RequireRol(entity.RolAdmin), compraHandler.Anular)

	// Despachos (protegido)
	despachosGroup := protected.Group("/despachos")
	despachoHandler := NewDespachoHandler(deps.DespachoUC)
	despachosGroup.Post("/", muta, despachoHandler.Create)
	despachosGroup.Get("/", despachoHandler.List)
	despachosGroup.Get("/disponibilidad", despachoHandler.Disponibilidad)
	despachosGroup.Get("/servicios", despachoHandler.Servicios)
	despachosGroup.Get("/:id", despachoHandler.GetByID)
	despachosGroup.Get("/:id/constancia", despachoHandler.Constancia)

	// Reajustes (protegido)
	reajustesGroup := protected.Group("/reajustes")
	reajusteHandler := NewReajusteHandler(deps.ReajusteUC)
	reajustesGroup.Post("/", muta, reajusteHandler.Create)
	reajustesGroup.Get("/", reajusteHandler.List)
	reajustesGroup.Get("/catalogo", reajusteHandler.BuscarCatalogo)
	reajustesGroup.Get("/:id", reajusteHandler.GetByID)
	reajustesGroup.Delete("/:id", RequireRol(entity.RolAdmin), reajusteHandler.Revertir)

	// Inventario (protegido, solo lectura)
	inventarioGroup := protected.Group("/inventario")
	inventarioHandler := NewInventarioHandler(deps.InventarioUC)
	inventarioGroup.Get("/", inventarioHandler.List)
	inventarioGroup.Get("/existencias", inventarioHandler.Existencias)
	inventarioGroup.Get("/historial", inventarioHandler.Historial)
	inventarioGroup.Get("/historial/recientes", inventarioHandler.Recientes)
	inventarioGroup.Get("/resumen", inventarioHandler.Resumen)
	inventarioGroup.Get("/alertas", inventarioHandler.Alertas)
	inventarioGroup.Get("/:id", inventarioHandler.GetByID)

	// Catálogo (protegido; la importación es solo admin)
	catalogoGroup := protected.Group("/catalogo")
	catalogoHandler := NewCatalogoHandler(deps.CatalogoUC)
	catalogoGroup.Get("/", catalogoHandler.Buscar)
	catalogoGroup.Post("/importar", RequireRol(entity.RolAdmin), catalogoHandler.Importar)
}
