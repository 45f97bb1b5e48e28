package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jcastellanos/bodega-api/internal/application/auth"
	"github.com/jcastellanos/bodega-api/internal/application/catalogo"
	"github.com/jcastellanos/bodega-api/internal/application/compras"
	"github.com/jcastellanos/bodega-api/internal/application/despachos"
	"github.com/jcastellanos/bodega-api/internal/application/inventario"
	"github.com/jcastellanos/bodega-api/internal/application/reajustes"
	infrapdf "github.com/jcastellanos/bodega-api/internal/infrastructure/pdf"
	"github.com/jcastellanos/bodega-api/internal/infrastructure/postgres"
	httpRouter "github.com/jcastellanos/bodega-api/internal/interfaces/http"
	"github.com/jcastellanos/bodega-api/pkg/config"
	"github.com/jcastellanos/bodega-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	usuarioRepo := postgres.NewUsuarioRepository(pool)
	catalogoRepo := postgres.NewCatalogoRepository(pool)
	servicioRepo := postgres.NewServicioRepository(pool)
	compraRepo := postgres.NewCompraRepository(pool)
	despachoRepo := postgres.NewDespachoRepository(pool)
	reajusteRepo := postgres.NewReajusteRepository(pool)
	invRepo := postgres.NewInventarioRepository(pool)
	histRepo := postgres.NewHistorialRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// PDF: constancia de despacho para firma de recepción
	constancias := infrapdf.NewConstanciaGenerator()

	authUC := auth.NewUseCase(usuarioRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	compraUC := compras.NewUseCase(txRunner, compraRepo, catalogoRepo, usuarioRepo)
	despachoUC := despachos.NewUseCase(txRunner, despachoRepo, invRepo, servicioRepo, usuarioRepo, constancias)
	reajusteUC := reajustes.NewUseCase(txRunner, reajusteRepo, catalogoRepo, usuarioRepo)
	inventarioUC := inventario.NewUseCase(invRepo, histRepo)
	catalogoUC := catalogo.NewUseCase(catalogoRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Bodega API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CompraUC:     compraUC,
		DespachoUC:   despachoUC,
		ReajusteUC:   reajusteUC,
		InventarioUC: inventarioUC,
		CatalogoUC:   catalogoUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
