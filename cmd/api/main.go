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
	"github.com/jhoicas/validade-api/internal/application/auth"
	"github.com/jhoicas/validade-api/internal/application/importer"
	"github.com/jhoicas/validade-api/internal/application/usecase"
	"github.com/jhoicas/validade-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/validade-api/internal/infrastructure/pdf"
	"github.com/jhoicas/validade-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/validade-api/internal/interfaces/http"
	"github.com/jhoicas/validade-api/pkg/config"
	"github.com/jhoicas/validade-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
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

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	unitRepo := postgres.NewUnitRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	configRepo := postgres.NewAlertConfigRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	queryLogRepo := postgres.NewQueryLogRepository(pool)

	var recorder importer.Recorder
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New("validade")
		recorder = m
	}

	queryLogUC := usecase.NewQueryLogUseCase(queryLogRepo, log)
	productUC := usecase.NewProductUseCase(productRepo, unitRepo, lotRepo, configRepo, queryLogUC)
	reportUC := usecase.NewReportUseCase(unitRepo, productRepo, lotRepo, configRepo, queryLogUC, infrapdf.NewCriticalityPDFGenerator())
	importSvc := importer.NewService(unitRepo, postgres.NewTxRunner(pool), log, recorder)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:            cfg.JWT.Secret,
		ExpMinutes:        cfg.JWT.Expiration,
		RefreshExpMinutes: cfg.JWT.RefreshExpiration,
		Issuer:            cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.Import.MaxUploadMB * 1024 * 1024,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	if m != nil {
		app.Use(m.Middleware())
		app.Get("/metrics", m.Handler())
	}

	// Swagger UI: http://localhost:<port>/docs
	if cfg.App.SwaggerEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Validade API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        usecase.NewUserUseCase(userRepo, unitRepo),
		UnitUC:        usecase.NewUnitUseCase(unitRepo),
		ProductUC:     productUC,
		LotUC:         usecase.NewLotUseCase(lotRepo, productRepo),
		StockUC:       usecase.NewStockUseCase(productRepo, lotRepo, movementRepo, queryLogUC),
		ReportUC:      reportUC,
		AlertConfigUC: usecase.NewAlertConfigUseCase(configRepo, unitRepo),
		MovementUC:    usecase.NewMovementUseCase(movementRepo, productRepo, lotRepo, unitRepo),
		QueryLogUC:    queryLogUC,
		Importer:      importSvc,
		JWTSecret:     cfg.JWT.Secret,
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
