package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/validade-api/internal/application/auth"
	"github.com/jhoicas/validade-api/internal/application/importer"
	"github.com/jhoicas/validade-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	UnitUC        *usecase.UnitUseCase
	ProductUC     *usecase.ProductUseCase
	LotUC         *usecase.LotUseCase
	StockUC       *usecase.StockUseCase
	ReportUC      *usecase.ReportUseCase
	AlertConfigUC *usecase.AlertConfigUseCase
	MovementUC    *usecase.MovementUseCase
	QueryLogUC    *usecase.QueryLogUseCase
	Importer      *importer.Service
	JWTSecret     string
}

// Router registra las rutas de la API bajo /api.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público salvo /me)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)

	// Rutas protegidas: token válido y usuario activo cargado con sus unidades
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), LoadUser(deps.AuthUC))
	protected.Get("/auth/me", authHandler.Me)

	users := protected.Group("/users", RequireSuperuser())
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Post("/:id/units", userHandler.LinkUnit)

	units := protected.Group("/units")
	unitHandler := NewUnitHandler(deps.UnitUC)
	units.Get("/summary", unitHandler.Summary)
	units.Get("/", unitHandler.List)
	units.Post("/", unitHandler.Create)
	units.Get("/:id", unitHandler.GetByID)
	units.Put("/:id", unitHandler.Update)
	units.Delete("/:id", unitHandler.Delete)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/validity", productHandler.Validity)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id/lots", productHandler.Lots)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	lots := protected.Group("/lots")
	lotHandler := NewLotHandler(deps.LotUC)
	lots.Get("/", lotHandler.List)
	lots.Post("/", lotHandler.Create)
	lots.Get("/:id", lotHandler.GetByID)
	lots.Put("/:id", lotHandler.Update)
	lots.Delete("/:id", lotHandler.Delete)

	stockHandler := NewStockHandler(deps.StockUC)
	protected.Get("/stock/summary", stockHandler.Summary)
	protected.Get("/stock", stockHandler.List)

	reportHandler := NewReportHandler(deps.ReportUC)
	protected.Get("/criticality-report/pdf", reportHandler.CriticalityPDF)
	protected.Get("/criticality-report", reportHandler.Criticality)

	configs := protected.Group("/alert-configs")
	configHandler := NewAlertConfigHandler(deps.AlertConfigUC)
	configs.Get("/", configHandler.List)
	configs.Post("/", configHandler.Create)
	configs.Get("/:id", configHandler.GetByID)
	configs.Put("/:id", configHandler.Update)
	configs.Delete("/:id", configHandler.Delete)

	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Get("/", movementHandler.List)
	movements.Post("/", movementHandler.Create)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Patch("/:id/status", movementHandler.UpdateStatus)

	protected.Get("/query-logs", NewQueryLogHandler(deps.QueryLogUC).List)

	imports := protected.Group("/imports")
	importHandler := NewImportHandler(deps.Importer)
	imports.Post("/daily-stock", importHandler.DailyStock)
	imports.Post("/counts", importHandler.Counts)
}
