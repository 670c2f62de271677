package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/access"
	"github.com/jhoicas/estoque-api/internal/application/catalog"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/orders"
	"github.com/jhoicas/estoque-api/internal/application/report"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Accounts  *access.AccountUseCase
	Resolver  actorResolver
	Products  *inventory.ProductUseCase
	Ledger    *inventory.LedgerUseCase
	Orders    *orders.UseCase
	Sectors   *catalog.SectorUseCase
	Printers  *catalog.PrinterUseCase
	Reports   *report.UseCase
	Events    eventSource // nil deshabilita /api/orders/events
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.Accounts)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: Bearer Token + actor resuelto en el servidor
	protected := api.Group("", AuthMiddleware(deps.JWTSecret), ActorMiddleware(deps.Resolver))
	anyRole := RequireAnyRole()

	protected.Get("/auth/me", authHandler.Me)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.Products)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Post("/", Require(access.CapManageProducts), productHandler.Create)
	products.Put("/:id", Require(access.CapManageProducts), productHandler.Update)
	products.Delete("/:id", Require(access.CapDeleteRecords), productHandler.Delete)

	movements := protected.Group("/stock-movements")
	movementHandler := NewMovementHandler(deps.Ledger)
	movements.Get("/", Require(access.CapViewLedger), movementHandler.List)
	movements.Post("/", Require(access.CapRecordMovements), movementHandler.Record)
	movements.Delete("/:id", Require(access.CapDeleteRecords), movementHandler.Delete)

	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.Orders, deps.Events)
	ordersGroup.Get("/events", anyRole, orderHandler.Events)
	ordersGroup.Get("/", anyRole, orderHandler.List)
	ordersGroup.Get("/:id", anyRole, orderHandler.GetByID)
	ordersGroup.Post("/", Require(access.CapCreateOrders), orderHandler.Create)
	ordersGroup.Patch("/:id/status", Require(access.CapProcessOrders), orderHandler.UpdateStatus)
	ordersGroup.Post("/:id/print", Require(access.CapProcessOrders), orderHandler.Print)
	ordersGroup.Delete("/:id", Require(access.CapDeleteRecords), orderHandler.Delete)

	sectors := protected.Group("/sectors")
	sectorHandler := NewSectorHandler(deps.Sectors)
	sectors.Get("/", anyRole, sectorHandler.List)
	sectors.Post("/", Require(access.CapManageSectors), sectorHandler.Create)
	sectors.Put("/:id", Require(access.CapManageSectors), sectorHandler.Update)
	sectors.Delete("/:id", Require(access.CapManageSectors), sectorHandler.Delete)

	printers := protected.Group("/printers", Require(access.CapManagePrinters))
	printerHandler := NewPrinterHandler(deps.Printers)
	printers.Get("/", printerHandler.List)
	printers.Post("/", printerHandler.Create)
	printers.Put("/:id", printerHandler.Update)
	printers.Patch("/:id/active", printerHandler.SetActive)
	printers.Delete("/:id", printerHandler.Delete)

	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.Accounts)
	users.Get("/", Require(access.CapAdministerUsers), userHandler.List)
	users.Get("/:id", Require(access.CapAdministerUsers), userHandler.GetByID)
	users.Post("/", Require(access.CapAdministerUsers), userHandler.Create)
	users.Put("/:id", Require(access.CapAdministerUsers), userHandler.Update)
	users.Delete("/:id", Require(access.CapDeleteUsers), userHandler.Delete)

	reports := protected.Group("/reports", Require(access.CapViewReports))
	reportHandler := NewReportHandler(deps.Reports)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/dashboard", reportHandler.Dashboard)
}
