package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/estoque-api/internal/application/access"
	"github.com/jhoicas/estoque-api/internal/application/catalog"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/orders"
	"github.com/jhoicas/estoque-api/internal/application/ports"
	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/infrastructure/cache"
	"github.com/jhoicas/estoque-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/estoque-api/internal/infrastructure/pdf"
	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/estoque-api/internal/infrastructure/printing"
	"github.com/jhoicas/estoque-api/internal/infrastructure/realtime"
	"github.com/jhoicas/estoque-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/estoque-api/internal/interfaces/http"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
	zl := log.Zerolog()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("realtime_source", cfg.Realtime.Source).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if applied, err := postgres.NewMigrator(pool, zl).Up(ctx); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	} else if len(applied) > 0 {
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	sectorRepo := postgres.NewSectorRepository(pool)
	printerRepo := postgres.NewPrinterRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	appMetrics := metrics.New()

	// Caché de reportes opcional: sin REDIS_ADDR los reportes se calculan siempre.
	var reportCache ports.ReportCache
	rdb, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis no disponible, caché de reportes deshabilitada")
	} else if rdb != nil {
		defer rdb.Close()
		reportCache = cache.NewReportCache(rdb, zl)
	}

	hub := realtime.NewHub(realtime.DefaultBuffer, zl)
	defer hub.Close()

	// Con REALTIME_SOURCE=postgres el feed lo alimenta el trigger NOTIFY y los casos de uso no publican.
	var publisher ports.EventPublisher = hub
	if cfg.Realtime.Source == "postgres" {
		publisher = ports.NopPublisher{}
		go postgres.NewListener(pool, hub, zl).Run(ctx)
	}

	dispatcher := printing.NewDispatcher(
		printerRepo, orderRepo,
		infrapdf.NewTicketRenderer(time.Local),
		printing.NewClient(cfg.Printing),
		appMetrics, zl,
	)

	ledgerUC := inventory.NewLedgerUseCase(txRunner, movementRepo, appMetrics, reportCache, zl)
	productUC := inventory.NewProductUseCase(productRepo, ledgerUC, zl)
	ordersUC := orders.NewUseCase(txRunner, orderRepo, orders.Deps{
		Publisher: publisher,
		Printer:   dispatcher,
		Metrics:   appMetrics,
		Cache:     reportCache,
	}, zl)
	reportUC := report.NewUseCase(productRepo, orderRepo, reportCache, time.Duration(cfg.Redis.ReportTTLSecond)*time.Second, zl)
	accountUC := access.NewAccountUseCase(txRunner, userRepo, access.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, zl)

	cronJobs, err := scheduler.New(cfg.Scheduler.LowStockCron, time.Local, reportUC, hub, zl)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}
	cronJobs.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		// sin WriteTimeout: el feed SSE mantiene la respuesta abierta
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(appMetrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Estoque API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(appMetrics.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Accounts:  accountUC,
		Resolver:  access.NewResolver(userRepo, zl),
		Products:  productUC,
		Ledger:    ledgerUC,
		Orders:    ordersUC,
		Sectors:   catalog.NewSectorUseCase(sectorRepo, reportCache, zl),
		Printers:  catalog.NewPrinterUseCase(printerRepo, zl),
		Reports:   reportUC,
		Events:    hub,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// cerrar el hub termina los streams SSE abiertos antes de esperar a las conexiones
	hub.Close()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	cronJobs.Stop(shutdownCtx)

	log.Info().Msg("aplicación detenida")
}
