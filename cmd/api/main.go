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

	"github.com/jhoicas/Almacen-api/internal/application/alerting"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/replenishment"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/notify"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	// Repositorios atados al pool (consultas fuera de transacción)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	txnRepo := postgres.NewStockTransactionRepository(pool)
	alertRepo := postgres.NewStockAlertRepository(pool)
	orderRepo := postgres.NewRestockOrderRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Motor de alertas con sus transportes de notificación
	registry := alerting.NewRegistry(log)
	registry.Add(notify.NewConsoleNotifier(log))
	if cfg.SMTP.Enabled {
		registry.Add(notify.NewEmailNotifier(cfg.SMTP))
		log.Info().Strs("recipients", cfg.SMTP.Recipients).Msg("notificaciones por email habilitadas")
	}
	cooldown := time.Duration(cfg.Alerting.CooldownMinutes) * time.Minute
	engine := alerting.NewEngine(alertRepo, registry, cooldown, log)

	// Casos de uso
	stockUC := inventory.NewStockUseCase(txRunner, engine)
	queryUC := inventory.NewQueryUseCase(productRepo, txnRepo)
	replenishmentUC := replenishment.NewUseCase(txRunner, stockUC, engine, productRepo, supplierRepo, orderRepo, log)
	productUC := usecase.NewProductUseCase(productRepo, supplierRepo, stockUC)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	authUC := auth.NewUseCase(userRepo, cfg.JWT)

	// Monitor de fondo: reevalúa periódicamente todos los productos activos
	monitor := alerting.NewMonitor(engine, txRunner,
		time.Duration(cfg.Alerting.ScanSeconds)*time.Second, log)
	if cfg.Alerting.MonitorEnabled {
		monitor.Start()
	}

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
		Title:    "Almacen API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:       productUC,
		SupplierUC:      supplierUC,
		StockUC:         stockUC,
		QueryUC:         queryUC,
		AlertEngine:     engine,
		ReplenishmentUC: replenishmentUC,
		AuthUC:          authUC,
		JWTSecret:       cfg.JWT.Secret,
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

	if cfg.Alerting.MonitorEnabled {
		monitor.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
