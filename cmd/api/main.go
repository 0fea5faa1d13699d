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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/text/language"

	"github.com/jhoicas/tienda360-api/internal/application/auth"
	"github.com/jhoicas/tienda360-api/internal/application/catalog"
	"github.com/jhoicas/tienda360-api/internal/application/events"
	"github.com/jhoicas/tienda360-api/internal/application/finance"
	"github.com/jhoicas/tienda360-api/internal/application/inventory"
	"github.com/jhoicas/tienda360-api/internal/application/purchasing"
	"github.com/jhoicas/tienda360-api/internal/application/sales"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
	"github.com/jhoicas/tienda360-api/internal/infrastructure/memory"
	"github.com/jhoicas/tienda360-api/internal/infrastructure/metrics"
	"github.com/jhoicas/tienda360-api/internal/infrastructure/notify"
	"github.com/jhoicas/tienda360-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/tienda360-api/internal/interfaces/http"
	"github.com/jhoicas/tienda360-api/pkg/config"
	"github.com/jhoicas/tienda360-api/pkg/logger"
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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()

	var tx repository.TxRunner
	switch cfg.Store.Driver {
	case "memory":
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		tx = memory.New()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.Store.MigrateOnStart {
			if err := postgres.Migrate(ctx, pool, "up"); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		tx = postgres.NewTxRunner(pool)
	}

	// Notificaciones: siempre al log; a Redis si hay URL.
	formatter := notify.NewFormatter(language.Spanish)
	notifier := notify.Multi{notify.NewLogNotifier(log.Component("events"), formatter)}
	if cfg.Notify.RedisURL != "" {
		client, err := notify.NewRedisClient(ctx, cfg.Notify.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		notifier = append(notifier, notify.NewRedisNotifier(client, cfg.Notify.Channel, formatter))
		log.Info().Str("channel", cfg.Notify.Channel).Msg("eventos publicados en Redis")
	}

	var (
		gatherer prometheus.Gatherer
		recorder events.Recorder
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewWorkflow(reg)
		gatherer = reg
	}

	hooks := events.NewHooks(notifier, recorder, log.Component("workflow"))
	policy := access.DefaultPolicy()
	ledger := inventory.NewStockLedger()

	authUC := auth.NewAuthUseCase(tx, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := catalog.NewProductUseCase(tx, ledger, policy)
	stockUC := inventory.NewStockUseCase(tx, ledger, policy, hooks)
	saleUC := sales.NewSaleUseCase(tx, ledger, policy, hooks)
	purchaseUC := purchasing.NewPurchaseUseCase(tx, ledger, policy, hooks)
	financeUC := finance.NewFinanceUseCase(tx, policy, hooks)

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
		Title:    "Tienda360 API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		StockUC:     stockUC,
		SaleUC:      saleUC,
		PurchaseUC:  purchaseUC,
		FinanceUC:   financeUC,
		JWTSecret:   cfg.JWT.Secret,
		Gatherer:    gatherer,
		ServiceName: cfg.App.Name,
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
