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
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/application/usecase"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/directory"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/inventario-movimientos/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/scheduler"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/inventario-movimientos/internal/interfaces/http"
	"github.com/jhoicas/inventario-movimientos/pkg/config"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// storage agrupa los adaptadores de persistencia elegidos por STORE_BACKEND.
type storage struct {
	tx        inventory.TxRunner
	items     repository.InventoryItemRepository
	movements repository.MovementRepository
	employees repository.EmployeeDirectory
	projects  repository.ProjectDirectory
	close     func()
}

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
		Str("store", cfg.App.StoreBackend).
		Str("lock", cfg.Lock.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store := openStorage(ctx, cfg, log)
	defer store.close()

	if cfg.Directory.Backend == "http" {
		dir := directory.NewHTTPDirectory(directory.Config{
			BaseURL: cfg.Directory.URL,
			Token:   cfg.Directory.Token,
			Timeout: cfg.Directory.Timeout,
		})
		store.employees, store.projects = dir, dir
	}

	var locker inventory.Locker = lock.NewKeyedLocker()
	if cfg.Lock.Backend == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Lock.RedisAddr,
			Password: cfg.Lock.RedisPassword,
			DB:       cfg.Lock.RedisDB,
		})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		locker = lock.NewRedisLocker(rdb, lock.RedisOptions{
			Expiry:     cfg.Lock.Expiry,
			Tries:      cfg.Lock.Tries,
			RetryDelay: cfg.Lock.RetryDelay,
		}, log.Component("lock"))
	}

	var appMetrics inventory.Metrics = inventory.NopMetrics{}
	var prom *metrics.Prometheus
	if cfg.Metrics.Enabled {
		prom = metrics.NewPrometheus()
		appMetrics = prom
	}

	ledger := inventory.NewStockLedger(locker, cfg.Ledger.OperationTimeout, appMetrics)
	movementUC := inventory.NewMovementUseCase(
		store.tx, ledger, store.movements, store.employees, store.projects, appMetrics, log.Component("movements"),
	)
	queryUC := inventory.NewMovementQueryUseCase(
		store.movements, store.items, store.employees, store.projects,
		xlsx.NewMovementExporter(), infrapdf.NewReceiptGenerator(cfg.App.Name),
	)
	reconcileUC := inventory.NewReconcileUseCase(store.tx, ledger, store.items, store.movements, log.Component("reconcile"))
	itemUC := usecase.NewItemUseCase(store.items, ledger)

	if cfg.Reconcile.Cron != "" {
		sched, err := scheduler.New(cfg.Reconcile.Cron, reconcileUC, log.Component("scheduler"))
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler de reconciliación")
		}
		sched.Start()
		defer sched.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario - Movimientos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if prom != nil {
		app.Get("/metrics", adaptor.HTTPHandler(prom.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		MovementUC:  movementUC,
		QueryUC:     queryUC,
		ReconcileUC: reconcileUC,
		ItemUC:      itemUC,
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage conecta PostgreSQL (y aplica migraciones si DB_MIGRATE) o arma el store en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) *storage {
	if cfg.App.StoreBackend == "memory" {
		log.Warn().Msg("STORE_BACKEND=memory: los datos no se persisten")
		s := memory.NewStore()
		dir := s.Directory()
		return &storage{
			tx:        memory.NewTxRunner(s),
			items:     s.Items(),
			movements: s.Movements(),
			employees: dir,
			projects:  dir,
			close:     func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}
	dir := postgres.NewDirectoryRepository(pool)
	return &storage{
		tx:        postgres.NewTxRunner(pool),
		items:     postgres.NewInventoryItemRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		employees: dir,
		projects:  dir,
		close:     pool.Close,
	}
}
