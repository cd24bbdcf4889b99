package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/mscheesy-pos/internal/application/service"
	"github.com/sangkips/mscheesy-pos/internal/config"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/cache"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/database"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/events"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/metrics"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/repository"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/settingsstore"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/handler"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/middleware"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/routes"
	"github.com/sangkips/mscheesy-pos/pkg/printer"
	"github.com/sangkips/mscheesy-pos/pkg/receipt"
	"github.com/sangkips/mscheesy-pos/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout       = 15 * time.Second
	idempotencySweepEvery = time.Hour
	cartSweepEvery        = 10 * time.Minute
	cacheKeyPrefix        = "mscheesy"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.App.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storeLocation, err := time.LoadLocation(cfg.Database.Timezone)
	if err != nil {
		logger.Warn("unknown store timezone, using UTC", zap.String("timezone", cfg.Database.Timezone), zap.Error(err))
		storeLocation = time.UTC
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.IsDevelopment(), logger)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db, logger); err != nil {
		return err
	}
	if err := database.SeedDefaultData(db, logger); err != nil {
		logger.Warn("failed to seed default data", zap.Error(err))
	}

	// Catalog cache
	var catalogCache cache.Cache
	var redisCache *cache.RedisCache
	switch cfg.Cache.Driver {
	case "redis":
		redisCache = cache.NewRedisCache(cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB), cacheKeyPrefix)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, catalog reads will fall through to the database", zap.Error(err))
		}
		defer redisCache.Close()
		catalogCache = redisCache
	default:
		catalogCache = cache.NewMemoryCache()
	}

	// Device-local printer settings
	settingsStore, err := settingsstore.Open(cfg.Settings.Dir)
	if err != nil {
		return err
	}
	defer settingsStore.Close()

	// Kitchen feed
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled() {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic, logger)
	}
	defer publisher.Close()

	// Thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		logger.Warn("failed to initialize printer, printing disabled", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	registry := metrics.NewRegistry()
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, logger)
	catalogService := service.NewCatalogService(productRepo, catalogCache, cfg.Cache.TTL, logger)
	cartService := service.NewCartService(productRepo, orderRepo, logger)
	receiptService := service.NewReceiptService(
		saleRepo,
		settingsStore,
		service.NewPrintDispatcher(thermalPrinter, thermalPrinter.Type() != printer.TypeNone),
		service.ReceiptConfig{
			Store: receipt.Store{
				Name:    cfg.Store.Name,
				Address: cfg.Store.Address,
				Phone:   cfg.Store.Phone,
			},
			Currency:      cfg.Store.CurrencySymbol,
			ReceiptPrefix: cfg.Store.ReceiptPrefix,
			Location:      storeLocation,
		},
		registry,
		logger,
	)
	checkoutService := service.NewCheckoutService(
		cartService,
		orderRepo,
		[]service.CommitHook{
			receiptService,
			service.NewOrderEventHook(publisher),
			service.NewSalesMetricsHook(registry),
		},
		registry,
		service.CheckoutConfig{
			ReceiptPrefix: cfg.Store.ReceiptPrefix,
			ConfirmDelay:  cfg.Checkout.ConfirmDelay,
			Location:      storeLocation,
		},
		logger,
		service.WithReceiptRenderer(receiptService),
	)
	kitchenService := service.NewKitchenService(orderRepo, publisher, registry, cfg.Kitchen.RemovalDelay, logger)
	salesService := service.NewSalesService(saleRepo, storeLocation, logger)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Product:  handler.NewProductHandler(catalogService),
		Cart:     handler.NewCartHandler(cartService),
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Kitchen:  handler.NewKitchenHandler(kitchenService),
		Sales:    handler.NewSalesHandler(salesService),
		Printer:  handler.NewPrinterHandler(receiptService),
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFromWindow(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Metrics:         registry,
		RateLimiter:     rateLimiter,
		Logger:          logger,
		Health: func(c *gin.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(c.Request.Context())
		},
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(idempotencySweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				n, err := idempotencyRepo.DeleteExpired(gctx, now)
				if err != nil {
					logger.Warn("idempotency sweep failed", zap.Error(err))
					continue
				}
				if n > 0 {
					logger.Info("expired idempotency keys removed", zap.Int64("count", n))
				}
			}
		}
	})
	g.Go(func() error {
		ticker := time.NewTicker(cartSweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				if n := cartService.EvictIdle(now.Add(-cfg.Checkout.CartIdleTTL)); n > 0 {
					logger.Info("idle carts removed", zap.Int("count", n))
				}
			}
		}
	})

	return g.Wait()
}
