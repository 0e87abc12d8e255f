package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/erp/grabfood/docs"
	catalogapp "github.com/erp/grabfood/internal/application/catalog"
	integrationapp "github.com/erp/grabfood/internal/application/integration"
	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/domain/order"
	"github.com/erp/grabfood/internal/infrastructure/auth"
	"github.com/erp/grabfood/internal/infrastructure/cache"
	"github.com/erp/grabfood/internal/infrastructure/config"
	"github.com/erp/grabfood/internal/infrastructure/delivery"
	"github.com/erp/grabfood/internal/infrastructure/logger"
	"github.com/erp/grabfood/internal/infrastructure/persistence"
	"github.com/erp/grabfood/internal/infrastructure/scheduler"
	"github.com/erp/grabfood/internal/infrastructure/storage"
	"github.com/erp/grabfood/internal/infrastructure/telemetry"
	"github.com/erp/grabfood/internal/interfaces/http/handler"
	"github.com/erp/grabfood/internal/interfaces/http/middleware"
	"github.com/erp/grabfood/internal/interfaces/http/router"
)

//	@title			Grab Food Integration API
//	@version		1.0
//	@description	Menu export, order webhooks and platform calls for the Grab food delivery integration

//	@host		localhost:8080
//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Partner bearer token. Format: "Bearer {token}"

//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						X-API-Key

const meterName = "github.com/erp/grabfood"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Grab integration service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Bool("grab_enabled", cfg.Grab.Enabled),
	)

	ctx := context.Background()

	tp, err := telemetry.NewProvider(ctx, telemetry.NewConfig(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.IsSQLite() {
		if err := db.AutoMigrate(ctx); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	if cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
			Enabled:    tp.IsEnabled(),
			LogFullSQL: cfg.Telemetry.DBLogFullSQL,
			DBName:     cfg.Database.DBName,
		}, log); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	store, err := cache.NewStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create key-value store", zap.Error(err))
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	var platform integration.DeliveryPlatform = delivery.DisabledPlatform{}
	if cfg.Grab.Enabled {
		adapter, err := delivery.NewGrabAdapter(delivery.NewGrabConfig(cfg.Grab), store, delivery.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create Grab client", zap.Error(err))
		}
		platform = adapter
	}

	var archive integration.PayloadArchive = storage.NoopArchive{}
	if cfg.Archive.Enabled {
		s3Archive, err := storage.NewS3Archive(&cfg.Archive, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create payload archive", zap.Error(err))
		}
		archive = s3Archive
	}

	metrics, err := telemetry.NewIntegrationMetrics(tp.Meter(meterName))
	if err != nil {
		log.Fatal("Failed to create integration metrics", zap.Error(err))
	}

	// Repositories
	menuRepo := persistence.NewGormMenuRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	webhookLogRepo := persistence.NewGormWebhookLogRepository(db.DB)

	// Services
	menuBuilder := integration.NewMenuBuilder(integration.MenuBuilderConfig{
		BaseURL:            cfg.Menu.ImageBaseURL,
		ExternalImageField: cfg.Menu.ExternalImageField,
		PriceTaxIncluded:   cfg.Menu.PriceTaxIncluded,
	})
	reconciler := order.NewReconciler(order.NewItemResolver(persistence.NewCatalogLookup(itemRepo, productRepo)))

	menuExportService := integrationapp.NewMenuExportService(menuRepo, productRepo, menuBuilder, archive, metrics, log)
	orderService := integrationapp.NewOrderService(orderRepo, reconciler, platform, archive, metrics, log)
	platformService := integrationapp.NewPlatformService(menuRepo, platform, store, cfg.Grab.PushCooldown, metrics, log)
	webhookLogService := integrationapp.NewWebhookLogService(webhookLogRepo, menuRepo, log)
	pricingService := catalogapp.NewPricingService(itemRepo, log)
	modifierSyncService := catalogapp.NewModifierSyncService(itemRepo, log)
	categorySyncService := catalogapp.NewCategorySyncService(menuRepo, itemRepo, productRepo, log)
	tokenService := auth.NewPartnerTokenService(cfg.Partner)

	// Periodic order pull
	var jobHistory handler.SyncJobHistory
	if cfg.Scheduler.Enabled {
		orderSync, err := scheduler.NewOrderSyncScheduler(scheduler.OrderSyncSchedulerConfigFrom(cfg.Scheduler), orderService, log)
		if err != nil {
			log.Fatal("Failed to create order sync scheduler", zap.Error(err))
		}
		if err := orderSync.Start(ctx); err != nil {
			log.Fatal("Failed to start order sync scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = orderSync.Stop(stopCtx)
		}()
		jobHistory = orderSync

		var merchants scheduler.MerchantSource = scheduler.NewMenuMerchantSource(menuRepo)
		if len(cfg.Scheduler.MerchantIDs) > 0 {
			merchants = scheduler.StaticMerchants(cfg.Scheduler.MerchantIDs)
		}
		trigger, err := scheduler.NewOrderSyncTrigger(orderSync, merchants, cfg.Scheduler.Interval, cfg.Scheduler.LookbackDays, log)
		if err != nil {
			log.Fatal("Failed to create order sync trigger", zap.Error(err))
		}
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start order sync trigger", zap.Error(err))
		}
		defer trigger.Stop()
	}

	// Handlers
	tokenHandler := handler.NewPartnerTokenHandler(tokenService)
	menuExportHandler := handler.NewMenuExportHandler(menuExportService)
	orderWebhookHandler := handler.NewOrderWebhookHandler(orderService)
	platformWebhookHandler := handler.NewPlatformWebhookHandler(webhookLogService)
	integrationHandler := handler.NewIntegrationHandler(platformService, menuExportService, orderService, webhookLogService)
	syncJobHandler := handler.NewSyncJobHandler(jobHistory)
	catalogHandler := handler.NewCatalogHandler(pricingService, modifierSyncService, categorySyncService)
	healthHandler := handler.NewHealthHandler(cfg.App.Name, telemetry.ServiceVersion, db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to setup validator", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tp.IsEnabled(),
	}))
	engine.Use(middleware.SpanAttributes())
	engine.Use(logger.GinMiddleware(log))
	httpMetrics, err := middleware.HTTPMetrics(tp.Meter(meterName))
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}
	engine.Use(httpMetrics)
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"Retry-After",
		},
		MaxAge: 12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.GET("/health", healthHandler.Health)

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(middleware.SwaggerConfig{
				Enabled:    cfg.Swagger.Enabled,
				AllowedIPs: cfg.Swagger.AllowedIPs,
			}),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
	}

	webhookAuth := middleware.PartnerAuth(tokenService, log)
	menuAuth := middleware.PartnerAuthWithConfig(middleware.PartnerAuthConfig{
		Validator: tokenService,
		Optional:  !cfg.Menu.RequireAuth,
		Logger:    log,
	})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.APIKeyAuth(cfg.Admin.APIKeys))

	r.RegisterRoot(router.NewPartnerGroup(router.PartnerEndpoints{
		IssueToken:        tokenHandler.IssueToken,
		GetMenu:           menuExportHandler.GetMenu,
		ExportMenu:        menuExportHandler.ExportMenu,
		SubmitOrder:       orderWebhookHandler.SubmitOrder,
		UpdateOrderState:  orderWebhookHandler.UpdateOrderState,
		MenuSyncState:     platformWebhookHandler.MenuSyncState,
		IntegrationStatus: platformWebhookHandler.IntegrationStatus,
		PushGrabMenu:      platformWebhookHandler.PushGrabMenu,
	}, router.PartnerAuth{
		Menu:     menuAuth,
		Webhooks: webhookAuth,
	}))
	r.RegisterRoot(router.NewLegacyTokenGroup(tokenHandler.IssueToken))

	r.Register(router.NewIntegrationGroup(router.IntegrationEndpoints{
		PushMenu:        integrationHandler.PushMenu,
		ActivationURL:   integrationHandler.ActivationURL,
		MenuTrace:       integrationHandler.MenuTrace,
		PreviewMenu:     integrationHandler.PreviewMenu,
		PushCooldown:    integrationHandler.PushCooldown,
		ListOrders:      integrationHandler.ListOrders,
		GetOrder:        integrationHandler.GetOrder,
		MarkOrder:       integrationHandler.MarkOrder,
		UpdateReadyTime: integrationHandler.UpdateReadyTime,
		SyncOrders:      integrationHandler.SyncOrders,
		ListSyncLogs:    integrationHandler.ListSyncLogs,
		ListSyncJobs:    syncJobHandler.ListSyncJobs,
	}))
	r.Register(router.NewCatalogGroup(router.CatalogEndpoints{
		PreviewPrices: catalogHandler.PreviewPrices,
		ApplyPrices:   catalogHandler.ApplyPrices,
		SyncModifiers: catalogHandler.SyncModifiers,
		SyncCategory:  catalogHandler.SyncCategory,
	}))

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", healthHandler.Info)
	r.Register(systemRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
