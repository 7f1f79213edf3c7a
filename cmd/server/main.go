package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	orderapp "github.com/b2bportal/backend/internal/application/order"
	pricingapp "github.com/b2bportal/backend/internal/application/pricing"
	syncapp "github.com/b2bportal/backend/internal/application/sync"
	"github.com/b2bportal/backend/internal/infrastructure/config"
	"github.com/b2bportal/backend/internal/infrastructure/logger"
	"github.com/b2bportal/backend/internal/infrastructure/persistence"
	"github.com/b2bportal/backend/internal/interfaces/http/handler"
	"github.com/b2bportal/backend/internal/interfaces/http/middleware"
	"github.com/b2bportal/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting B2B portal backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	groupRepo := persistence.NewGormGroupRepository(db.DB)
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	packageRepo := persistence.NewGormPackageRepository(db.DB)
	counterpartyRepo := persistence.NewGormCounterpartyRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	priceTypeRepo := persistence.NewGormPriceTypeRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	agreementRepo := persistence.NewGormAgreementRepository(db.DB)
	buyerProfileRepo := persistence.NewGormBuyerProfileRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	specialPriceRepo := persistence.NewGormSpecialPriceRepository(db.DB)
	productPriceRepo := persistence.NewGormProductPriceRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	syncRunRepo := persistence.NewGormSyncRunRepository(db.DB)

	txManager := persistence.NewGormTransactionManager(db.DB)
	recorder := syncapp.NewRunRecorder(syncRunRepo, log)

	// Reconcilers
	nomenclatureService := syncapp.NewNomenclatureService(groupRepo, unitRepo, productRepo, packageRepo, txManager, recorder, log)
	stockService := syncapp.NewStockService(stockRepo, productRepo, warehouseRepo, txManager, recorder, log)
	counterpartyService := syncapp.NewCounterpartyService(counterpartyRepo, addressRepo, txManager, recorder, log)
	warehouseService := syncapp.NewWarehouseService(warehouseRepo, txManager, recorder, log)
	agreementService := syncapp.NewAgreementService(counterpartyRepo, contractRepo, agreementRepo, priceTypeRepo, warehouseRepo, txManager, recorder, log)
	specialPriceService := syncapp.NewSpecialPriceService(specialPriceRepo, productRepo, counterpartyRepo, agreementRepo, priceTypeRepo, txManager, recorder, log)
	priceService := syncapp.NewPriceService(productPriceRepo, productRepo, priceTypeRepo, txManager, recorder, log)

	// Pricing and orders
	resolver := pricingapp.NewResolver(productRepo, counterpartyRepo, agreementRepo, priceTypeRepo, specialPriceRepo, productPriceRepo, log)
	orderService := orderapp.NewService(orderRepo, buyerProfileRepo, counterpartyRepo, agreementRepo, contractRepo, warehouseRepo, priceTypeRepo, addressRepo, productRepo, packageRepo, resolver, log)
	exportService := orderapp.NewExportService(orderRepo, txManager, recorder, cfg.Sync.DefaultPageSize, cfg.Sync.MaxPageSize, log)

	// HTTP handlers
	syncHandler := handler.NewSyncHandler(nomenclatureService, stockService, counterpartyService, warehouseService, agreementService, specialPriceService, priceService)
	exportHandler := handler.NewExportHandler(exportService)
	runHandler := handler.NewRunHandler(syncRunRepo)
	catalogHandler := handler.NewCatalogHandler(resolver)
	orderHandler := handler.NewOrderHandler(orderService)
	systemHandler := handler.NewSystemHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint outside API versioning
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithExchangeGuard(middleware.SharedSecret(cfg.Sync.Secret)),
	)
	r.Register(systemHandler).
		Register(catalogHandler).
		Register(orderHandler)
	r.RegisterExchange(syncHandler).
		RegisterExchange(exportHandler).
		RegisterExchange(runHandler)
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

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
