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
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-dashboard/internal/config"
	"github.com/mamadbah2/inventory-dashboard/internal/repository"
	"github.com/mamadbah2/inventory-dashboard/internal/repository/memory"
	"github.com/mamadbah2/inventory-dashboard/internal/repository/mongodb"
	"github.com/mamadbah2/inventory-dashboard/internal/repository/sheets"
	"github.com/mamadbah2/inventory-dashboard/internal/scheduler"
	"github.com/mamadbah2/inventory-dashboard/internal/server/handlers"
	"github.com/mamadbah2/inventory-dashboard/internal/server/router"
	alertsvc "github.com/mamadbah2/inventory-dashboard/internal/service/alerts"
	authsvc "github.com/mamadbah2/inventory-dashboard/internal/service/auth"
	"github.com/mamadbah2/inventory-dashboard/internal/service/export"
	inventorysvc "github.com/mamadbah2/inventory-dashboard/internal/service/inventory"
	"github.com/mamadbah2/inventory-dashboard/internal/telemetry"
	"github.com/mamadbah2/inventory-dashboard/pkg/clients/alerting"
	"github.com/mamadbah2/inventory-dashboard/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	gin.SetMode(gin.ReleaseMode)

	var (
		records repository.RecordStore
		users   repository.UserStore
	)
	switch cfg.Store.Backend {
	case config.BackendMongoDB:
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoClient, err := mongodb.Connect(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err == nil {
			err = mongoClient.EnsureIndexes(connectCtx)
		}
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoClient.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		records, users = mongoClient.Records(), mongoClient.Users()
	default:
		baseLogger.Warn("using in-memory store, data is lost on restart")
		records, users = memory.NewRecordStore(), memory.NewUserStore()
	}

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsRepo = repo
		baseLogger.Info("google sheets export enabled", zap.String("range", cfg.Sheets.Range))
	} else {
		baseLogger.Warn("google sheets credentials missing, sheets export disabled")
	}

	reg := telemetry.NewRegistry()

	authService := authsvc.NewService(users, cfg.Session, baseLogger.Named("svc.auth"))
	inventoryService := inventorysvc.NewService(records, reg, baseLogger.Named("svc.inventory"))
	publisher := export.NewSheetsPublisher(sheetsRepo, cfg.Sheets.Range, baseLogger.Named("svc.export"))

	engine, err := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(authService, cfg.Session.SecureCookie, baseLogger.Named("handlers.auth")),
		Inventory: handlers.NewInventoryHandler(inventoryService, publisher.Enabled(), baseLogger.Named("handlers.inventory")),
		Export:    handlers.NewExportHandler(inventoryService, publisher, reg, baseLogger.Named("handlers.export")),
	}, authService, reg, baseLogger.Named("router"))
	if err != nil {
		baseLogger.Fatal("failed to build router", zap.Error(err))
	}

	if cfg.Alerts.Enabled() {
		alertService := alertsvc.NewService(records, alerting.NewWebhookClient(cfg.Alerts.WebhookURL), reg, baseLogger.Named("svc.alerts"))
		sched, err := scheduler.NewScheduler(cfg.Alerts, alertService, baseLogger.Named("scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	} else {
		baseLogger.Warn("alert webhook missing, low stock digest disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
