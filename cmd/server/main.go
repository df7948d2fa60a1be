package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/elitepro/quotation/internal/ai"
	"github.com/elitepro/quotation/internal/auth"
	"github.com/elitepro/quotation/internal/config"
	"github.com/elitepro/quotation/internal/db"
	"github.com/elitepro/quotation/internal/export"
	"github.com/elitepro/quotation/internal/render"
	"github.com/elitepro/quotation/internal/server"
	"github.com/elitepro/quotation/internal/store"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	if *migrateOnlyFlag {
		if _, err := db.ConnectAndMigrate(cfg.DatabaseDSN); err != nil {
			log.Fatalf("migrate-only failed: %v", err)
		}
		log.Println("migrations completed; exiting as requested")
		return
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	dbConn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("database connect", zap.Error(err))
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		logger.Fatal("renderer init", zap.Error(err))
	}

	rasterizer := export.NewChromeRasterizer(&export.ChromeConfig{
		RemoteURL: cfg.ChromeRemoteURL,
		NoSandbox: cfg.ChromeNoSandbox,
		Logger:    logger,
	})
	exporter := export.NewExporter(rasterizer, logger)
	defer func() {
		if cerr := exporter.Close(); cerr != nil {
			logger.Warn("exporter close", zap.Error(cerr))
		}
	}()

	deps := server.Deps{
		DB:       dbConn,
		Store:    store.NewProfileStore(dbConn, uuid.NewString, logger),
		Renderer: renderer,
		Exporter: exporter,
		AI:       ai.NewClient(cfg.GeminiAPIKey),
		Creds:    auth.DefaultCredentials(),
		Log:      logger,
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: server.New(deps)}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
