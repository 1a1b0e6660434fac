package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ngo-filer/internal/api"
	"ngo-filer/internal/api/handlers"
	"ngo-filer/internal/app"
	"ngo-filer/internal/service"
	"ngo-filer/pkg/auth"
	"ngo-filer/pkg/config"
	"ngo-filer/pkg/logger"

	"go.uber.org/zap"
)

// @title NGO Filer API
// @version 1.0
// @description Validation, classification, filing and approval of NGO invoices and receipts

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting NGO filer service", zap.String("organization", cfg.Profile.NGOName))

	ctx := context.Background()
	a, err := app.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer a.Close()

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)
	authService := service.NewAuthService(a.Users, jwtManager, appLogger)

	authHandler := handlers.NewAuthHandler(authService, appLogger)
	docHandler := handlers.NewDocumentHandler(a.Document, a.Audit, appLogger)
	reportHandler := handlers.NewReportHandler(a.Document, a.Report, a.Export, a.Audit, appLogger)

	server := api.SetupRouter(authHandler, docHandler, reportHandler, jwtManager, api.RouterConfig{
		BodyLimitMB:  cfg.Server.BodyLimitMB,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := server.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := server.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
