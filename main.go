package main

import (
	stdlog "log"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/pfolio/backend/src/config"
	"github.com/username/pfolio/backend/src/database"
	"github.com/username/pfolio/backend/src/handlers"
	"github.com/username/pfolio/backend/src/logger"
	"github.com/username/pfolio/backend/src/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}
	logger.InitLogger(cfg.LogLevel)
	logger.L.Info("Pfolio backend server starting...")

	logger.L.Info("Initializing database...", "path", cfg.DatabasePath)
	database.InitDB(cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing services...")
	securityService := services.NewSecurityService(cfg)
	if err := securityService.LoadSecurities(); err != nil {
		logger.L.Error("Failed to load security reference data", "error", err)
	}

	marketDataService := services.NewMarketDataService(cfg)
	if err := marketDataService.LoadMarketData(); err != nil {
		logger.L.Error("Failed to load market data", "error", err)
	}

	resultCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)
	pipelineService := services.NewPipelineService(cfg, securityService, marketDataService, resultCache)

	logger.L.Info("Configuring routes...")
	pipelineHandler := handlers.NewPipelineHandler(pipelineService, cfg)
	securityHandler := handlers.NewSecurityHandler(securityService)
	router := handlers.NewRouter(pipelineHandler, securityHandler)

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
