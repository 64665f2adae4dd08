package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budget-service/internal/adapter/erapi"
	"budget-service/internal/adapter/square"
	"budget-service/internal/handler"
	"budget-service/internal/service"
	"budget-service/internal/store"
	"budget-service/internal/usecase"
	"budget-service/pkg/config"
	"budget-service/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log := logger.Init(cfg.Log.Level)

	log.Info("Starting app...")

	dataDir, err := config.ResolveDataDir(cfg.Rates.DataDir)
	if err != nil {
		log.Fatalf("Failed to resolve data directory: %v", err)
	}
	log.Infof("Using data directory: %s", dataDir)

	// initialize adapters
	rateStore := store.NewFileStore(dataDir, log)
	squareClient := square.NewClient(cfg.Rates.PrimaryURL, log)
	erapiClient := erapi.NewClient(cfg.Rates.SecondaryURL, log)
	log.Info("Initialized adapters")

	// initialize service
	rateService := service.NewRateService(squareClient, erapiClient, rateStore, log)
	log.Info("Initialized service layer")

	// initialize usecase
	ratesUsecase := usecase.NewRatesUsecase(rateService, log)
	log.Info("Initialized usecase layer")

	ratesHandler := handler.NewRatesHandler(ratesUsecase, log)

	r := gin.Default()

	// cors middleware
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Length"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")
	api.GET("/rates", ratesHandler.GetRates)
	api.GET("/rates/history", ratesHandler.GetRatesHistory)
	api.POST("/rates/refresh", ratesHandler.RefreshRates)

	// task scheduler
	c := cron.New()

	_, err = c.AddFunc(cfg.Rates.RefreshCron, func() {
		log.Info("Running scheduled daily rate update...")
		ctx := context.Background()
		if err := ratesUsecase.RefreshRates(ctx); err != nil {
			log.Errorf("Scheduled rate update failed: %v", err)
		} else {
			log.Info("Scheduled rate update done")
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule rate updates: %v", err)
	}

	c.Start()
	log.Infof("Scheduler initialized, rates refresh on %q", cfg.Rates.RefreshCron)

	// Startup freshness gate: refresh synchronously before serving so rate
	// queries never answer with known-stale data. A failed refresh is logged
	// and the server still starts with whatever old data exists.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	if err := ratesUsecase.EnsureFresh(startupCtx); err != nil {
		log.Errorf("Startup rate refresh failed, serving existing data if any: %v", err)
	}
	cancelStartup()

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: r,
	}

	go func() {
		log.Infof("Server starting on port %s...", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Got shutdown signal...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Error server shutdown:", err)
	}
	log.Info("Server stopped")

	c.Stop()
	log.Info("Scheduler stopped")

	log.Info("Gracefully shut down")
}
