package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotel-analytics-service/config"
	"hotel-analytics-service/internal/alert"
	"hotel-analytics-service/internal/api"
	"hotel-analytics-service/internal/broker"
	"hotel-analytics-service/internal/forecast"
	"hotel-analytics-service/internal/redisclient"
	"hotel-analytics-service/internal/sample"
	"hotel-analytics-service/internal/service"
	"hotel-analytics-service/internal/store"
	"hotel-analytics-service/internal/util"
	"hotel-analytics-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting hotel analytics service")

	tp, err := util.InitTracer("hotel-analytics-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	// The order database is optional; CSV upload covers the no-DB case.
	var orders *store.Store
	if db, err := store.NewStore(cfg.Database.URL); err != nil {
		log.Printf("Order database unavailable, CSV upload only: %v", err)
	} else {
		orders = db
		defer orders.Close()
		log.Println("Order database connected")
	}

	snapshotTTL := time.Duration(cfg.Forecast.SnapshotTTLSeconds) * time.Second
	var cache *redisclient.Client
	if rc, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, snapshotTTL); err != nil {
		log.Printf("Redis unavailable, snapshots held in memory only: %v", err)
	} else {
		cache = rc
		defer cache.Close()
		log.Println("Redis connected")
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicAlerts)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	forecaster := forecast.NewSeasonalModel()
	analysisService := service.NewAnalysisService(forecaster, sample.DefaultRecipeTable(), cache, eventPublisher)
	alertService := service.NewAlertService(analysisService, eventPublisher)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	gateway := alert.NewSimulatedGateway(cfg.Alert.SenderNumber, cfg.Alert.GatewaySuccessRate)
	alertConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicAlerts, cfg.Kafka.ConsumerGroup)
	alertWorker := worker.NewAlertWorker(alertConsumer, gateway, eventPublisher)
	go func() {
		if err := alertWorker.Start(workerCtx); err != nil {
			log.Printf("Alert worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(analysisService, alertService, orders, cfg)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	alertWorker.Stop()

	log.Println("Server exited")
}
