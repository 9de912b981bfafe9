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

	"pricing-service/config"
	"pricing-service/internal/api"
	"pricing-service/internal/broker"
	"pricing-service/internal/redisclient"
	"pricing-service/internal/service"
	"pricing-service/internal/store"
	"pricing-service/internal/util"
	"pricing-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting pricing service")

	tp, err := util.InitTracer("pricing-service", cfg.Observ.JaegerEndpoint)
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

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicPrice)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	signalClient := service.NewSignalClient(db, redisClient)
	quoteService := service.NewQuoteService(db, redisClient, eventPublisher, signalClient,
		time.Duration(cfg.Pricing.QuoteCacheTTLSeconds)*time.Second)
	importService := service.NewImportService(db, redisClient, eventPublisher, cfg.Pricing.ImportBatchSize)
	repriceService := service.NewRepriceService(db, signalClient, eventPublisher)

	ctx := context.Background()
	if err := signalClient.SyncSignalsToRedis(ctx); err != nil {
		log.Printf("Failed to sync signals to Redis: %v", err)
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	repriceConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicPrice, cfg.Kafka.ConsumerGroup)
	repriceWorker := worker.NewRepriceWorker(repriceConsumer, repriceService)
	go func() {
		if err := repriceWorker.Start(workerCtx); err != nil {
			log.Printf("Reprice worker error: %v", err)
		}
	}()

	syncConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicPrice, "signal-sync-group")
	syncWorker := worker.NewSignalSyncWorker(syncConsumer, signalClient)
	go func() {
		if err := syncWorker.Start(workerCtx); err != nil {
			log.Printf("Signal sync worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(quoteService, importService, repriceService)
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
	repriceWorker.Stop()
	syncWorker.Stop()

	log.Println("Server exited")
}
