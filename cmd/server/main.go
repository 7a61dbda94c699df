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

	"resto-pos/config"
	"resto-pos/internal/api"
	"resto-pos/internal/broker"
	"resto-pos/internal/redisclient"
	"resto-pos/internal/service"
	"resto-pos/internal/store"
	"resto-pos/internal/util"
	"resto-pos/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting resto-pos")

	tp, err := util.InitTracer("resto-pos", cfg.Observ.JaegerEndpoint)
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

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	st := service.NewSQLStore(db)
	lockTTL := time.Duration(cfg.Business.OrderLockSeconds) * time.Second
	idemTTL := time.Duration(cfg.Business.IdempotencyTTLHours) * time.Hour

	couponService := service.NewCouponService(st)
	orderService := service.NewOrderService(st, redisClient, eventPublisher, couponService, lockTTL, idemTTL)
	paymentService := service.NewPaymentService(orderService, st, eventPublisher)
	deliveryService := service.NewDeliveryService(st, eventPublisher)
	menuService := service.NewMenuService(st)
	inventoryService := service.NewInventoryService(st, redisClient, eventPublisher)
	tableService := service.NewTableService(st)
	customerService := service.NewCustomerService(st)
	userService := service.NewUserService(st)
	reportService := service.NewReportService(st, cfg.Business.TopProductsLimit)
	restaurantService := service.NewRestaurantService(st)

	ctx := context.Background()
	if restaurants, err := restaurantService.ListRestaurants(ctx); err != nil {
		log.Printf("Failed to list restaurants for stock sync: %v", err)
	} else {
		for _, r := range restaurants {
			if err := inventoryService.SyncStockToRedis(ctx, r.ID); err != nil {
				log.Printf("Failed to sync stock to Redis for %s: %v", r.ID, err)
			}
		}
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	notifyConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
	notifyWorker := worker.NewNotificationWorker(notifyConsumer)
	go func() {
		if err := notifyWorker.Start(workerCtx); err != nil {
			log.Printf("Notification worker error: %v", err)
		}
	}()

	statsConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup+"-stats")
	statsWorker := worker.NewCustomerStatsWorker(statsConsumer, st)
	go func() {
		if err := statsWorker.Start(workerCtx); err != nil {
			log.Printf("Customer stats worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(api.Services{
		Orders:      orderService,
		Payments:    paymentService,
		Deliveries:  deliveryService,
		Menu:        menuService,
		Inventory:   inventoryService,
		Tables:      tableService,
		Customers:   customerService,
		Users:       userService,
		Coupons:     couponService,
		Reports:     reportService,
		Restaurants: restaurantService,
	})
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
	notifyWorker.Stop()
	statsWorker.Stop()

	log.Println("Server exited")
}
