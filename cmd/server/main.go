package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vitesse-mobility/service-rental/internal/application"
	"github.com/vitesse-mobility/service-rental/internal/auth"
	"github.com/vitesse-mobility/service-rental/internal/config"
	"github.com/vitesse-mobility/service-rental/internal/database"
	"github.com/vitesse-mobility/service-rental/internal/events"
	"github.com/vitesse-mobility/service-rental/internal/gateway"
	"github.com/vitesse-mobility/service-rental/internal/handler"
	"github.com/vitesse-mobility/service-rental/internal/kafka"
	"github.com/vitesse-mobility/service-rental/internal/logger"
	"github.com/vitesse-mobility/service-rental/internal/middleware"
	"github.com/vitesse-mobility/service-rental/internal/repository"
	"github.com/vitesse-mobility/service-rental/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.NewNamed(cfg.AppEnv, "service-rental")
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer log.Sync()

	db, err := database.Connect(cfg.DB.DSN())
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.RunMigrations(cfg.DB.DatabaseURL(), "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Repositories.
	bookingRepo := repository.NewBookingRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	photoRepo := repository.NewTripPhotoRepository(db)
	settingsStore := repository.NewCachedSettingsStore(
		repository.NewSettingsRepository(db),
		redisClient,
		time.Duration(cfg.Redis.SettingsTTLSeconds)*time.Second,
		log,
	)

	// Messaging.
	producer := kafka.NewProducer(cfg.Kafka.Brokers, events.TopicBookingEvents, events.SourceRentalService, log)
	defer producer.Close()

	// Gates to sibling services.
	verificationGate := gateway.NewVerificationClient(cfg.Gates.VerificationURL)
	paymentGate := gateway.NewPaymentClient(cfg.Gates.PaymentURL)

	// Application services.
	bookingService := application.NewBookingService(
		bookingRepo, vehicleRepo, settingsStore,
		verificationGate, paymentGate, producer, log,
	)
	vehicleService := application.NewVehicleService(vehicleRepo, log)
	settingsService := application.NewSettingsService(settingsStore, log)
	photoService := application.NewPhotoService(photoRepo, bookingRepo, log)

	// Inbound event consumers.
	consumerCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()

	verificationConsumer := events.NewVerificationEventConsumer(
		kafka.NewConsumer(cfg.Kafka.Brokers, events.TopicVerificationEvents, cfg.Kafka.GroupPrefix+"rental-verification", log),
		bookingService, log,
	)
	paymentConsumer := events.NewPaymentEventConsumer(
		kafka.NewConsumer(cfg.Kafka.Brokers, events.TopicPaymentEvents, cfg.Kafka.GroupPrefix+"rental-payment", log),
		bookingService, log,
	)
	go func() {
		if err := verificationConsumer.Start(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("verification consumer stopped", zap.Error(err))
		}
	}()
	go func() {
		if err := paymentConsumer.Start(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("payment consumer stopped", zap.Error(err))
		}
	}()

	// Background jobs.
	sched := scheduler.New(bookingService, cfg.Scheduler, log)
	if err := sched.Start(); err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}

	// HTTP server.
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.SecurityHeaders(),
		cors.New(cors.Config{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			MaxAge:           12 * time.Hour,
			AllowCredentials: false,
		}),
	)

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, 15*time.Minute, 7*24*time.Hour)

	handler.NewHealthHandler(db).RegisterRoutes(router)

	v1 := router.Group("/api/v1")
	handler.NewBookingHandler(bookingService, log).RegisterRoutes(v1, jwtManager)
	handler.NewVehicleHandler(vehicleService, bookingService, log).RegisterRoutes(v1)
	handler.NewPhotoHandler(photoService, log).RegisterRoutes(v1, jwtManager)
	handler.NewAdminHandler(vehicleService, bookingService, settingsService, log).RegisterRoutes(v1, jwtManager)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	stopConsumers()
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
