package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"ms-bus-booking/internal/analytics"
	"ms-bus-booking/internal/api"
	"ms-bus-booking/internal/booking"
	"ms-bus-booking/internal/booking/db"
	"ms-bus-booking/internal/booking/store"
	"ms-bus-booking/internal/catalog"
	"ms-bus-booking/internal/config"
	"ms-bus-booking/internal/kafka"
	"ms-bus-booking/internal/ledger"
	"ms-bus-booking/internal/logger"
	"ms-bus-booking/internal/sse"
	"ms-bus-booking/internal/tickets/qr"
	"ms-bus-booking/internal/utils"
)

func buildLedger(ctx context.Context, cfg *config.Config, logger *logger.Logger) (ledger.SeatLedger, func()) {
	switch cfg.Booking.SeatLedger {
	case config.LedgerMemory:
		logger.Info("LEDGER", "Using in-memory seat ledger")
		return ledger.NewMemoryLedger(logger), func() {}
	case config.LedgerRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("REDIS", fmt.Sprintf("Redis connection error: %v", err))
		}
		logger.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s (DB: %d)", cfg.Redis.Addr, cfg.Redis.DB))
		return ledger.NewRedisLedger(redisClient, logger), func() { redisClient.Close() }
	default:
		logger.Fatal("CONFIG", fmt.Sprintf("Unknown SEAT_LEDGER %q", cfg.Booking.SeatLedger))
		return nil, nil
	}
}

func buildStore(ctx context.Context, cfg *config.Config, logger *logger.Logger) (booking.Store, func()) {
	if cfg.Database.Driver == config.StoreMemory {
		logger.Info("DATABASE", "Using in-memory booking store")
		return store.NewMemoryStore(), func() {}
	}

	bunDB, err := db.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("DATABASE", err.Error())
	}
	bookingDB := db.New(bunDB, logger)
	if err := bookingDB.Migrate(ctx); err != nil {
		logger.Fatal("DATABASE", err.Error())
	}
	return bookingDB, func() { bunDB.Close() }
}

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	level, knownLevel := logger.ParseLevel(cfg.Log.Level)
	logger := logger.NewLoggerInDir(cfg.Log.Dir)
	defer logger.Close()
	logger.SetLevel(level)
	if !knownLevel {
		logger.Warn("CONFIG", fmt.Sprintf("Unknown LOG_LEVEL %q, using INFO", cfg.Log.Level))
	}

	logger.Info("APP", "Starting Bus Booking Service initialization")
	if envErr != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seats, closeLedger := buildLedger(ctx, cfg, logger)
	defer closeLedger()

	bookings, closeStore := buildStore(ctx, cfg, logger)
	defer closeStore()

	cat := catalog.NewDefault(seats, cfg.Booking.ScheduleWindowDays)
	emitter := sse.NewEmitter()
	publishers := []booking.EventPublisher{emitter}

	if cfg.Kafka.Enabled {
		if cfg.Kafka.InstanceID == "" {
			cfg.Kafka.InstanceID = uuid.NewString()
		}
		logger.Info("KAFKA", fmt.Sprintf("Using Kafka brokers %v as instance %s", cfg.Kafka.Brokers, cfg.Kafka.InstanceID))

		requiredTopics := []string{cfg.Kafka.Topics.BookingEvents, cfg.Kafka.Topics.SeatStatus}
		if err := kafka.EnsureTopicsExist(ctx, cfg.Kafka.Brokers, requiredTopics, logger); err != nil {
			logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}

		producer := kafka.NewProducer(cfg.Kafka, logger)
		defer producer.Close()
		publishers = append(publishers, producer)

		consumer := kafka.NewSeatStatusConsumer(cfg.Kafka, logger)
		defer consumer.Close()
		go consumer.Start(ctx, emitter.EmitSeatStatus)
		logger.Info("KAFKA", "Kafka producer and seat status consumer initialized")
	} else {
		logger.Info("KAFKA", "Kafka disabled; events stay in process")
	}

	registry := booking.NewRegistry(bookings, seats, cat, utils.UUIDGenerator{}, logger, cfg.Booking.AllowedPhones, publishers...)
	if len(cfg.Booking.AllowedPhones) > 0 {
		logger.Info("SECURITY", fmt.Sprintf("Phone allow-list active with %d numbers", len(cfg.Booking.AllowedPhones)))
	}

	stats := analytics.NewService(bookings, cat)
	handler := api.NewHandler(cat, registry, stats, emitter, qr.NewGenerator(cfg.Tickets.QRSecret), logger)

	logger.Info("HTTP", "Setting up router and middleware")
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      api.NewRouter(handler, cfg.Server.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		// request contexts end with ctx so open SSE streams close on shutdown
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Bus Booking Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	}
	logger.Info("APP", "Server exited properly")
}
