package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/retailhub/retail-api/internal/retail/application"
	"github.com/retailhub/retail-api/internal/retail/infrastructure/clients"
	retailhttp "github.com/retailhub/retail-api/internal/retail/infrastructure/http"
	retailkafka "github.com/retailhub/retail-api/internal/retail/infrastructure/kafka"
	"github.com/retailhub/retail-api/pkg/cache"
	"github.com/retailhub/retail-api/pkg/idempotency"
	"github.com/retailhub/retail-api/pkg/logging"
	"github.com/retailhub/retail-api/pkg/shutdown"
	"github.com/retailhub/retail-api/pkg/tracing"
)

func main() {
	log := logging.New(logging.ParseLevel(env("LOG_LEVEL", "info")))

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// Configuration
	httpAddr := env("HTTP_ADDR", ":8080")
	customerURL := env("CUSTOMER_SERVICE_URL", "http://localhost:7001")
	inventoryURL := env("INVENTORY_SERVICE_URL", "http://localhost:7002")
	productURL := env("PRODUCT_SERVICE_URL", "http://localhost:7003")
	invoiceURL := env("INVOICE_SERVICE_URL", "http://localhost:7004")
	levelUpURL := env("LEVELUP_SERVICE_URL", "http://localhost:7005")
	redisAddr := env("REDIS_ADDR", "localhost:6379")
	kafkaBrokers := []string{env("KAFKA_ADDR", "localhost:9092")}
	levelUpTopic := env("LEVELUP_TOPIC", retailkafka.DefaultTopic)
	otlpEndpoint := env("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	callTimeout := envDuration("REMOTE_CALL_TIMEOUT", 3*time.Second)
	breakerFailures := envInt("BREAKER_FAILURE_THRESHOLD", 5)
	breakerCooldown := envDuration("BREAKER_COOLDOWN", 30*time.Second)

	tp, err := tracing.Init(ctx, "retail-api", otlpEndpoint)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	// Redis: read cache + idempotency guard
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	// Kafka producer
	writer := retailkafka.NewWriter(kafkaBrokers)
	defer writer.Close()
	publisher := retailkafka.NewLoyaltyPublisher(log, writer, levelUpTopic)

	// Remote service gateways; only the points lookup carries a breaker.
	levelUps := clients.NewLevelUpBreaker(log,
		clients.NewLevelUpClient(levelUpURL, callTimeout),
		uint32(breakerFailures), breakerCooldown)

	svc := application.NewService(log,
		clients.NewCustomerClient(customerURL, callTimeout),
		clients.NewInventoryClient(inventoryURL, callTimeout),
		clients.NewProductClient(productURL, callTimeout),
		clients.NewInvoiceClient(invoiceURL, callTimeout),
		levelUps,
		publisher,
	)

	handler := retailhttp.NewHandler(log, svc,
		cache.NewRedis(rdb),
		idempotency.NewStore(rdb, 24*time.Hour))

	r := chi.NewRouter()
	r.Mount("/", handler.Routes())
	srv := &http.Server{
		Addr:         httpAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", httpAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("retail-api shutdown complete")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
