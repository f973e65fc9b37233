package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/booking-gateway/internal/api/router"
	"github.com/wolfman30/booking-gateway/internal/appointments"
	"github.com/wolfman30/booking-gateway/internal/companies"
	appconfig "github.com/wolfman30/booking-gateway/internal/config"
	"github.com/wolfman30/booking-gateway/internal/observability/metrics"
	"github.com/wolfman30/booking-gateway/internal/payments"
	"github.com/wolfman30/booking-gateway/internal/postgrest"
	"github.com/wolfman30/booking-gateway/internal/professionals"
	"github.com/wolfman30/booking-gateway/internal/services"
	"github.com/wolfman30/booking-gateway/pkg/logging"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-gateway API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.StoreURL == "" || cfg.StoreAnonKey == "" {
		logger.Error("STORE_URL and STORE_ANON_KEY must be set")
		os.Exit(1)
	}

	// Metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	gatewayMetrics := metrics.NewGatewayMetrics(reg)

	// Relational store client
	storeClient := postgrest.NewClient(cfg.StoreURL, cfg.StoreAnonKey, gatewayMetrics, logger.WithComponent("postgrest"))
	appointmentStore := appointments.NewPostgrestStore(storeClient)

	// Initialize handlers
	companiesHandler := companies.NewHandler(storeClient, logger.WithComponent("companies"))
	professionalsHandler := professionals.NewHandler(storeClient, logger.WithComponent("professionals"))
	servicesHandler := services.NewHandler(storeClient, logger.WithComponent("services"))
	appointmentsHandler := appointments.NewHandler(appointmentStore, gatewayMetrics, logger.WithComponent("appointments"))
	webhookHandler := payments.NewWebhookHandler(cfg.PaymentWebhookSecret, appointmentStore, gatewayMetrics, logger.WithComponent("payments"))

	// Setup router
	routerCfg := &router.Config{
		Logger:               logger,
		CompaniesHandler:     companiesHandler,
		ProfessionalsHandler: professionalsHandler,
		ServicesHandler:      servicesHandler,
		AppointmentsHandler:  appointmentsHandler,
		PaymentWebhook:       webhookHandler,
		MetricsHandler:       promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		RateLimitPerSecond:   cfg.RateLimitPerSecond,
		RateLimitBurst:       cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
