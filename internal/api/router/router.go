package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/booking-gateway/internal/appointments"
	"github.com/wolfman30/booking-gateway/internal/companies"
	httpmiddleware "github.com/wolfman30/booking-gateway/internal/http/middleware"
	"github.com/wolfman30/booking-gateway/internal/httpapi"
	"github.com/wolfman30/booking-gateway/internal/payments"
	"github.com/wolfman30/booking-gateway/internal/professionals"
	"github.com/wolfman30/booking-gateway/internal/services"
	"github.com/wolfman30/booking-gateway/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger               *logging.Logger
	CompaniesHandler     *companies.Handler
	ProfessionalsHandler *professionals.Handler
	ServicesHandler      *services.Handler
	AppointmentsHandler  *appointments.Handler
	PaymentWebhook       *payments.WebhookHandler
	MetricsHandler       http.Handler
	CORSAllowedOrigins   []string
	RateLimitPerSecond   float64
	RateLimitBurst       int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSecond > 0 && cfg.RateLimitBurst > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.CompaniesHandler != nil {
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", cfg.CompaniesHandler.List)
			r.Post("/", cfg.CompaniesHandler.Create)
			r.Get("/{companyID}", cfg.CompaniesHandler.Get)
		})
	}

	if cfg.ProfessionalsHandler != nil {
		r.Route("/professionals", func(r chi.Router) {
			r.Get("/", cfg.ProfessionalsHandler.List)
			r.Post("/", cfg.ProfessionalsHandler.Create)
			r.Get("/{professionalID}", cfg.ProfessionalsHandler.Get)
		})
	}

	if cfg.ServicesHandler != nil {
		r.Get("/services", cfg.ServicesHandler.ListServices)
		r.Get("/service_media", cfg.ServicesHandler.ListServiceMedia)
		r.Get("/service_professional", cfg.ServicesHandler.ListServiceProfessional)
	}

	if cfg.AppointmentsHandler != nil {
		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", cfg.AppointmentsHandler.List)
			r.Post("/", cfg.AppointmentsHandler.Create)
			r.Get("/{appointmentID}", cfg.AppointmentsHandler.Get)
			r.Patch("/{appointmentID}/deposit", cfg.AppointmentsHandler.UpdateDeposit)
		})
	}

	if cfg.PaymentWebhook != nil {
		r.Post("/webhooks/payment", cfg.PaymentWebhook.Handle)
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	httpapi.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
