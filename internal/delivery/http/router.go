package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"ticketinventory/internal/delivery/http/controllers"
	"ticketinventory/internal/delivery/http/helpers"
	"ticketinventory/internal/delivery/http/middleware"
	"ticketinventory/internal/domain"

	_ "ticketinventory/docs"
)

// RouterDeps holds what NewRouter wires into the mux.
type RouterDeps struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	Templates      *controllers.TemplateController
	Registrations  *controllers.RegistrationController
	Tickets        *controllers.TicketController
	Gatherer       prometheus.Gatherer
	Ping           func(ctx context.Context) error
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(d.Verifier, d.Logger)
	guard := func(feature domain.Feature, next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireFeature(feature)(next))
	}

	// Templates
	mux.HandleFunc("POST /templates", guard(domain.FeatureManageTemplates, d.Templates.CreateTemplate))
	mux.HandleFunc("DELETE /templates", guard(domain.FeatureManageTemplates, d.Templates.DeleteTemplate))
	mux.HandleFunc("GET /templates/availability", guard(domain.FeatureViewTickets, d.Templates.Availability))

	// Registrations and tickets
	mux.HandleFunc("POST /registrations", guard(domain.FeatureManageTickets, d.Registrations.Register))
	mux.HandleFunc("POST /tickets/{ticketID}/cancel", guard(domain.FeatureManageTickets, d.Registrations.CancelTicket))
	mux.HandleFunc("GET /tickets", guard(domain.FeatureViewTickets, d.Tickets.ListTickets))

	// Operations
	mux.HandleFunc("GET /healthz", healthz(d.Ping))
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.CORS(d.AllowedOrigins, middleware.LoggingMiddleware(d.Logger, mux))
}

func healthz(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "database unavailable")
				return
			}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
