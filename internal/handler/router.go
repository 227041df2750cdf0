package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kyleBSCS/pokedex/internal/domain"
	"github.com/kyleBSCS/pokedex/internal/infra/observability"
	"github.com/kyleBSCS/pokedex/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Options tunes the HTTP surface.
type Options struct {
	// MaxPageLimit is the largest accepted ?limit=.
	MaxPageLimit int
	// AllowedOrigins lists the browser origins allowed by CORS ("*" for any).
	AllowedOrigins []string
}

// NewRouter creates the HTTP router with all routes and middleware.
// px and breaker may be nil, in which case their health entries are skipped
// and only the operational endpoints are useful.
func NewRouter(
	px *service.Pokedex,
	breaker *gobreaker.CircuitBreaker,
	opts Options,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(px, breaker))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API ---
	r.Route("/api", func(r chi.Router) {
		r.Get("/types", listTypesHandler())
		r.Get("/metrics/summary", metricsSummaryHandler(metrics))

		// /api/entities is the generic name of the same resource.
		for _, base := range []string{"/pokemon", "/entities"} {
			r.With(countRequests("list", metrics)).
				Get(base, listPokemonHandler(px, opts.MaxPageLimit, logger))
			r.With(countRequests("detail", metrics)).
				Get(base+"/{id}", getPokemonHandler(px, logger))
			// Trailing slash with no id answers like a blank id.
			r.With(countRequests("detail", metrics)).
				Get(base+"/", getPokemonHandler(px, logger))
		}
	})

	return r
}

// ============================================================
// Health & metrics
// ============================================================

func healthzHandler(px *service.Pokedex, breaker *gobreaker.CircuitBreaker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "pokedex-api", Status: "healthy", LastChecked: now},
		}

		if breaker != nil {
			status := "healthy"
			switch breaker.State() {
			case gobreaker.StateHalfOpen:
				status = "degraded"
			case gobreaker.StateOpen:
				status = "unhealthy"
			}
			services = append(services, domain.ServiceHealth{
				Name:        "pokeapi",
				Status:      status,
				Detail:      "circuit " + breaker.State().String(),
				LastChecked: now,
			})
		}

		if px != nil {
			detail := "not loaded"
			if age, ok := px.DirectoryAge(); ok {
				detail = fmt.Sprintf("age %s", age.Truncate(time.Second))
			}
			services = append(services, domain.ServiceHealth{
				Name:        "directory-cache",
				Status:      "healthy",
				Detail:      detail,
				LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func metricsSummaryHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Summary())
	}
}
