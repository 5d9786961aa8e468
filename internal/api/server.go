package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/unrolled/secure"

	"github.com/bher20/locadora/internal/api/swagger"
	"github.com/bher20/locadora/internal/listings"
	"github.com/bher20/locadora/internal/logger"
	"github.com/bher20/locadora/internal/metrics"
	"github.com/bher20/locadora/internal/notification"
	"github.com/bher20/locadora/internal/quote"
	"github.com/bher20/locadora/internal/storage"
	"github.com/bher20/locadora/internal/ui"
)

// Deps are the services the HTTP layer exposes.
type Deps struct {
	Listings    *listings.Service
	Quotes      *quote.Service
	Mailer      *notification.Service
	Store       storage.Storage
	LeadCeiling decimal.Decimal
	// RateLimitPerMinute caps refresh and email calls per client IP.
	RateLimitPerMinute int
	// Production enables HTTPS redirects and HSTS.
	Production     bool
	RequestTimeout time.Duration
}

// Server holds the HTTP handlers.
type Server struct {
	listings *listings.Service
	quotes   *quote.Service
	mailer   *notification.Service
	store    storage.Storage
	ceiling  decimal.Decimal
	validate *validator.Validate
	log      *slog.Logger
}

// NewRouter builds the chi router with middleware, API routes, docs, UI and
// operational endpoints.
func NewRouter(d Deps) http.Handler {
	s := &Server{
		listings: d.Listings,
		quotes:   d.Quotes,
		mailer:   d.Mailer,
		store:    d.Store,
		ceiling:  d.LeadCeiling,
		validate: validator.New(),
		log:      logger.With("api"),
	}

	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	limit := d.RateLimitPerMinute
	if limit <= 0 {
		limit = 30
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RealIP,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		s.secureHeaders(d.Production),
		instrument,
	)

	r.Get("/healthz", s.handleHealth)
	r.Get("/livez", s.handleLive)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/docs", http.StripPrefix("/docs", swagger.Handler()))
	r.Handle("/ui/*", http.StripPrefix("/ui/", ui.Handler()))
	r.Get("/ui", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/", http.StatusMovedPermanently)
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/", http.StatusFound)
	})

	limiter := httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusTooManyRequests, "muitas requisições, tente novamente em instantes")
		}),
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/locations", s.handleLocations)
		r.Get("/listings", s.handleListings)
		r.Get("/listings/{name}", s.handleListing)
		r.Post("/quotes", s.handleQuote)

		r.Group(func(r chi.Router) {
			r.Use(limiter)
			r.Post("/listings/refresh", s.handleRefresh)
			r.Post("/quotes/email", s.handleQuoteEmail)
		})
	})

	return r
}

func (s *Server) secureHeaders(production bool) func(http.Handler) http.Handler {
	sm := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; " +
			"script-src 'self' https://unpkg.com; " +
			"style-src 'self' 'unsafe-inline' https://unpkg.com; " +
			"img-src 'self' data:",
		SSLRedirect:     production,
		SSLProxyHeaders: map[string]string{"X-Forwarded-Proto": "https"},
		STSSeconds:      stsSeconds(production),
		IsDevelopment:   !production,
	})
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sm.Process(w, r); err != nil {
				s.log.Warn("api: secure headers blocked request", "error", err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func stsSeconds(production bool) int64 {
	if production {
		return 31536000
	}
	return 0
}

// instrument records request metrics under the matched route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RequestsTotal.WithLabelValues(route, r.Method).Inc()
		metrics.RequestDurationSeconds.WithLabelValues(route).Observe(time.Since(start).Seconds())
		if status >= 400 {
			metrics.RequestErrorsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		}
	})
}
