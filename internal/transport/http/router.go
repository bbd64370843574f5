package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tokenguard/internal/platform/metrics"
	"tokenguard/internal/platform/middleware"
	ratelimit "tokenguard/internal/ratelimit/middleware"
	"tokenguard/pkg/platform/httputil"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterConfig collects what NewRouter mounts. Auth is optional and only
// mounted when a revoker is configured; Trust is mounted when set. A nil
// RateLimit disables limiting.
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Validator      middleware.JWTValidator
	Revocations    middleware.TokenRevocationChecker
	RequestTimeout time.Duration
	HealthChecks   map[string]HealthCheck
	RateLimit      *ratelimit.Middleware

	Token      *TokenHandler
	Identity   *IdentityHandler
	Compliance *ComplianceHandler
	Trust      *TrustHandler
	Auth       *AuthHandler
}

// NewRouter wires every public endpoint. All /v1 routes require a bearer
// token; mutating ledger, identity and module routes require the agent role.
func NewRouter(cfg RouterConfig) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.LatencyMiddleware(cfg.Metrics))

	r.Get("/health", healthHandler(cfg.HealthChecks))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(cfg.Validator, cfg.Revocations, cfg.Logger))
		r.Use(cfg.RateLimit.RateLimit)

		cfg.Token.Register(r)
		cfg.Identity.Register(r)
		cfg.Compliance.Register(r)
		if cfg.Trust != nil {
			cfg.Trust.Register(r)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(middleware.RoleAgent, cfg.Logger))
			cfg.Token.RegisterAgent(r)
			cfg.Identity.RegisterAgent(r)
			cfg.Compliance.RegisterAgent(r)
			if cfg.Trust != nil {
				cfg.Trust.RegisterAgent(r)
			}
			if cfg.Auth != nil {
				cfg.Auth.RegisterAgent(r)
			}
		})
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
