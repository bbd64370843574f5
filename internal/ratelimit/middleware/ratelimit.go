package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tokenguard/internal/platform/middleware"
	"tokenguard/internal/ratelimit/metrics"
	"tokenguard/internal/ratelimit/models"
	"tokenguard/pkg/platform/httputil"
	"tokenguard/pkg/requestcontext"
)

// BucketStore records requests against a keyed budget.
type BucketStore interface {
	AllowN(ctx context.Context, key string, cost int, limit int, window time.Duration) (*models.RateLimitResult, error)
}

// Middleware limits requests per authenticated wallet, or per client IP when
// no caller is known. Agent requests draw from their own budget.
type Middleware struct {
	store    BucketStore
	limits   map[models.EndpointClass]models.Limit
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

func New(store BucketStore, limits map[models.EndpointClass]models.Limit, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		store:  store,
		limits: limits,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.disabled {
		m.logger.Info("rate limiting disabled")
	}
	return m
}

// Classify picks the budget a request draws from.
func Classify(r *http.Request) models.EndpointClass {
	if requestcontext.Role(r.Context()) == middleware.RoleAgent {
		return models.ClassAgent
	}
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return models.ClassRead
	}
	return models.ClassWrite
}

// RateLimit must run after authentication so the caller is known. A nil
// Middleware passes every request through. Store failures fail open.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		class := Classify(r)
		limit, ok := m.limits[class]
		if !ok || limit.RequestsPerWindow <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := models.NewIPRateLimitKey(middleware.ClientIP(r), class)
		if caller := requestcontext.Caller(ctx); !caller.IsZero() {
			key = models.NewCallerRateLimitKey(caller.String(), class)
		}

		result, err := m.store.AllowN(ctx, key, 1, limit.RequestsPerWindow, limit.Window)
		if err != nil {
			m.metrics.IncrementStoreError()
			m.logger.ErrorContext(ctx, "failed to check rate limit",
				"error", err,
				"class", string(class),
				"request_id", requestcontext.RequestID(ctx),
			)
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, result)
		if !result.Allowed {
			m.metrics.IncrementRejection(string(class))
			m.logger.WarnContext(ctx, "rate limit exceeded",
				"class", string(class),
				"caller", requestcontext.Caller(ctx).String(),
				"request_id", requestcontext.RequestID(ctx),
			)
			writeRateLimitExceeded(w, result)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
