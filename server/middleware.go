package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Ishitag04/price-comparison-app/internal/types"
)

type contextKey string

const loggerContextKey contextKey = "logger"

// RequestIDHeader carries the id assigned to each request
const RequestIDHeader = "X-Request-ID"

// RequestLogger assigns every request an id, stores a logger carrying it
// in the request context and logs the request once it completes.
func RequestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()
			entry := logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
			})

			w.Header().Set(RequestIDHeader, requestID)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), loggerContextKey, entry)))

			entry.WithFields(logrus.Fields{
				"status":   ww.Status(),
				"duration": time.Since(start).String(),
			}).Info("Request completed")
		})
	}
}

// LoggerFromContext returns the request logger, or fallback outside a request
func LoggerFromContext(ctx context.Context, fallback types.Logger) types.Logger {
	if entry, ok := ctx.Value(loggerContextKey).(*logrus.Entry); ok {
		return entry
	}
	return fallback
}

// RateLimit rejects requests beyond the limiter's budget with 429
func RateLimit(limiter *rate.Limiter, logger types.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				LoggerFromContext(r.Context(), logger).Warnf("Rate limit exceeded for %s", r.URL.Path)
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// newInboundLimiter builds the server-wide limiter; a non-positive rate disables it
func newInboundLimiter(config *types.Config) *rate.Limiter {
	if config.InboundRatePerSec <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := config.InboundBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(config.InboundRatePerSec), burst)
}
