package mw

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	// RequestsPerMinute is the maximum number of requests per minute per IP. Zero disables limiting.
	RequestsPerMinute int

	// Exempt lists paths that are never counted, such as the long-lived WebSocket upgrade.
	Exempt []string
}

// RateLimitByIP returns a Chi middleware that rate limits by IP address.
// Rejected requests get a plain-text 429 and a warning in the log.
func RateLimitByIP(cfg RateLimitConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if cfg.RequestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limit := httprate.Limit(cfg.RequestsPerMinute, time.Minute,
		httprate.WithKeyByIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("Rate limit exceeded", "remote_addr", r.RemoteAddr, "uri", r.RequestURI)
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)
	return func(next http.Handler) http.Handler {
		limited := limit(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(cfg.Exempt, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		})
	}
}
