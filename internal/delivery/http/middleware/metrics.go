package middleware

import (
	"net/http"
	"time"

	"sunushop-backend/internal/metrics"
)

// Metrics records request counts and latency keyed by the matched route
// pattern. It must wrap the ServeMux directly so r.Pattern is populated.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(route, r.Method, wrapped.statusCode, time.Since(start))
	})
}
