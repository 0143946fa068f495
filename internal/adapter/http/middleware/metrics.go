package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/covebank/loancore/internal/infrastructure/metrics"
)

// MetricsMiddleware records request counts and latencies per route.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			path := normalizePath(r.URL.Path)
			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath collapses resource IDs so metrics cardinality stays bounded.
func normalizePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if i == 0 || part == "" {
			continue
		}
		prev := parts[i-1]
		if prev == "loans" || prev == "accounts" || prev == "users" {
			if !isRouteWord(part) {
				parts[i] = "{id}"
			}
		}
	}
	return strings.Join(parts, "/")
}

func isRouteWord(s string) bool {
	switch s {
	case "overdue", "transfers":
		return true
	}
	return false
}
