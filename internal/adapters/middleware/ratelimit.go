package middleware

import (
	"encoding/json"
	"math"
	"net/http"

	"golang.org/x/time/rate"
)

// WriteRateLimit applies one process-wide token bucket to POST and DELETE
// requests. perSecond <= 0 disables it.
func WriteRateLimit(perSecond float64) func(http.Handler) http.Handler {
	if perSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	burst := int(math.Max(1, math.Ceil(perSecond)))
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isWrite(r.Method) && !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests, slow down"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isWrite(method string) bool {
	return method == http.MethodPost || method == http.MethodDelete
}
