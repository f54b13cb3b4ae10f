package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devconnect/backend/internal/models"
)

// LoginRateLimit caps attempts per client IP in a fixed window, counted in
// Redis so the limit holds across instances. A nil client disables limiting.
func LoginRateLimit(rdb *redis.Client, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rdb == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := "login_rate:" + clientIP(r)
			ctx := r.Context()

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Redis being down should not lock everyone out.
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(ctx, key, window)
			}
			if count > int64(limit) {
				writeJSON(w, http.StatusTooManyRequests, models.NewErrorResponse(http.StatusTooManyRequests, "Too many login attempts, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
