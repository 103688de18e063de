package middleware

import (
	"net/http"
	"time"

	"blog-platform/pkg/utils"

	"github.com/go-chi/httprate"
)

// RateLimitByIP allows requestLimit requests per window for each client IP.
// A non-positive limit disables limiting.
func RateLimitByIP(requestLimit int, window time.Duration) func(http.Handler) http.Handler {
	if requestLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(requestLimit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.ResponseTooManyRequests(w, "Too many requests, try again later")
		}),
	)
}
