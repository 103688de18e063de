package wire

import (
	"net/http"
	"time"

	"blog-platform/internal/adaptor"
	"blog-platform/pkg/middleware"
	"blog-platform/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	authenticate func(http.Handler) http.Handler,
	config *utils.Config,
) {
	r.Route("/api/auth", func(r chi.Router) {
		// per client IP, credential and code endpoints only
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(config.RateLimit.AuthPerMinute, time.Minute))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/verify-email", authHandler.VerifyEmail)
			r.Post("/resend-verification", authHandler.ResendVerification)
		})

		r.With(authenticate).Get("/me", authHandler.Me)
	})
}
