package wire

import (
	"net/http"

	"blog-platform/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	authenticate func(http.Handler) http.Handler,
) {
	r.Route("/api/users", func(r chi.Router) {
		r.With(authenticate).Get("/me", userHandler.GetProfile)
		r.With(authenticate).Put("/me", userHandler.UpdateProfile)

		r.Get("/{username}", userHandler.GetPublicProfile)
	})
}
