package wire

import (
	"net/http"

	"blog-platform/internal/adaptor"
	"blog-platform/internal/data/entity"
	"blog-platform/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireAdmin mounts /api/admin; every route needs a valid token and the ADMIN role.
func wireAdmin(
	r chi.Router,
	handler *adaptor.Handler,
	authenticate func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireRole(string(entity.RoleAdmin), log))

		r.Get("/stats", handler.Admin.Stats)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", handler.Admin.ListUsers) // ?page=1&per_page=10
			r.Put("/{id}/status", handler.Admin.UpdateUserStatus)
			r.Put("/{id}/role", handler.Admin.UpdateUserRole)
			r.Delete("/{id}", handler.Admin.DeleteUser)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", handler.Admin.ListPosts)
			r.Put("/{id}/published", handler.Admin.SetPostPublished)
			r.Delete("/{id}", handler.Admin.DeletePost)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", handler.Category.List)
			r.Post("/", handler.Category.Create)
			r.Put("/{id}", handler.Category.Update)
			r.Delete("/{id}", handler.Category.Delete)
		})

		r.Route("/newsletter", func(r chi.Router) {
			r.Get("/subscribers", handler.Newsletter.ListSubscribers)
			r.Patch("/subscribers/{id}", handler.Newsletter.UpdateSubscriber)
			r.Post("/campaigns", handler.Newsletter.SendCampaign)
		})
	})
}
