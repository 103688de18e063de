package wire

import (
	"net/http"

	"blog-platform/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePost(
	r chi.Router,
	postHandler *adaptor.PostHandler,
	categoryHandler *adaptor.CategoryHandler,
	authenticate func(http.Handler) http.Handler,
) {
	r.Get("/api/categories", categoryHandler.List)

	r.Route("/api/posts", func(r chi.Router) {
		// ?author=&authorId=&category=&sort=popular&page=&per_page=
		r.Get("/", postHandler.List)
		r.Get("/category/{slug}", postHandler.ListByCategory)
		r.With(authenticate).Get("/mine", postHandler.ListMine)
		r.Get("/{slug}", postHandler.GetBySlug)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", postHandler.Create)
			r.Post("/comment", postHandler.Comment)
			r.Post("/like", postHandler.Like)
			r.Patch("/{id}", postHandler.Update)
			r.Delete("/{id}", postHandler.Delete)
		})
	})
}
