package wire

import (
	"blog-platform/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireNewsletter(r chi.Router, newsletterHandler *adaptor.NewsletterHandler) {
	r.Post("/api/newsletter/subscribe", newsletterHandler.Subscribe)
	r.Post("/api/newsletter/unsubscribe", newsletterHandler.Unsubscribe)
}
