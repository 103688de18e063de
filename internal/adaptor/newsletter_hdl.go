package adaptor

import (
	"net/http"

	"blog-platform/internal/dto/request"
	"blog-platform/internal/usecase"
	"blog-platform/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type NewsletterHandler struct {
	service usecase.NewsletterService
	log     *zap.Logger
}

func NewNewsletterHandler(service usecase.NewsletterService, log *zap.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		service: service,
		log:     log.With(zap.String("handler", "newsletter")),
	}
}

// Subscribe handles POST /api/newsletter/subscribe
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req request.SubscribeRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.service.Subscribe(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "subscribe")
		return
	}

	switch res.Status {
	case usecase.SubscriptionCreated:
		utils.ResponseCreated(w, "Subscribed to the newsletter", res)
	case usecase.SubscriptionReactivated:
		utils.ResponseSuccess(w, "Subscription reactivated", res)
	default:
		utils.ResponseSuccess(w, "Subscription is active", res)
	}
}

// Unsubscribe handles POST /api/newsletter/unsubscribe
func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req request.SubscribeRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.service.Unsubscribe(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "unsubscribe")
		return
	}

	msg := "Unsubscribed from the newsletter"
	if res.Status == usecase.SubscriptionWasInactive {
		msg = "Subscription was already inactive"
	}
	utils.ResponseSuccess(w, msg, res)
}

// ListSubscribers handles GET /api/admin/newsletter/subscribers
func (h *NewsletterHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.ListSubscribers(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list subscribers")
		return
	}

	utils.ResponseSuccess(w, "Subscribers retrieved successfully", subs)
}

// UpdateSubscriber handles PATCH /api/admin/newsletter/subscribers/{id}
func (h *NewsletterHandler) UpdateSubscriber(w http.ResponseWriter, r *http.Request) {
	var req request.SubscriberActionRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.service.ApplyAction(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update subscriber")
		return
	}

	utils.ResponseSuccess(w, "Subscriber updated", res)
}

// SendCampaign handles POST /api/admin/newsletter/campaigns
func (h *NewsletterHandler) SendCampaign(w http.ResponseWriter, r *http.Request) {
	var req request.CampaignRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.service.SendCampaign(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "send campaign")
		return
	}

	utils.ResponseSuccess(w, "Campaign sent", res)
}
