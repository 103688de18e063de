package response

import (
	"time"

	"blog-platform/internal/data/entity"
)

type SubscriberResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Active         bool       `json:"active"`
	SubscribedAt   time.Time  `json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at"`
	LastSentAt     *time.Time `json:"last_sent_at"`
}

func SubscriberToResponse(s *entity.NewsletterSubscriber) SubscriberResponse {
	return SubscriberResponse{
		ID:             s.ID.String(),
		Email:          s.Email,
		Active:         !s.Unsubscribed,
		SubscribedAt:   s.SubscribedAt,
		UnsubscribedAt: s.UnsubscribedAt,
		LastSentAt:     s.LastSentAt,
	}
}

type CampaignResponse struct {
	CampaignID string   `json:"campaign_id"`
	Subject    string   `json:"subject"`
	Recipients int      `json:"recipients"`
	Delivered  int      `json:"delivered"`
	Failed     []string `json:"failed"`
}

// SubscriptionResponse reports what a subscription request changed.
type SubscriptionResponse struct {
	Status     string             `json:"status"`
	Subscriber SubscriberResponse `json:"subscriber"`
}
