package entity

import (
	"time"

	"github.com/google/uuid"
)

type NewsletterSubscriber struct {
	ID             uuid.UUID  `db:"id"`
	Email          string     `db:"email"`
	Unsubscribed   bool       `db:"unsubscribed"`
	SubscribedAt   time.Time  `db:"subscribed_at"`
	UnsubscribedAt *time.Time `db:"unsubscribed_at"`
	// LastSentAt is read from newsletter_deliveries, not stored on the row.
	LastSentAt *time.Time `db:"last_sent_at"`
}

type NewsletterCampaign struct {
	BaseSimple
	Subject        string     `db:"subject"`
	Body           string     `db:"body"`
	RecipientCount int        `db:"recipient_count"`
	SentAt         *time.Time `db:"sent_at"`
}
