// Package notify delivers verification codes and newsletter messages to a
// user-reachable channel. Delivery is best effort: callers get a Receipt
// describing what happened instead of an error.
package notify

import (
	"context"
	"errors"
	"time"

	"blog-platform/pkg/metrics"

	"go.uber.org/zap"
)

// Kind tags a message so channels can format it.
type Kind string

const (
	KindVerification Kind = "verification"
	KindNewsletter   Kind = "newsletter"
)

// ErrNotConfigured is returned by a channel whose credentials are absent.
var ErrNotConfigured = errors.New("notification channel not configured")

type Message struct {
	Kind    Kind
	To      string
	Subject string
	// Body is HTML for email; chat channels strip tags.
	Body string
	// Code is set for verification messages.
	Code string
}

// Gateway delivers a single message.
type Gateway interface {
	Deliver(ctx context.Context, msg Message) error
}

// Receipt is the outcome of a best-effort delivery.
type Receipt struct {
	Attempted bool   `json:"attempted"`
	Delivered bool   `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

const defaultDispatchTimeout = 15 * time.Second

// Dispatch delivers msg through gw with a bounded timeout. Failures are logged
// and reported in the receipt; they never propagate.
func Dispatch(ctx context.Context, gw Gateway, msg Message, log *zap.Logger) Receipt {
	if gw == nil {
		log.Warn("No notification gateway configured, message dropped",
			zap.String("kind", string(msg.Kind)), zap.String("to", msg.To))
		metrics.NotificationsTotal.WithLabelValues(string(msg.Kind), "skipped").Inc()
		return Receipt{}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultDispatchTimeout)
	defer cancel()

	if err := gw.Deliver(ctx, msg); err != nil {
		log.Warn("Notification delivery failed",
			zap.Error(err),
			zap.String("kind", string(msg.Kind)),
			zap.String("to", msg.To))
		metrics.NotificationsTotal.WithLabelValues(string(msg.Kind), "failed").Inc()
		return Receipt{Attempted: true, Error: "delivery failed"}
	}

	metrics.NotificationsTotal.WithLabelValues(string(msg.Kind), "delivered").Inc()
	return Receipt{Attempted: true, Delivered: true}
}
