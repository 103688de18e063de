package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog-platform/internal/data/entity"
	"blog-platform/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type NewsletterRepository interface {
	CreateSubscriber(ctx context.Context, sub *entity.NewsletterSubscriber) error
	FindSubscriberByEmail(ctx context.Context, email string) (*entity.NewsletterSubscriber, error)
	FindSubscriberByID(ctx context.Context, id uuid.UUID) (*entity.NewsletterSubscriber, error)
	// SetSubscribed flips the subscription flag and stamps the matching time.
	SetSubscribed(ctx context.Context, id uuid.UUID, subscribed bool, at time.Time) error
	DeleteSubscriber(ctx context.Context, id uuid.UUID) error
	ListSubscribers(ctx context.Context) ([]*entity.NewsletterSubscriber, error)
	ListActiveSubscribers(ctx context.Context) ([]*entity.NewsletterSubscriber, error)

	CreateCampaign(ctx context.Context, campaign *entity.NewsletterCampaign) error
	RecordDelivery(ctx context.Context, campaignID, subscriberID uuid.UUID, at time.Time) error
	FinishCampaign(ctx context.Context, id uuid.UUID, recipients int, at time.Time) error
}

type newsletterRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewNewsletterRepository(db database.PgxIface, log *zap.Logger) NewsletterRepository {
	return &newsletterRepository{
		db:  db,
		log: log.With(zap.String("repository", "newsletter")),
	}
}

func (r *newsletterRepository) CreateSubscriber(ctx context.Context, sub *entity.NewsletterSubscriber) error {
	query := `
		INSERT INTO newsletter_subscribers (id, email, unsubscribed, subscribed_at)
		VALUES ($1, $2, FALSE, $3)
	`
	if _, err := r.db.Exec(ctx, query, sub.ID, sub.Email, sub.SubscribedAt); err != nil {
		err = classify(err)
		r.log.Error("Failed to create subscriber", zap.Error(err), zap.String("email", sub.Email))
		return fmt.Errorf("create subscriber %s: %w", sub.Email, err)
	}
	return nil
}

const subscriberSelect = `
		SELECT s.id, s.email, s.unsubscribed, s.subscribed_at, s.unsubscribed_at,
		       (SELECT MAX(d.sent_at) FROM newsletter_deliveries d WHERE d.subscriber_id = s.id) AS last_sent_at
		FROM newsletter_subscribers s
`

func scanSubscriber(row rowScanner) (*entity.NewsletterSubscriber, error) {
	var s entity.NewsletterSubscriber
	if err := row.Scan(&s.ID, &s.Email, &s.Unsubscribed, &s.SubscribedAt, &s.UnsubscribedAt, &s.LastSentAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *newsletterRepository) findSubscriber(ctx context.Context, what, query string, arg any) (*entity.NewsletterSubscriber, error) {
	s, err := scanSubscriber(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find subscriber", zap.Error(err), zap.String("by", what))
		return nil, fmt.Errorf("find subscriber by %s: %w", what, err)
	}
	return s, nil
}

func (r *newsletterRepository) FindSubscriberByEmail(ctx context.Context, email string) (*entity.NewsletterSubscriber, error) {
	return r.findSubscriber(ctx, "email", subscriberSelect+` WHERE s.email = $1`, email)
}

func (r *newsletterRepository) FindSubscriberByID(ctx context.Context, id uuid.UUID) (*entity.NewsletterSubscriber, error) {
	return r.findSubscriber(ctx, "id", subscriberSelect+` WHERE s.id = $1`, id)
}

func (r *newsletterRepository) SetSubscribed(ctx context.Context, id uuid.UUID, subscribed bool, at time.Time) error {
	query := `
		UPDATE newsletter_subscribers
		SET unsubscribed = FALSE, subscribed_at = $2, unsubscribed_at = NULL
		WHERE id = $1
	`
	if !subscribed {
		query = `
		UPDATE newsletter_subscribers
		SET unsubscribed = TRUE, unsubscribed_at = $2
		WHERE id = $1
	`
	}

	result, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		r.log.Error("Failed to update subscription",
			zap.Error(err),
			zap.String("subscriber_id", id.String()),
			zap.Bool("subscribed", subscribed))
		return fmt.Errorf("update subscription %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update subscription %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *newsletterRepository) DeleteSubscriber(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM newsletter_subscribers WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete subscriber", zap.Error(err), zap.String("subscriber_id", id.String()))
		return fmt.Errorf("delete subscriber %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete subscriber %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *newsletterRepository) listSubscribers(ctx context.Context, query string) ([]*entity.NewsletterSubscriber, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list subscribers", zap.Error(err))
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []*entity.NewsletterSubscriber
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			r.log.Error("Failed to scan subscriber row", zap.Error(err))
			return nil, fmt.Errorf("scan subscriber row: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate subscriber rows: %w", err)
	}
	return subs, nil
}

func (r *newsletterRepository) ListSubscribers(ctx context.Context) ([]*entity.NewsletterSubscriber, error) {
	return r.listSubscribers(ctx, subscriberSelect+` ORDER BY s.subscribed_at DESC`)
}

func (r *newsletterRepository) ListActiveSubscribers(ctx context.Context) ([]*entity.NewsletterSubscriber, error) {
	return r.listSubscribers(ctx, subscriberSelect+` WHERE s.unsubscribed = FALSE ORDER BY s.subscribed_at`)
}

func (r *newsletterRepository) CreateCampaign(ctx context.Context, campaign *entity.NewsletterCampaign) error {
	query := `
		INSERT INTO newsletter_campaigns (id, subject, body, recipient_count, created_at)
		VALUES ($1, $2, $3, 0, $4)
	`
	if _, err := r.db.Exec(ctx, query, campaign.ID, campaign.Subject, campaign.Body, campaign.CreatedAt); err != nil {
		r.log.Error("Failed to create campaign", zap.Error(err), zap.String("subject", campaign.Subject))
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

func (r *newsletterRepository) RecordDelivery(ctx context.Context, campaignID, subscriberID uuid.UUID, at time.Time) error {
	query := `
		INSERT INTO newsletter_deliveries (campaign_id, subscriber_id, sent_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (campaign_id, subscriber_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, campaignID, subscriberID, at); err != nil {
		r.log.Error("Failed to record delivery",
			zap.Error(err),
			zap.String("campaign_id", campaignID.String()),
			zap.String("subscriber_id", subscriberID.String()))
		return fmt.Errorf("record delivery for campaign %s: %w", campaignID, err)
	}
	return nil
}

func (r *newsletterRepository) FinishCampaign(ctx context.Context, id uuid.UUID, recipients int, at time.Time) error {
	query := `UPDATE newsletter_campaigns SET recipient_count = $2, sent_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, recipients, at)
	if err != nil {
		r.log.Error("Failed to finish campaign", zap.Error(err), zap.String("campaign_id", id.String()))
		return fmt.Errorf("finish campaign %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("finish campaign %s: %w", id, ErrNotFound)
	}
	return nil
}
