package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"
	"time"

	"blog-platform/internal/data/entity"
	"blog-platform/internal/data/repository"
	"blog-platform/internal/dto/request"
	"blog-platform/internal/dto/response"
	"blog-platform/pkg/notify"
	"blog-platform/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Subscription outcomes reported to the client.
const (
	SubscriptionCreated      = "subscribed"
	SubscriptionReactivated  = "resubscribed"
	SubscriptionActive       = "active"
	SubscriptionCancelled    = "unsubscribed"
	SubscriptionWasInactive  = "inactive"
	SubscriptionRemoved      = "removed"
	defaultNewsletterWorkers = 4
)

type NewsletterService interface {
	Subscribe(ctx context.Context, req *request.SubscribeRequest) (*response.SubscriptionResponse, error)
	Unsubscribe(ctx context.Context, req *request.SubscribeRequest) (*response.SubscriptionResponse, error)
	ListSubscribers(ctx context.Context) ([]response.SubscriberResponse, error)
	ApplyAction(ctx context.Context, subscriberID string, req *request.SubscriberActionRequest) (*response.SubscriptionResponse, error)
	SendCampaign(ctx context.Context, req *request.CampaignRequest) (*response.CampaignResponse, error)
}

type newsletterService struct {
	repo    repository.NewsletterRepository
	gateway notify.Gateway
	workers int
	now     func() time.Time
	log     *zap.Logger
}

type NewsletterOption func(*newsletterService)

// WithNewsletterClock replaces time.Now for subscription and campaign timestamps.
func WithNewsletterClock(now func() time.Time) NewsletterOption {
	return func(s *newsletterService) { s.now = now }
}

func NewNewsletterService(repo repository.NewsletterRepository, gateway notify.Gateway, config *utils.Config, log *zap.Logger, opts ...NewsletterOption) NewsletterService {
	workers := config.Newsletter.Workers
	if workers <= 0 {
		workers = defaultNewsletterWorkers
	}
	s := &newsletterService{
		repo:    repo,
		gateway: gateway,
		workers: workers,
		now:     time.Now,
		log:     log.With(zap.String("service", "newsletter")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *newsletterService) result(ctx context.Context, status string, id uuid.UUID) (*response.SubscriptionResponse, error) {
	sub, err := s.repo.FindSubscriberByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload subscriber: %w", err)
	}
	if sub == nil {
		return nil, fail(ErrNotFound, "subscriber not found")
	}
	return &response.SubscriptionResponse{Status: status, Subscriber: response.SubscriberToResponse(sub)}, nil
}

func (s *newsletterService) Subscribe(ctx context.Context, req *request.SubscribeRequest) (*response.SubscriptionResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	email := utils.NormalizeEmail(req.Email)

	existing, err := s.repo.FindSubscriberByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	now := s.now()
	switch {
	case existing == nil:
		sub := &entity.NewsletterSubscriber{ID: uuid.New(), Email: email, SubscribedAt: now}
		if err := s.repo.CreateSubscriber(ctx, sub); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				// subscribed concurrently; report the row that won
				again, ferr := s.repo.FindSubscriberByEmail(ctx, email)
				if ferr == nil && again != nil {
					return s.result(ctx, SubscriptionActive, again.ID)
				}
			}
			return nil, fmt.Errorf("subscribe: %w", err)
		}
		s.log.Info("Newsletter subscription created", zap.String("email", email))
		return s.result(ctx, SubscriptionCreated, sub.ID)

	case existing.Unsubscribed:
		if err := s.repo.SetSubscribed(ctx, existing.ID, true, now); err != nil {
			return nil, fmt.Errorf("resubscribe: %w", err)
		}
		return s.result(ctx, SubscriptionReactivated, existing.ID)

	default:
		return &response.SubscriptionResponse{Status: SubscriptionActive, Subscriber: response.SubscriberToResponse(existing)}, nil
	}
}

func (s *newsletterService) Unsubscribe(ctx context.Context, req *request.SubscribeRequest) (*response.SubscriptionResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	email := utils.NormalizeEmail(req.Email)

	existing, err := s.repo.FindSubscriberByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("unsubscribe: %w", err)
	}
	if existing == nil {
		return nil, fail(ErrNotFound, "email is not subscribed")
	}
	if existing.Unsubscribed {
		return &response.SubscriptionResponse{Status: SubscriptionWasInactive, Subscriber: response.SubscriberToResponse(existing)}, nil
	}

	if err := s.repo.SetSubscribed(ctx, existing.ID, false, s.now()); err != nil {
		return nil, fmt.Errorf("unsubscribe: %w", err)
	}
	return s.result(ctx, SubscriptionCancelled, existing.ID)
}

func (s *newsletterService) ListSubscribers(ctx context.Context) ([]response.SubscriberResponse, error) {
	subs, err := s.repo.ListSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	out := make([]response.SubscriberResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, response.SubscriberToResponse(sub))
	}
	return out, nil
}

func (s *newsletterService) ApplyAction(ctx context.Context, subscriberID string, req *request.SubscriberActionRequest) (*response.SubscriptionResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := parseID(subscriberID, "subscriber")
	if err != nil {
		return nil, err
	}

	sub, err := s.repo.FindSubscriberByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("subscriber action: %w", err)
	}
	if sub == nil {
		return nil, fail(ErrNotFound, "subscriber not found")
	}

	now := s.now()
	switch req.Action {
	case "unsubscribe":
		if err := s.repo.SetSubscribed(ctx, id, false, now); err != nil {
			return nil, fmt.Errorf("unsubscribe: %w", err)
		}
		return s.result(ctx, SubscriptionCancelled, id)
	case "resubscribe":
		if err := s.repo.SetSubscribed(ctx, id, true, now); err != nil {
			return nil, fmt.Errorf("resubscribe: %w", err)
		}
		return s.result(ctx, SubscriptionReactivated, id)
	default:
		if err := s.repo.DeleteSubscriber(ctx, id); err != nil {
			return nil, notFoundAs(err, "subscriber not found")
		}
		return &response.SubscriptionResponse{Status: SubscriptionRemoved, Subscriber: response.SubscriberToResponse(sub)}, nil
	}
}

// SendCampaign delivers the message to every active subscriber through a
// bounded worker group. A failed recipient never fails the campaign.
func (s *newsletterService) SendCampaign(ctx context.Context, req *request.CampaignRequest) (*response.CampaignResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	subs, err := s.repo.ListActiveSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subscribers: %w", err)
	}
	if len(subs) == 0 {
		return nil, ErrNoRecipients
	}

	subject := strings.TrimSpace(req.Subject)
	campaign := &entity.NewsletterCampaign{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: s.now()},
		Subject:    subject,
		Body:       req.Message,
	}
	if err := s.repo.CreateCampaign(ctx, campaign); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	var (
		mu        sync.Mutex
		delivered int
		failed    []string
	)

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for _, sub := range subs {
		g.Go(func() error {
			receipt := notify.Dispatch(ctx, s.gateway, notify.Message{
				Kind:    notify.KindNewsletter,
				To:      sub.Email,
				Subject: subject,
				Body:    newsletterBody(req.Message),
			}, s.log)

			if receipt.Delivered {
				if err := s.repo.RecordDelivery(ctx, campaign.ID, sub.ID, s.now()); err != nil {
					s.log.Warn("Delivery sent but not recorded", zap.Error(err), zap.String("email", sub.Email))
				}
			}

			mu.Lock()
			defer mu.Unlock()
			if receipt.Delivered {
				delivered++
			} else {
				failed = append(failed, sub.Email)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(failed)
	if failed == nil {
		failed = []string{}
	}

	if err := s.repo.FinishCampaign(ctx, campaign.ID, delivered, s.now()); err != nil {
		s.log.Error("Failed to finalize campaign", zap.Error(err), zap.String("campaign_id", campaign.ID.String()))
	}

	s.log.Info("Newsletter campaign sent",
		zap.String("campaign_id", campaign.ID.String()),
		zap.Int("recipients", len(subs)),
		zap.Int("delivered", delivered),
		zap.Int("failed", len(failed)))

	return &response.CampaignResponse{
		CampaignID: campaign.ID.String(),
		Subject:    subject,
		Recipients: len(subs),
		Delivered:  delivered,
		Failed:     failed,
	}, nil
}

// newsletterBody wraps the plain text message in a minimal HTML layout, one
// paragraph per blank-line separated block.
func newsletterBody(message string) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	for _, block := range strings.Split(strings.ReplaceAll(message, "\r\n", "\n"), "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(block), "\n", "<br/>"))
		b.WriteString("</p>")
	}
	b.WriteString(`<hr/><p style="font-size: 12px; color: #888;">You received this because you subscribed to our newsletter.</p></div>`)
	return b.String()
}
