package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"blog-platform/internal/dto/request"
	"blog-platform/pkg/notify"
	"blog-platform/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newNewsletterFixture(gw notify.Gateway, opts ...NewsletterOption) (NewsletterService, *memNewsletter) {
	repo := newMemNewsletter()
	cfg := &utils.Config{Newsletter: utils.NewsletterConfig{Workers: 2}}
	return NewNewsletterService(repo, gw, cfg, zap.NewNop(), opts...), repo
}

func TestNewsletterTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, repo := newNewsletterFixture(&recordingGateway{}, WithNewsletterClock(func() time.Time { return now }))
	ctx := context.Background()
	req := &request.SubscribeRequest{Email: "reader@example.com"}

	res, err := svc.Subscribe(ctx, req)
	require.NoError(t, err)
	id, err := uuid.Parse(res.Subscriber.ID)
	require.NoError(t, err)
	assert.Equal(t, now, repo.subs[id].SubscribedAt)

	subscribedAt := now
	now = now.Add(time.Hour)
	_, err = svc.Unsubscribe(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, repo.subs[id].UnsubscribedAt)
	assert.Equal(t, now, *repo.subs[id].UnsubscribedAt)
	assert.Equal(t, subscribedAt, repo.subs[id].SubscribedAt)

	now = now.Add(time.Hour)
	_, err = svc.Subscribe(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, now, repo.subs[id].SubscribedAt)
	assert.Nil(t, repo.subs[id].UnsubscribedAt)

	now = now.Add(24 * time.Hour)
	campaign, err := svc.SendCampaign(ctx, &request.CampaignRequest{Subject: "Weekly", Message: "hello"})
	require.NoError(t, err)
	campaignID, err := uuid.Parse(campaign.CampaignID)
	require.NoError(t, err)
	stored := repo.campaigns[campaignID]
	require.NotNil(t, stored)
	assert.Equal(t, now, stored.CreatedAt)
	require.NotNil(t, stored.SentAt)
	assert.Equal(t, now, *stored.SentAt)
}

func TestSubscribeFlow(t *testing.T) {
	svc, _ := newNewsletterFixture(&recordingGateway{})
	ctx := context.Background()
	req := &request.SubscribeRequest{Email: "Reader@Example.com"}

	res, err := svc.Subscribe(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, SubscriptionCreated, res.Status)
	assert.Equal(t, "reader@example.com", res.Subscriber.Email)
	assert.True(t, res.Subscriber.Active)

	res, err = svc.Subscribe(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, SubscriptionActive, res.Status)

	res, err = svc.Unsubscribe(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, SubscriptionCancelled, res.Status)
	assert.False(t, res.Subscriber.Active)
	assert.NotNil(t, res.Subscriber.UnsubscribedAt)

	res, err = svc.Unsubscribe(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, SubscriptionWasInactive, res.Status)

	res, err = svc.Subscribe(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, SubscriptionReactivated, res.Status)
	assert.True(t, res.Subscriber.Active)

	_, err = svc.Unsubscribe(ctx, &request.SubscribeRequest{Email: "stranger@example.com"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Subscribe(ctx, &request.SubscribeRequest{Email: "nope"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApplyAction(t *testing.T) {
	svc, _ := newNewsletterFixture(&recordingGateway{})
	ctx := context.Background()

	res, err := svc.Subscribe(ctx, &request.SubscribeRequest{Email: "a@example.com"})
	require.NoError(t, err)
	id := res.Subscriber.ID

	res, err = svc.ApplyAction(ctx, id, &request.SubscriberActionRequest{Action: "unsubscribe"})
	require.NoError(t, err)
	assert.False(t, res.Subscriber.Active)

	res, err = svc.ApplyAction(ctx, id, &request.SubscriberActionRequest{Action: "resubscribe"})
	require.NoError(t, err)
	assert.True(t, res.Subscriber.Active)

	res, err = svc.ApplyAction(ctx, id, &request.SubscriberActionRequest{Action: "remove"})
	require.NoError(t, err)
	assert.Equal(t, SubscriptionRemoved, res.Status)

	list, err := svc.ListSubscribers(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.ApplyAction(ctx, id, &request.SubscriberActionRequest{Action: "remove"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ApplyAction(ctx, uuid.NewString(), &request.SubscriberActionRequest{Action: "explode"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSendCampaign(t *testing.T) {
	ctx := context.Background()

	t.Run("no active subscribers", func(t *testing.T) {
		svc, _ := newNewsletterFixture(&recordingGateway{})
		_, err := svc.SendCampaign(ctx, &request.CampaignRequest{Subject: "Hi", Message: "news"})
		assert.ErrorIs(t, err, ErrNoRecipients)
	})

	t.Run("partial failure", func(t *testing.T) {
		gw := &recordingGateway{failFor: map[string]bool{"b@example.com": true}}
		svc, repo := newNewsletterFixture(gw)

		for _, email := range []string{"a@example.com", "b@example.com", "c@example.com", "d@example.com"} {
			_, err := svc.Subscribe(ctx, &request.SubscribeRequest{Email: email})
			require.NoError(t, err)
		}
		_, err := svc.Unsubscribe(ctx, &request.SubscribeRequest{Email: "d@example.com"})
		require.NoError(t, err)

		res, err := svc.SendCampaign(ctx, &request.CampaignRequest{
			Subject: " Weekly ",
			Message: "Line one\n\n<script>x</script>",
		})
		require.NoError(t, err)
		assert.Equal(t, "Weekly", res.Subject)
		assert.Equal(t, 3, res.Recipients)
		assert.Equal(t, 2, res.Delivered)
		assert.Equal(t, []string{"b@example.com"}, res.Failed)

		require.Equal(t, 2, gw.count())
		for _, msg := range gw.sent {
			assert.Equal(t, notify.KindNewsletter, msg.Kind)
			assert.NotEqual(t, "d@example.com", msg.To)
			assert.True(t, strings.Contains(msg.Body, "&lt;script&gt;"))
		}

		id := uuid.MustParse(res.CampaignID)
		assert.Len(t, repo.deliveries[id], 2)
		require.NotNil(t, repo.campaigns[id].SentAt)
		assert.Equal(t, 2, repo.campaigns[id].RecipientCount)
	})

	t.Run("nil gateway drops every message", func(t *testing.T) {
		svc, _ := newNewsletterFixture(nil)
		_, err := svc.Subscribe(ctx, &request.SubscribeRequest{Email: "a@example.com"})
		require.NoError(t, err)

		res, err := svc.SendCampaign(ctx, &request.CampaignRequest{Subject: "Hi", Message: "news"})
		require.NoError(t, err)
		assert.Zero(t, res.Delivered)
		assert.Equal(t, []string{"a@example.com"}, res.Failed)
	})
}

func TestNewsletterBody(t *testing.T) {
	body := newsletterBody("first\nline\n\n\nsecond")
	assert.Contains(t, body, "<p>first<br/>line</p>")
	assert.Contains(t, body, "<p>second</p>")
}
