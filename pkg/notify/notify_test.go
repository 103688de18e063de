package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"blog-platform/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type stubGateway struct {
	mu   sync.Mutex
	err  error
	sent []Message
}

func (s *stubGateway) Deliver(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func TestDispatch(t *testing.T) {
	log := zap.NewNop()
	msg := Message{Kind: KindVerification, To: "alice@example.com", Code: "123456"}

	t.Run("no gateway", func(t *testing.T) {
		r := Dispatch(context.Background(), nil, msg, log)
		assert.Equal(t, Receipt{}, r)
	})

	t.Run("delivered", func(t *testing.T) {
		gw := &stubGateway{}
		r := Dispatch(context.Background(), gw, msg, log)
		assert.True(t, r.Attempted)
		assert.True(t, r.Delivered)
		assert.Empty(t, r.Error)
		require.Len(t, gw.sent, 1)
		assert.Equal(t, "123456", gw.sent[0].Code)
	})

	t.Run("failure is reported, not returned", func(t *testing.T) {
		gw := &stubGateway{err: errors.New("smtp down")}
		r := Dispatch(context.Background(), gw, msg, log)
		assert.True(t, r.Attempted)
		assert.False(t, r.Delivered)
		assert.Equal(t, "delivery failed", r.Error)
	})
}

func TestFanout(t *testing.T) {
	msg := Message{Kind: KindNewsletter, To: "bob@example.com"}

	t.Run("empty", func(t *testing.T) {
		err := NewFanout().Add("nil", nil).Deliver(context.Background(), msg)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("one channel succeeds", func(t *testing.T) {
		bad := &stubGateway{err: errors.New("boom")}
		good := &stubGateway{}
		f := NewFanout().Add("bad", bad).Add("good", good)

		require.Equal(t, 2, f.Len())
		require.NoError(t, f.Deliver(context.Background(), msg))
		assert.Len(t, bad.sent, 1)
		assert.Len(t, good.sent, 1)
	})

	t.Run("all channels fail", func(t *testing.T) {
		first := errors.New("first")
		f := NewFanout().
			Add("a", &stubGateway{err: first}).
			Add("b", &stubGateway{err: errors.New("second")})

		err := f.Deliver(context.Background(), msg)
		require.Error(t, err)
		assert.ErrorIs(t, err, first)
		assert.Contains(t, err.Error(), "a: first")
		assert.Contains(t, err.Error(), "b: second")
	})
}

type fakeSender struct {
	err  error
	msgs []*gomail.Message
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.msgs = append(f.msgs, m...)
	return f.err
}

func TestEmailGateway(t *testing.T) {
	sender := &fakeSender{}
	gw := &EmailGateway{from: "noreply@blog.test", sender: sender, log: zap.NewNop()}

	err := gw.Deliver(context.Background(), Message{Kind: KindVerification, To: "alice@example.com", Code: "654321"})
	require.NoError(t, err)
	require.Len(t, sender.msgs, 1)

	m := sender.msgs[0]
	assert.Equal(t, []string{"alice@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Your verification code"}, m.GetHeader("Subject"))

	t.Run("not configured", func(t *testing.T) {
		gw := NewEmailGateway(utils.EmailConfig{}, zap.NewNop())
		err := gw.Deliver(context.Background(), Message{To: "x@example.com"})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("send error", func(t *testing.T) {
		gw := &EmailGateway{from: "noreply@blog.test", sender: &fakeSender{err: errors.New("dial tcp")}, log: zap.NewNop()}
		err := gw.Deliver(context.Background(), Message{To: "x@example.com"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dial tcp")
	})
}

func TestTelegramGateway(t *testing.T) {
	var got telegramSendMessage
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	gw := NewTelegramGateway(utils.TelegramConfig{BotToken: "T0K", ChatID: "42", APIURL: srv.URL}, zap.NewNop())

	err := gw.Deliver(context.Background(), Message{Kind: KindVerification, To: "alice@example.com", Code: "111222"})
	require.NoError(t, err)
	assert.Equal(t, "/botT0K/sendMessage", path)
	assert.Equal(t, "42", got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.True(t, got.DisableWebPagePreview)
	assert.Contains(t, got.Text, "<code>111222</code>")
	assert.Contains(t, got.Text, "alice@example.com")
}

func TestTelegramGatewayAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	gw := NewTelegramGateway(utils.TelegramConfig{BotToken: "x", ChatID: "1", APIURL: srv.URL}, zap.NewNop())
	err := gw.Deliver(context.Background(), Message{Kind: KindNewsletter, To: "a@b.c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestTelegramNewsletterText(t *testing.T) {
	body := "<p>Hello<br/>world</p>" + strings.Repeat("x", 400)
	text := telegramText(Message{Kind: KindNewsletter, To: "a@b.c", Subject: "Weekly", Body: body})

	assert.Contains(t, text, "Weekly")
	assert.Contains(t, text, "Hello\nworld")
	assert.NotContains(t, text, "<p>")
	// preview is capped at 300 runes
	assert.NotContains(t, text, strings.Repeat("x", 300))
	assert.Contains(t, text, strings.Repeat("x", 289))
}
