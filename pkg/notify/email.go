package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"blog-platform/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// mailSender is satisfied by *gomail.Dialer.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailGateway sends messages over SMTP.
type EmailGateway struct {
	from   string
	sender mailSender
	log    *zap.Logger
}

func NewEmailGateway(cfg utils.EmailConfig, log *zap.Logger) *EmailGateway {
	return &EmailGateway{
		from:   cfg.From,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		log:    log.With(zap.String("gateway", "email")),
	}
}

func (g *EmailGateway) Deliver(ctx context.Context, msg Message) error {
	if g.from == "" {
		return ErrNotConfigured
	}
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("empty recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", g.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", subjectFor(msg))
	m.SetBody("text/html", bodyFor(msg))

	// gomail has no context support; bound the wait instead of the dial.
	done := make(chan error, 1)
	go func() { done <- g.sender.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send email: %w", err)
		}
	case <-ctx.Done():
		return fmt.Errorf("send email: %w", ctx.Err())
	}

	g.log.Info("Email sent", zap.String("to", msg.To), zap.String("kind", string(msg.Kind)))
	return nil
}

func subjectFor(msg Message) string {
	if msg.Subject != "" {
		return msg.Subject
	}
	if msg.Kind == KindVerification {
		return "Your verification code"
	}
	return "Newsletter"
}

func bodyFor(msg Message) string {
	if msg.Kind != KindVerification {
		return msg.Body
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Verify your email</h2>
    <p>Your verification code is:</p>
    <div style="font-size: 28px; font-weight: bold; letter-spacing: 3px;">%s</div>
    <p>The code expires in 15 minutes.</p>
  </div>
</body>
</html>`, html.EscapeString(msg.Code))
}
